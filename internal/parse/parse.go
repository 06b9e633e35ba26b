// Package parse turns marble diagrams into timed notification sequences and
// subscription logs, and renders sequences back into diagrams.
package parse

import (
	"errors"
	"fmt"
	"math"

	"github.com/toejough/marbles/rx"
)

// Marble characters.
const (
	Dash       = '-'
	Space      = ' '
	GroupOpen  = '('
	GroupClose = ')'
	Pipe       = '|'
	Pound      = '#'
	Caret      = '^'
	Bang       = '!'
)

// Never marks an absent subscription or unsubscription frame.
const Never int64 = math.MaxInt64

// Exported variables.
var (
	// ErrParse is the sentinel every ParseError unwraps to.
	ErrParse = errors.New("invalid marble diagram")
	// ErrMarble is the error a '#' carries when no error value is supplied.
	ErrMarble = errors.New("error")
)

// Descriptor is the parsed form of one diagram.
type Descriptor[T any] struct {
	// Events are ordered by frame. Frames are relative to the caret when
	// there is one, so events before it have negative frames.
	Events []TimedNotification[T]
	// HasCaret reports whether the diagram marked a subscription point.
	HasCaret bool
	// SubscriptionFrame is the absolute frame of the caret, 0 without one.
	SubscriptionFrame int64
	// End is the frame just past the last character, relative like Events.
	End int64
}

// ParseError reports a malformed diagram.
type ParseError struct {
	Diagram string
	Index   int
	Char    rune
	Reason  string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("marble diagram %q: %s at index %d (%q)", e.Diagram, e.Reason, e.Index, e.Char)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// SubscriptionLog is the interval during which one subscription was open.
type SubscriptionLog struct {
	Subscribed   int64
	Unsubscribed int64
}

// String renders the log with "never" for absent frames.
func (l SubscriptionLog) String() string {
	return fmt.Sprintf("{subscribed: %s, unsubscribed: %s}", FrameString(l.Subscribed), FrameString(l.Unsubscribed))
}

// TimedNotification is a notification positioned on the virtual timeline.
type TimedNotification[T any] struct {
	Frame        int64
	Notification rx.Notification[T]
}

// String renders the entry as one line of failure output.
func (t TimedNotification[T]) String() string {
	return fmt.Sprintf("frame %d: %s", t.Frame, t.Notification)
}

// FrameString renders frame for output, with Never as "never".
func FrameString(frame int64) string {
	if frame == Never {
		return "never"
	}

	return fmt.Sprint(frame)
}

// Parse converts diagram into a Descriptor. Each character occupies unit
// frames. Values for emission characters come from values; characters
// without an entry stand for themselves when T is string or rune. A '#'
// carries errValue, or ErrMarble when errValue is nil.
func Parse[T any](diagram string, unit int64, values map[rune]T, errValue error) (Descriptor[T], error) {
	if errValue == nil {
		errValue = ErrMarble
	}

	chars := []rune(diagram)
	caret := indexOf(chars, Caret)

	var offset int64
	if caret >= 0 {
		offset = -int64(caret) * unit
	}

	desc := Descriptor[T]{
		HasCaret:          caret >= 0,
		SubscriptionFrame: max(0, int64(caret)*unit),
		End:               int64(len(chars))*unit + offset,
	}

	var state groupState
	terminated := -1

	for index, char := range chars {
		if terminated >= 0 && !(char == GroupClose && state.open()) {
			return Descriptor[T]{}, newParseError(diagram, index, char, "token after terminator")
		}

		frame := int64(index)*unit + offset

		var (
			note rx.Notification[T]
			emit bool
		)

		switch char {
		case Dash, Space:
		case GroupOpen, GroupClose:
			if err := state.handle(diagram, index, char, frame); err != nil {
				return Descriptor[T]{}, err
			}
		case Caret:
			if index != caret {
				return Descriptor[T]{}, newParseError(diagram, index, char, "second subscription point")
			}
		case Bang:
			return Descriptor[T]{}, newParseError(diagram, index, char, "unsubscription marker in a conventional diagram")
		case Pipe:
			note, emit = rx.Complete[T](), true
			terminated = index
		case Pound:
			note, emit = rx.Error[T](errValue), true
			terminated = index
		default:
			value, err := lookup(values, char)
			if err != nil {
				return Descriptor[T]{}, newParseError(diagram, index, char, err.Error())
			}

			note, emit = rx.Next(value), true
		}

		if emit {
			desc.Events = append(desc.Events, TimedNotification[T]{Frame: state.frame(frame), Notification: note})
		}
	}

	if state.open() {
		return Descriptor[T]{}, newParseError(diagram, state.index, GroupOpen, "unmatched group")
	}

	return desc, nil
}

// ParseSubscription parses a diagram made only of time, group, '^' and '!'
// characters into a SubscriptionLog. Missing markers yield Never.
func ParseSubscription(diagram string, unit int64) (SubscriptionLog, error) {
	log := SubscriptionLog{Subscribed: Never, Unsubscribed: Never}
	var state groupState

	for index, char := range []rune(diagram) {
		frame := state.frame(int64(index) * unit)

		switch char {
		case Dash, Space:
		case GroupOpen, GroupClose:
			if err := state.handle(diagram, index, char, int64(index)*unit); err != nil {
				return SubscriptionLog{}, err
			}
		case Caret:
			if log.Subscribed != Never {
				return SubscriptionLog{}, newParseError(diagram, index, char, "second subscription point")
			}

			log.Subscribed = frame
		case Bang:
			if log.Unsubscribed != Never {
				return SubscriptionLog{}, newParseError(diagram, index, char, "second unsubscription point")
			}

			if log.Subscribed == Never {
				return SubscriptionLog{}, newParseError(diagram, index, char, "unsubscription before subscription")
			}

			log.Unsubscribed = frame
		default:
			return SubscriptionLog{}, newParseError(diagram, index, char, "only '^' and '!' markers allowed in a subscription diagram")
		}
	}

	if state.open() {
		return SubscriptionLog{}, newParseError(diagram, state.index, GroupOpen, "unmatched group")
	}

	return log, nil
}

// groupState tracks an open '(' while scanning.
type groupState struct {
	active bool
	start  int64
	index  int
}

func (g *groupState) frame(frame int64) int64 {
	if g.active {
		return g.start
	}

	return frame
}

func (g *groupState) handle(diagram string, index int, char rune, frame int64) error {
	if char == GroupOpen {
		if g.active {
			return newParseError(diagram, index, char, "nested group")
		}

		*g = groupState{active: true, start: frame, index: index}

		return nil
	}

	if !g.active {
		return newParseError(diagram, index, char, "unmatched group")
	}

	*g = groupState{}

	return nil
}

func (g *groupState) open() bool {
	return g.active
}


func indexOf(chars []rune, target rune) int {
	for i, c := range chars {
		if c == target {
			return i
		}
	}

	return -1
}

// lookup resolves the value for an emission character.
func lookup[T any](values map[rune]T, char rune) (T, error) {
	if value, ok := values[char]; ok {
		return value, nil
	}

	if value, ok := any(string(char)).(T); ok {
		return value, nil
	}

	if value, ok := any(char).(T); ok {
		return value, nil
	}

	var zero T

	//nolint:err113 // dynamic reason text, wrapped into ParseError by the caller
	return zero, fmt.Errorf("no value for %q", char)
}

func newParseError(diagram string, index int, char rune, reason string) *ParseError {
	return &ParseError{Diagram: diagram, Index: index, Char: char, Reason: reason}
}
