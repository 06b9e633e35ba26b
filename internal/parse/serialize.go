package parse

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/toejough/marbles/rx"
)

// ErrUnrenderable is returned when a timeline cannot be drawn one character
// per frame unit.
var ErrUnrenderable = errors.New("timeline cannot be rendered as a marble diagram")

// Glyph maps a value to the character that draws it.
type Glyph[T any] func(value T) (rune, bool)

// DefaultGlyph draws single-character strings and runes as themselves.
func DefaultGlyph[T any](value T) (rune, bool) {
	switch v := any(value).(type) {
	case rune:
		return v, true
	case string:
		if utf8.RuneCountInString(v) == 1 {
			r, _ := utf8.DecodeRuneInString(v)

			return r, true
		}
	}

	return 0, false
}

// GlyphFor draws values by reverse lookup in values, falling back to
// DefaultGlyph. Keys are tried in ascending order so the result is stable.
func GlyphFor[T any](values map[rune]T) Glyph[T] {
	keys := make([]rune, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return func(value T) (rune, bool) {
		for _, key := range keys {
			if reflect.DeepEqual(values[key], value) {
				return key, true
			}
		}

		return DefaultGlyph(value)
	}
}

// Serialize draws events as a diagram, one character per unit frames.
// Events sharing a frame become a group. It fails when a frame is negative,
// off the unit grid, overlaps a preceding group, or holds a value glyph
// cannot draw.
func Serialize[T any](events []TimedNotification[T], unit int64, glyph Glyph[T]) (string, error) {
	if glyph == nil {
		glyph = DefaultGlyph[T]
	}

	var out strings.Builder

	position := int64(0)

	for start := 0; start < len(events); {
		frame := events[start].Frame

		end := start
		for end < len(events) && events[end].Frame == frame {
			end++
		}

		if frame < 0 || frame%unit != 0 || frame/unit < position {
			return "", fmt.Errorf("%w: frame %d", ErrUnrenderable, frame)
		}

		tokens := make([]rune, 0, end-start)

		for _, event := range events[start:end] {
			token, err := tokenFor(event.Notification, glyph)
			if err != nil {
				return "", fmt.Errorf("%w: frame %d: %w", ErrUnrenderable, frame, err)
			}

			tokens = append(tokens, token)
		}

		out.WriteString(strings.Repeat(string(Dash), int(frame/unit-position)))

		if len(tokens) == 1 {
			out.WriteRune(tokens[0])
			position = frame/unit + 1
		} else {
			out.WriteRune(GroupOpen)
			out.WriteString(string(tokens))
			out.WriteRune(GroupClose)
			position = frame/unit + int64(len(tokens)) + 2 //nolint:mnd // the two parentheses
		}

		start = end
	}

	return out.String(), nil
}

func tokenFor[T any](note rx.Notification[T], glyph Glyph[T]) (rune, error) {
	switch note.Kind {
	case rx.KindComplete:
		return Pipe, nil
	case rx.KindError:
		return Pound, nil
	case rx.KindNext:
	}

	token, ok := glyph(note.Value)
	if !ok {
		//nolint:err113 // dynamic value in message
		return 0, fmt.Errorf("no glyph for value %v", note.Value)
	}

	return token, nil
}
