package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/toejough/marbles/internal/parse"
	"github.com/toejough/marbles/rx"
)

// ObservableExpectation collects what a stream emits during a flush.
type ObservableExpectation[T any] struct {
	sched    *Scheduler
	actual   []parse.TimedNotification[T]
	expected []parse.TimedNotification[any]
	diagram  string
	glyph    parse.Glyph[T]
	base     Frame
}

// ExpectObservable subscribes to src when the flush reaches the '^' of the
// optional subscription diagram (frame 0 without one) and unsubscribes at
// its '!'. Complete the expectation with ToBe or ToMatch. All diagrams are
// read from the scheduler's current frame, so a scheduler can be flushed
// again with new expectations.
func ExpectObservable[T any](s *Scheduler, src rx.Observable[T], subscription ...string) *ObservableExpectation[T] {
	s.t.Helper()

	exp := &ObservableExpectation[T]{sched: s, base: s.now}

	subscribeAt, unsubscribeAt := s.now, parse.Never

	if len(subscription) > 0 && subscription[0] != "" {
		log, err := parse.ParseSubscription(subscription[0], s.cfg.frameUnit)
		if err != nil {
			s.t.Fatalf("expect observable: %v", err)

			return exp
		}

		if log.Subscribed != parse.Never {
			subscribeAt = s.now + log.Subscribed
		}

		if log.Unsubscribed != parse.Never {
			unsubscribeAt = s.now + log.Unsubscribed
			s.extendHorizon(unsubscribeAt)
		}
	}

	sub := rx.NewSubscriber(func(n rx.Notification[T]) {
		exp.actual = append(exp.actual, parse.TimedNotification[T]{Frame: s.now, Notification: n})
	})

	if _, err := s.Schedule(subscribeAt, func() { src.Subscribe(sub) }); err != nil {
		s.t.Fatalf("expect observable: %v", err)

		return exp
	}

	if unsubscribeAt != parse.Never {
		if _, err := s.Schedule(unsubscribeAt, sub.Unsubscribe); err != nil {
			s.t.Fatalf("expect observable: %v", err)
		}
	}

	return exp
}

// ToBe expects the stream to match diagram exactly, with emission values
// taken from values and '#' meaning errValue (a default error when nil).
func (e *ObservableExpectation[T]) ToBe(diagram string, values map[rune]T, errValue error) {
	e.sched.t.Helper()

	desc, err := parse.Parse(diagram, e.sched.cfg.frameUnit, values, errValue)
	if err != nil {
		e.sched.t.Fatalf("expect observable: %v", err)

		return
	}

	expected := make([]parse.TimedNotification[any], 0, len(desc.Events))
	for _, event := range desc.Events {
		expected = append(expected, toAny(event))
	}

	e.register(diagram, desc.End, expected, parse.GlyphFor(values))
}

// ToMatch is ToBe with loosely typed expectations: values may hold Matchers
// (gomega matchers work), and errValue may be an error, a Matcher, or any
// other value whose text must equal the actual error's message.
func (e *ObservableExpectation[T]) ToMatch(diagram string, values map[rune]any, errValue any) {
	e.sched.t.Helper()

	desc, err := parse.Parse(diagram, e.sched.cfg.frameUnit, values, expectedError(errValue))
	if err != nil {
		e.sched.t.Fatalf("expect observable: %v", err)

		return
	}

	glyph := parse.GlyphFor(values)

	e.register(diagram, desc.End, desc.Events, func(value T) (rune, bool) { return glyph(any(value)) })
}

func (e *ObservableExpectation[T]) register(
	diagram string,
	end Frame,
	expected []parse.TimedNotification[any],
	glyph parse.Glyph[T],
) {
	for i := range expected {
		expected[i].Frame += e.base
	}

	e.diagram = diagram
	e.expected = expected
	e.glyph = glyph
	e.sched.extendHorizon(e.base + end)
	e.sched.register(e)
}

func (e *ObservableExpectation[T]) verify() error {
	count := max(len(e.actual), len(e.expected))

	for index := range count {
		ok, detail := matchEntry(e.actual, e.expected, index)
		if ok {
			continue
		}

		return &MismatchError{
			What:            "observable",
			Index:           index,
			Expected:        entryString(e.expected, index),
			Actual:          entryString(e.actual, index),
			Detail:          detail,
			ExpectedDiagram: e.diagram,
			ActualDiagram:   e.actualDiagram(),
			Diff:            e.sched.cfg.differ(listing(e.expected), listing(e.actual)),
		}
	}

	return nil
}

func (e *ObservableExpectation[T]) actualDiagram() string {
	if len(e.actual) == 0 {
		return ""
	}

	events := slices.Clone(e.actual)
	for i := range events {
		events[i].Frame -= e.base
	}

	drawn, err := parse.Serialize(events, e.sched.cfg.frameUnit, e.glyph)
	if err != nil {
		return fmt.Sprintf("(not drawable: %v)", err)
	}

	return drawn
}

// SubscriptionExpectation checks the subscription log of a source.
type SubscriptionExpectation struct {
	sched    *Scheduler
	recorder SubscriptionRecorder
	expected []parse.SubscriptionLog
	diagrams []string
	base     Frame
}

// ExpectSubscriptions expects recorder's log, read after the flush, to
// match the diagrams given to ToBe.
func ExpectSubscriptions(s *Scheduler, recorder SubscriptionRecorder) *SubscriptionExpectation {
	return &SubscriptionExpectation{sched: s, recorder: recorder, base: s.now}
}

// ToBe expects one subscription per diagram, in order. No diagrams means no
// subscriptions at all.
func (e *SubscriptionExpectation) ToBe(diagrams ...string) {
	e.sched.t.Helper()

	for _, diagram := range diagrams {
		log, err := parse.ParseSubscription(diagram, e.sched.cfg.frameUnit)
		if err != nil {
			e.sched.t.Fatalf("expect subscriptions: %v", err)

			return
		}

		if log.Subscribed != parse.Never {
			log.Subscribed += e.base
		}

		if log.Unsubscribed != parse.Never {
			log.Unsubscribed += e.base
		}

		e.sched.extendHorizon(e.base + int64(len([]rune(diagram)))*e.sched.cfg.frameUnit)
		e.expected = append(e.expected, log)
	}

	e.diagrams = diagrams
	e.sched.register(e)
}

func (e *SubscriptionExpectation) verify() error {
	actual := e.recorder.Subscriptions()
	count := max(len(actual), len(e.expected))

	for index := range count {
		if index < len(actual) && index < len(e.expected) && actual[index] == e.expected[index] {
			continue
		}

		return &MismatchError{
			What:            "subscriptions",
			Index:           index,
			Expected:        entryString(e.expected, index),
			Actual:          entryString(actual, index),
			ExpectedDiagram: strings.Join(e.diagrams, " "),
			Diff:            e.sched.cfg.differ(listing(e.expected), listing(actual)),
		}
	}

	return nil
}

func entryString[E fmt.Stringer](entries []E, index int) string {
	if index >= len(entries) {
		return "nothing"
	}

	return entries[index].String()
}

func listing[E fmt.Stringer](entries []E) string {
	var out strings.Builder

	for _, entry := range entries {
		out.WriteString(entry.String())
		out.WriteByte('\n')
	}

	return out.String()
}

func matchEntry[T any](actual []parse.TimedNotification[T], expected []parse.TimedNotification[any], index int) (bool, string) {
	if index >= len(actual) || index >= len(expected) {
		return false, ""
	}

	got, want := actual[index], expected[index]

	if got.Frame != want.Frame {
		return false, fmt.Sprintf("expected frame %d, got frame %d", want.Frame, got.Frame)
	}

	if got.Notification.Kind != want.Notification.Kind {
		return false, fmt.Sprintf("expected %s, got %s", want.Notification, got.Notification)
	}

	switch got.Notification.Kind {
	case rx.KindNext:
		return MatchValue(got.Notification.Value, want.Notification.Value)
	case rx.KindError:
		return MatchError(got.Notification.Err, want.Notification.Err)
	case rx.KindComplete:
	}

	return true, ""
}

func toAny[T any](event parse.TimedNotification[T]) parse.TimedNotification[any] {
	return parse.TimedNotification[any]{
		Frame: event.Frame,
		Notification: rx.Notification[any]{
			Kind:  event.Notification.Kind,
			Value: event.Notification.Value,
			Err:   event.Notification.Err,
		},
	}
}
