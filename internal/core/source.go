package core

import (
	"slices"

	"github.com/toejough/marbles/internal/parse"
	"github.com/toejough/marbles/rx"
)

// SubscriptionRecorder is anything that logs its subscriptions.
type SubscriptionRecorder interface {
	Subscriptions() []parse.SubscriptionLog
}

// ColdSource replays its diagram from the start for every subscriber.
type ColdSource[T any] struct {
	sched  *Scheduler
	events []parse.TimedNotification[T]
	logs   subscriptionLogs
}

// Cold builds a cold source from diagram. A '^' is not allowed: a cold
// source's timeline starts at each subscription.
func Cold[T any](s *Scheduler, diagram string, values map[rune]T, errValue error) *ColdSource[T] {
	s.t.Helper()

	source := &ColdSource[T]{sched: s, logs: subscriptionLogs{sched: s}}

	desc, err := parse.Parse(diagram, s.cfg.frameUnit, values, errValue)
	if err != nil {
		s.t.Fatalf("cold: %v", err)

		return source
	}

	if desc.HasCaret {
		index := int(desc.SubscriptionFrame / s.cfg.frameUnit)
		s.t.Fatalf("cold: %v", &parse.ParseError{
			Diagram: diagram,
			Index:   index,
			Char:    parse.Caret,
			Reason:  "cold source cannot have a subscription point",
		})

		return source
	}

	s.extendHorizon(s.now + desc.End)
	source.events = desc.Events

	return source
}

// Events returns the parsed timeline, frames relative to subscription.
func (c *ColdSource[T]) Events() []parse.TimedNotification[T] {
	return slices.Clone(c.events)
}

// Subscribe schedules the whole timeline relative to now for sub.
func (c *ColdSource[T]) Subscribe(sub *rx.Subscriber[T]) {
	c.logs.open(sub.Subscription)

	for _, event := range c.events {
		note := event.Notification
		pending := c.sched.After(event.Frame, func() { sub.Notify(note) })
		sub.Add(pending.Unsubscribe)
	}
}

// Subscriptions returns the log of every subscription so far.
func (c *ColdSource[T]) Subscriptions() []parse.SubscriptionLog {
	return c.logs.snapshot()
}

// HotSource plays its diagram once; subscribers see only what happens after
// they join.
type HotSource[T any] struct {
	sched       *Scheduler
	events      []parse.TimedNotification[T]
	subscribers []*rx.Subscriber[T]
	logs        subscriptionLogs
}

// Hot builds a hot source from diagram. The '^' marks the scheduler's
// current frame; events before it have already happened and are never
// delivered. Without a '^' the diagram starts at the current frame. A
// subscriber joining on the frame of an event receives it.
func Hot[T any](s *Scheduler, diagram string, values map[rune]T, errValue error) *HotSource[T] {
	s.t.Helper()

	source := &HotSource[T]{sched: s, logs: subscriptionLogs{sched: s}}

	desc, err := parse.Parse(diagram, s.cfg.frameUnit, values, errValue)
	if err != nil {
		s.t.Fatalf("hot: %v", err)

		return source
	}

	base := s.now
	s.extendHorizon(base + desc.End)
	source.events = desc.Events

	// Deliveries are queued at flush start so that subscriptions queued
	// before the flush run first on a shared frame.
	s.onFlush(func() {
		for _, event := range desc.Events {
			if event.Frame < 0 {
				continue
			}

			note := event.Notification
			if _, err := s.Schedule(base+event.Frame, func() { source.deliver(note) }); err != nil {
				s.t.Fatalf("hot: %v", err)

				return
			}
		}
	})

	return source
}

// Events returns the parsed timeline, frames relative to the '^'.
func (h *HotSource[T]) Events() []parse.TimedNotification[T] {
	return slices.Clone(h.events)
}

// Subscribe adds sub to the current audience.
func (h *HotSource[T]) Subscribe(sub *rx.Subscriber[T]) {
	h.logs.open(sub.Subscription)
	h.subscribers = append(h.subscribers, sub)

	sub.Add(func() {
		h.subscribers = slices.DeleteFunc(h.subscribers, func(s *rx.Subscriber[T]) bool { return s == sub })
	})
}

// Subscriptions returns the log of every subscription so far.
func (h *HotSource[T]) Subscriptions() []parse.SubscriptionLog {
	return h.logs.snapshot()
}

func (h *HotSource[T]) deliver(note rx.Notification[T]) {
	for _, sub := range slices.Clone(h.subscribers) {
		sub.Notify(note)
	}
}

// subscriptionLogs records subscribe/unsubscribe frames for one source.
type subscriptionLogs struct {
	sched   *Scheduler
	entries []parse.SubscriptionLog
}

// open appends an entry for sub and closes it when sub is torn down.
func (l *subscriptionLogs) open(sub *rx.Subscription) {
	index := len(l.entries)
	l.entries = append(l.entries, parse.SubscriptionLog{Subscribed: l.sched.now, Unsubscribed: parse.Never})

	sub.Add(func() {
		l.entries[index].Unsubscribed = l.sched.now
	})
}

func (l *subscriptionLogs) snapshot() []parse.SubscriptionLog {
	return slices.Clone(l.entries)
}
