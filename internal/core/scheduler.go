// Package core provides the internal implementation of the marbles virtual
// time scheduler, marble sources and expectations.
package core

import (
	"container/heap"
	"errors"

	"github.com/toejough/marbles/rx"
)

// Frame is a point on the virtual timeline.
type Frame = int64

// Action is one piece of scheduled work.
type Action struct {
	frame  Frame
	seq    uint64
	effect func()
	index  int // position in the queue, -1 once fired or cancelled
	sched  *Scheduler
}

// Cancel removes the action from the queue. It does nothing once the action
// has fired or been cancelled.
func (a *Action) Cancel() {
	if a == nil || a.index < 0 {
		return
	}

	heap.Remove(&a.sched.queue, a.index)
	a.sched.cfg.logger.Trace().Int64("frame", a.frame).Uint64("seq", a.seq).Msg("action cancelled")
}

// Frame returns the frame the action fires at.
func (a *Action) Frame() Frame {
	return a.frame
}

// Pending reports whether the action is still queued.
func (a *Action) Pending() bool {
	return a != nil && a.index >= 0
}

// Scheduler is a deterministic virtual clock. Work is queued against frames
// and only runs when Flush drains the queue, in (frame, insertion) order.
// A Scheduler belongs to one test and is not safe for concurrent use.
type Scheduler struct {
	t            TestReporter
	cfg          config
	now          Frame
	seq          uint64
	queue        actionQueue
	longest      Frame
	flushing     bool
	expectations []expectation
	starts       []func()
}

// NewScheduler creates a scheduler reporting failures to t.
func NewScheduler(t TestReporter, opts ...Option) *Scheduler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Scheduler{t: t, cfg: cfg}
}

// After queues work delay frames from now. It satisfies rx.Scheduler.
// A negative delay is reported as a fatal schedule conflict.
func (s *Scheduler) After(delay int64, work func()) *rx.Subscription {
	s.t.Helper()

	sub := rx.NewSubscription()

	action, err := s.Schedule(s.now+delay, work)
	if err != nil {
		s.t.Fatalf("%v", err)
		sub.Unsubscribe()

		return sub
	}

	sub.Add(action.Cancel)

	return sub
}

// Flush runs every queued action up to the horizon, then checks all
// registered expectations and reports failures to the test.
func (s *Scheduler) Flush() {
	s.t.Helper()

	if err := s.flush(); err != nil {
		s.t.Fatalf("%v", err)
	}
}

// FrameUnit returns the number of frames one diagram character spans.
func (s *Scheduler) FrameUnit() Frame {
	return s.cfg.frameUnit
}

// Horizon returns the last frame the next Flush will run actions at.
func (s *Scheduler) Horizon() Frame {
	return max(s.now+s.cfg.maxFrames, s.longest)
}

// Now returns the current virtual frame.
func (s *Scheduler) Now() int64 {
	return s.now
}

// Schedule queues effect to run at the absolute frame. Frames before now,
// including negative ones, are a ScheduleConflictError.
func (s *Scheduler) Schedule(frame Frame, effect func()) (*Action, error) {
	if frame < 0 || frame < s.now {
		return nil, &ScheduleConflictError{Frame: frame, Now: s.now, Reason: "frame is in the past"}
	}

	s.seq++
	action := &Action{frame: frame, seq: s.seq, effect: effect, sched: s}
	heap.Push(&s.queue, action)

	s.cfg.logger.Trace().Int64("frame", frame).Uint64("seq", action.seq).Msg("action scheduled")

	return action, nil
}

// extendHorizon makes sure a flush runs at least to frame.
func (s *Scheduler) extendHorizon(frame Frame) {
	s.longest = max(s.longest, frame)
}

func (s *Scheduler) flush() error {
	if s.flushing {
		return &ScheduleConflictError{Frame: s.now, Now: s.now, Reason: "flush called while flushing"}
	}

	s.flushing = true
	defer func() { s.flushing = false }()

	starts := s.starts
	s.starts = nil

	for _, start := range starts {
		start()
	}

	horizon := s.Horizon()
	s.cfg.logger.Debug().Int64("now", s.now).Int64("horizon", horizon).Int("queued", s.queue.Len()).Msg("flush started")

	fired := 0

	for s.queue.Len() > 0 && s.queue[0].frame <= horizon {
		action, _ := heap.Pop(&s.queue).(*Action)
		s.now = action.frame
		fired++

		s.cfg.logger.Trace().Int64("frame", action.frame).Uint64("seq", action.seq).Msg("action fired")
		action.effect()
	}

	expectations := s.expectations
	s.expectations = nil

	errs := make([]error, 0, len(expectations))
	for _, exp := range expectations {
		errs = append(errs, exp.verify())
	}

	err := errors.Join(errs...)

	s.cfg.logger.Debug().
		Int64("now", s.now).
		Int("fired", fired).
		Int("pending", s.queue.Len()).
		Int("expectations", len(expectations)).
		Bool("ok", err == nil).
		Msg("flush finished")

	return err
}

// onFlush runs start when the next flush begins, after everything queued
// before it. During a flush it runs start at once.
func (s *Scheduler) onFlush(start func()) {
	if s.flushing {
		start()

		return
	}

	s.starts = append(s.starts, start)
}

func (s *Scheduler) register(exp expectation) {
	s.expectations = append(s.expectations, exp)
}

// actionQueue is a min-heap on (frame, seq).
type actionQueue []*Action

func (q actionQueue) Len() int { return len(q) }

func (q actionQueue) Less(i, j int) bool {
	if q[i].frame != q[j].frame {
		return q[i].frame < q[j].frame
	}

	return q[i].seq < q[j].seq
}

func (q *actionQueue) Pop() any {
	old := *q
	last := len(old) - 1
	action := old[last]
	old[last] = nil
	action.index = -1
	*q = old[:last]

	return action
}

func (q *actionQueue) Push(x any) {
	action, _ := x.(*Action)
	action.index = len(*q)
	*q = append(*q, action)
}

func (q actionQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

// expectation is checked once the queue has drained.
type expectation interface {
	verify() error
}
