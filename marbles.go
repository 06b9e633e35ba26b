// Package marbles provides marble-diagram testing for rx streams on a
// deterministic virtual clock.
//
// This is the public API entry point. Implementation lives in internal/core
// and internal/parse.
package marbles

import (
	"github.com/rs/zerolog"

	"github.com/toejough/marbles/internal/core"
	"github.com/toejough/marbles/internal/parse"
	"github.com/toejough/marbles/rx"
)

// Action is one piece of scheduled work.
type Action = core.Action

// ColdSource replays its diagram from the start for every subscriber.
type ColdSource[T any] = core.ColdSource[T]

// Descriptor is the parsed form of one diagram.
type Descriptor[T any] = parse.Descriptor[T]

// Differ renders the difference between an expected and an actual listing.
type Differ = core.Differ

// Frame is a point on the virtual timeline.
type Frame = core.Frame

// HotSource plays its diagram once; subscribers see only what happens after they join.
type HotSource[T any] = core.HotSource[T]

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// MismatchError describes where actual output diverged from an expectation.
type MismatchError = core.MismatchError

// ObservableExpectation collects what a stream emits during a flush.
type ObservableExpectation[T any] = core.ObservableExpectation[T]

// Option configures a Scheduler.
type Option = core.Option

// ParseError reports a malformed diagram.
type ParseError = parse.ParseError

// ScheduleConflictError reports work that cannot be placed on the timeline.
type ScheduleConflictError = core.ScheduleConflictError

// Scheduler is the deterministic virtual clock.
type Scheduler = core.Scheduler

// SubscriptionExpectation checks the subscription log of a source.
type SubscriptionExpectation = core.SubscriptionExpectation

// SubscriptionLog is the interval during which one subscription was open.
type SubscriptionLog = parse.SubscriptionLog

// SubscriptionRecorder is anything that logs its subscriptions.
type SubscriptionRecorder = core.SubscriptionRecorder

// TestReporter is the minimal interface marbles needs from test frameworks.
type TestReporter = core.TestReporter

// TimedNotification is a notification positioned on the virtual timeline.
type TimedNotification[T any] = parse.TimedNotification[T]

// Constants re-exported from internal packages.
const (
	DefaultFrameUnit = core.DefaultFrameUnit
	DefaultMaxFrames = core.DefaultMaxFrames
	Never            = parse.Never
)

// Errors re-exported from internal packages.
var (
	ErrMarble           = parse.ErrMarble
	ErrMismatch         = core.ErrMismatch
	ErrParse            = parse.ErrParse
	ErrScheduleConflict = core.ErrScheduleConflict
	ErrUnrenderable     = parse.ErrUnrenderable
)

// Cold builds a cold source from diagram on s.
func Cold[T any](s *Scheduler, diagram string, values map[rune]T, errValue error) *ColdSource[T] {
	return core.Cold(s, diagram, values, errValue)
}

// ExpectObservable subscribes to src during the next flush and checks what it emits.
// The optional subscription diagram sets when to subscribe ('^') and unsubscribe ('!').
func ExpectObservable[T any](s *Scheduler, src rx.Observable[T], subscription ...string) *ObservableExpectation[T] {
	return core.ExpectObservable(s, src, subscription...)
}

// ExpectSubscriptions checks recorder's subscription log after the next flush.
func ExpectSubscriptions(s *Scheduler, recorder SubscriptionRecorder) *SubscriptionExpectation {
	return core.ExpectSubscriptions(s, recorder)
}

// Flush flushes the scheduler SchedulerFor(t) returned, if any.
func Flush(t TestReporter) {
	t.Helper()
	core.Flush(t)
}

// Hot builds a hot source from diagram on s.
func Hot[T any](s *Scheduler, diagram string, values map[rune]T, errValue error) *HotSource[T] {
	return core.Hot(s, diagram, values, errValue)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// NewScheduler creates a scheduler reporting failures to t.
func NewScheduler(t TestReporter, opts ...Option) *Scheduler {
	return core.NewScheduler(t, opts...)
}

// Parse converts a diagram into a Descriptor without a scheduler.
func Parse[T any](diagram string, values map[rune]T, errValue error) (Descriptor[T], error) {
	return parse.Parse(diagram, DefaultFrameUnit, values, errValue)
}

// ParseSubscription converts a '^'/'!' diagram into a SubscriptionLog.
func ParseSubscription(diagram string) (SubscriptionLog, error) {
	return parse.ParseSubscription(diagram, DefaultFrameUnit)
}

// Run creates a scheduler, passes it to body, and flushes it.
func Run(t TestReporter, body func(s *Scheduler), opts ...Option) {
	t.Helper()
	core.Run(t, body, opts...)
}

// SchedulerFor returns the scheduler for t, creating one if needed.
func SchedulerFor(t TestReporter, opts ...Option) *Scheduler {
	return core.SchedulerFor(t, opts...)
}

// Serialize draws events as a diagram using the default frame unit. Values
// are drawn by reverse lookup in values, or as themselves when they are
// single-character strings or runes.
func Serialize[T any](events []TimedNotification[T], values map[rune]T) (string, error) {
	return parse.Serialize(events, DefaultFrameUnit, parse.GlyphFor(values))
}

// WithDiffer replaces the unified diff used in mismatch reports.
func WithDiffer(differ Differ) Option {
	return core.WithDiffer(differ)
}

// WithFrameUnit sets how many frames each diagram character spans.
func WithFrameUnit(unit Frame) Option {
	return core.WithFrameUnit(unit)
}

// WithLogger traces scheduler activity to logger.
func WithLogger(logger zerolog.Logger) Option {
	return core.WithLogger(logger)
}

// WithMaxFrames sets the minimum flush horizon.
func WithMaxFrames(frames Frame) Option {
	return core.WithMaxFrames(frames)
}
