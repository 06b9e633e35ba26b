package core

import (
	"github.com/akedrou/textdiff"
	"github.com/rs/zerolog"
)

// Defaults for a new Scheduler.
const (
	// DefaultFrameUnit is the number of frames one diagram character spans.
	DefaultFrameUnit Frame = 10
	// DefaultMaxFrames bounds a flush when no longer diagram was registered.
	DefaultMaxFrames Frame = 750
)

// Differ renders the difference between an expected and an actual listing.
type Differ func(expected, actual string) string

// Option configures a Scheduler.
type Option func(*config)

// WithDiffer replaces the unified diff used in mismatch reports.
func WithDiffer(differ Differ) Option {
	return func(c *config) {
		if differ != nil {
			c.differ = differ
		}
	}
}

// WithFrameUnit sets how many frames each diagram character spans.
// Non-positive units are ignored.
func WithFrameUnit(unit Frame) Option {
	return func(c *config) {
		if unit > 0 {
			c.frameUnit = unit
		}
	}
}

// WithLogger sets the logger the scheduler traces actions to.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxFrames sets the minimum flush horizon.
func WithMaxFrames(frames Frame) Option {
	return func(c *config) {
		c.maxFrames = frames
	}
}

type config struct {
	frameUnit Frame
	maxFrames Frame
	logger    zerolog.Logger
	differ    Differ
}

func defaultConfig() config {
	return config{
		frameUnit: DefaultFrameUnit,
		maxFrames: DefaultMaxFrames,
		logger:    zerolog.Nop(),
		differ:    unifiedDiff,
	}
}

func unifiedDiff(expected, actual string) string {
	return textdiff.Unified("expected", "actual", expected, actual)
}
