package core

import (
	"errors"
	"fmt"
	"strings"
)

// Exported variables.
var (
	// ErrMismatch is the sentinel every MismatchError unwraps to.
	ErrMismatch = errors.New("marble expectation mismatch")
	// ErrScheduleConflict is the sentinel every ScheduleConflictError unwraps to.
	ErrScheduleConflict = errors.New("schedule conflict")
)

// MismatchError describes the first point where actual output diverged from
// an expectation.
type MismatchError struct {
	// What names the expectation, e.g. "observable" or "subscriptions".
	What string
	// Index is the position of the first divergent entry.
	Index int
	// Expected and Actual render the entries at Index; "nothing" when one
	// side ran out.
	Expected string
	Actual   string
	// Detail is the matcher's explanation, when it gave one.
	Detail string
	// ExpectedDiagram is the diagram the expectation was written as.
	ExpectedDiagram string
	// ActualDiagram is the actual output drawn as a diagram, when drawable.
	ActualDiagram string
	// Diff is a line diff of the full expected and actual listings.
	Diff string
}

// Error implements error.
func (e *MismatchError) Error() string {
	var msg strings.Builder

	fmt.Fprintf(&msg, "%s mismatch at entry %d:\n", e.What, e.Index)
	fmt.Fprintf(&msg, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&msg, "  actual:   %s\n", e.Actual)

	if e.Detail != "" {
		fmt.Fprintf(&msg, "  detail:   %s\n", e.Detail)
	}

	if e.ExpectedDiagram != "" || e.ActualDiagram != "" {
		fmt.Fprintf(&msg, "expected diagram: %s\n", e.ExpectedDiagram)
		fmt.Fprintf(&msg, "actual diagram:   %s\n", e.ActualDiagram)
	}

	msg.WriteString(e.Diff)

	return msg.String()
}

// Unwrap returns ErrMismatch.
func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// ScheduleConflictError reports work that cannot be placed on the timeline.
type ScheduleConflictError struct {
	Frame  Frame
	Now    Frame
	Reason string
}

// Error implements error.
func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("schedule conflict: %s (frame %d, now %d)", e.Reason, e.Frame, e.Now)
}

// Unwrap returns ErrScheduleConflict.
func (e *ScheduleConflictError) Unwrap() error {
	return ErrScheduleConflict
}
