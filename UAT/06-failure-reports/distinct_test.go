package failurereports_test

import (
	"bytes"
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/toejough/marbles"
	failurereports "github.com/toejough/marbles/UAT/06-failure-reports"
)

// recorder captures failures so the report itself can be checked.
type recorder struct {
	failures []string
}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recorder) Helper() {}

func TestDistinctUntilChanged(t *testing.T) {
	t.Parallel()

	marbles.Run(t, func(s *marbles.Scheduler) {
		src := marbles.Cold[string](s, "-a-a-b-b-a-|", nil, nil)

		marbles.ExpectObservable(s, failurereports.DistinctUntilChanged[string](src)).ToBe("-a---b---a-|", nil, nil)
	})
}

// TestReport_ShowsDiagramsAndDiff writes a wrong expectation on purpose and
// checks what the failure says.
func TestReport_ShowsDiagramsAndDiff(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	rec := &recorder{}

	marbles.Run(rec, func(s *marbles.Scheduler) {
		src := marbles.Cold[string](s, "-a-a-b-|", nil, nil)

		marbles.ExpectObservable(s, failurereports.DistinctUntilChanged[string](src)).ToBe("-a-a-b-|", nil, nil)
	})

	g.Expect(rec.failures).To(HaveLen(1))

	report := rec.failures[0]

	g.Expect(report).To(ContainSubstring("observable mismatch at entry 1"))
	g.Expect(report).To(ContainSubstring("expected: frame 30: next(a)"))
	g.Expect(report).To(ContainSubstring("actual:   frame 50: next(b)"))
	g.Expect(report).To(ContainSubstring("expected diagram: -a-a-b-|"))
	g.Expect(report).To(ContainSubstring("actual diagram:   -a---b-|"))
	g.Expect(report).To(ContainSubstring("-frame 30: next(a)"))
}

func TestReport_CustomDiffer(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	rec := &recorder{}
	differ := func(expected, actual string) string {
		return fmt.Sprintf("want:\n%sgot:\n%s", expected, actual)
	}

	marbles.Run(rec, func(s *marbles.Scheduler) {
		src := marbles.Cold[int](s, "-a|", map[rune]int{'a': 1}, nil)

		marbles.ExpectObservable(s, failurereports.DistinctUntilChanged[int](src)).ToBe("-a|", map[rune]int{'a': 2}, nil)
	}, marbles.WithDiffer(differ))

	g.Expect(rec.failures).To(ConsistOf(And(
		ContainSubstring("expected 2, got 1"),
		ContainSubstring("want:\nframe 10: next(2)"),
		ContainSubstring("got:\nframe 10: next(1)"),
	)))
}

// TestReport_TraceLog routes the scheduler's trace to a buffer, which helps
// when an expectation fails for timing reasons.
func TestReport_TraceLog(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var trace bytes.Buffer

	logger := zerolog.New(zerolog.ConsoleWriter{Out: &trace, NoColor: true}).Level(zerolog.TraceLevel)

	marbles.Run(t, func(s *marbles.Scheduler) {
		src := marbles.Cold[string](s, "-a|", nil, nil)

		marbles.ExpectObservable[string](s, src).ToBe("-a|", nil, nil)
	}, marbles.WithLogger(logger))

	g.Expect(trace.String()).To(ContainSubstring("action scheduled"))
	g.Expect(trace.String()).To(ContainSubstring("action fired"))
	g.Expect(trace.String()).To(ContainSubstring("flush finished"))
}
