package coldsources_test

import (
	"testing"

	"github.com/toejough/marbles"
	coldsources "github.com/toejough/marbles/UAT/01-cold-sources"
)

func TestRunningTotal(t *testing.T) {
	t.Parallel()

	marbles.Run(t, func(s *marbles.Scheduler) {
		// Negative prices are dropped; the rest accumulate.
		prices := marbles.Cold(s, "-a-b-c-|", map[rune]int{'a': 5, 'b': -2, 'c': 10}, nil)

		marbles.ExpectObservable(s, coldsources.RunningTotal(prices)).
			ToBe("-x---y-|", map[rune]int{'x': 5, 'y': 15}, nil)
		marbles.ExpectSubscriptions(s, prices).ToBe("^------!")
	})
}

// TestRunningTotal_EachSubscriberStartsOver shows that a cold source replays
// from the start, so a late subscriber gets its own totals.
func TestRunningTotal_EachSubscriberStartsOver(t *testing.T) {
	t.Parallel()

	marbles.Run(t, func(s *marbles.Scheduler) {
		prices := marbles.Cold(s, "-a-a|", map[rune]int{'a': 1}, nil)
		totals := coldsources.RunningTotal(prices)

		marbles.ExpectObservable(s, totals).ToBe("-x-y|", map[rune]int{'x': 1, 'y': 2}, nil)
		marbles.ExpectObservable(s, totals, "--^").ToBe("---x-y|", map[rune]int{'x': 1, 'y': 2}, nil)
		marbles.ExpectSubscriptions(s, prices).ToBe("^---!", "--^---!")
	})
}

func TestRunningTotal_ErrorPassesThrough(t *testing.T) {
	t.Parallel()

	marbles.Run(t, func(s *marbles.Scheduler) {
		prices := marbles.Cold(s, "-a-#", map[rune]int{'a': 3}, nil)

		marbles.ExpectObservable(s, coldsources.RunningTotal(prices)).ToBe("-a-#", map[rune]int{'a': 3}, marbles.ErrMarble)
	})
}
