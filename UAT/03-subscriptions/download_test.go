package subscriptions_test

import (
	"errors"
	"testing"

	"github.com/toejough/marbles"
	subscriptions "github.com/toejough/marbles/UAT/03-subscriptions"
)

var errReset = errors.New("connection reset")

func TestDownload_ChunksInOrder(t *testing.T) {
	t.Parallel()

	marbles.Run(t, func(s *marbles.Scheduler) {
		first := marbles.Cold[string](s, "--a|", nil, nil)
		second := marbles.Cold[string](s, "-b|", nil, nil)

		marbles.ExpectObservable(s, subscriptions.Download(0, first, second)).ToBe("--a-b|", nil, nil)
		marbles.ExpectSubscriptions(s, first).ToBe("^--!")
		marbles.ExpectSubscriptions(s, second).ToBe("---^-!")
	})
}

// TestDownload_RetryStartsOver shows each retry resubscribing to the first
// chunk, which the subscription log of that chunk records.
func TestDownload_RetryStartsOver(t *testing.T) {
	t.Parallel()

	marbles.Run(t, func(s *marbles.Scheduler) {
		first := marbles.Cold[string](s, "-a|", nil, nil)
		flaky := marbles.Cold[string](s, "-#", nil, errReset)

		marbles.ExpectObservable(s, subscriptions.Download(1, first, flaky)).ToBe("-a--a-#", nil, errReset)
		marbles.ExpectSubscriptions(s, first).ToBe("^-!", "---^-!")
		marbles.ExpectSubscriptions(s, flaky).ToBe("--^!", "-----^!")
	})
}

func TestDownload_UnsubscribeMidway(t *testing.T) {
	t.Parallel()

	marbles.Run(t, func(s *marbles.Scheduler) {
		first := marbles.Cold[string](s, "-a|", nil, nil)
		second := marbles.Cold[string](s, "---b|", nil, nil)

		marbles.ExpectObservable(s, subscriptions.Download(3, first, second), "^---!").ToBe("-a", nil, nil)
		marbles.ExpectSubscriptions(s, first).ToBe("^-!")
		marbles.ExpectSubscriptions(s, second).ToBe("--^-!")
	})
}
