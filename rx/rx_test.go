package rx_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"pgregory.net/rapid"

	"github.com/toejough/marbles/internal/core"
	"github.com/toejough/marbles/rx"
)

var errBoom = errors.New("boom")

// collect subscribes to src and returns a pointer to everything it delivers.
func collect[T any](src rx.Observable[T]) (*[]rx.Notification[T], *rx.Subscription) {
	got := &[]rx.Notification[T]{}
	sub := rx.Subscribe(src, func(n rx.Notification[T]) {
		*got = append(*got, n)
	})

	return got, sub
}

func TestSubscription_TeardownsRunOnceInOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var order []int

	sub := rx.NewSubscription()
	sub.Add(func() { order = append(order, 1) })
	sub.Add(func() { order = append(order, 2) })

	sub.Unsubscribe()
	sub.Unsubscribe()

	g.Expect(order).To(Equal([]int{1, 2}))
	g.Expect(sub.Closed()).To(BeTrue())
}

func TestSubscription_AddAfterCloseRunsImmediately(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sub := rx.NewSubscription()
	sub.Unsubscribe()

	ran := false
	sub.Add(func() { ran = true })
	sub.Add(nil)

	g.Expect(ran).To(BeTrue())
}

func TestSubscription_NilIsClosed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var sub *rx.Subscription

	g.Expect(sub.Closed()).To(BeTrue())
	g.Expect(sub.Unsubscribe).NotTo(Panic())
}

// TestSubscriber_NothingAfterTerminal verifies the stream contract: a terminal
// notification is the last thing delivered and closes the subscription.
func TestSubscriber_NothingAfterTerminal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	src := rx.Create(func(sub *rx.Subscriber[int]) {
		sub.Next(1)
		sub.Complete()
		sub.Next(2)
		sub.Error(errBoom)
	})

	got, sub := collect(src)

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Next(1), rx.Complete[int]()}))
	g.Expect(sub.Closed()).To(BeTrue())
}

func TestSubscriber_NothingAfterUnsubscribe(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var held *rx.Subscriber[string]

	got, sub := collect[string](rx.Create(func(s *rx.Subscriber[string]) { held = s }))

	held.Next("a")
	sub.Unsubscribe()
	held.Next("b")

	g.Expect(*got).To(Equal([]rx.Notification[string]{rx.Next("a")}))
	g.Expect(held.Stopped()).To(BeTrue())
}

func TestNotification_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(rx.Next(3).String()).To(Equal("next(3)"))
	g.Expect(rx.Error[int](errBoom).String()).To(Equal("error(boom)"))
	g.Expect(rx.Complete[int]().String()).To(Equal("complete"))
	g.Expect(rx.KindNext.String()).To(Equal("N"))
	g.Expect(rx.Kind(9).String()).To(Equal("Kind(9)"))
}

func TestOf_EmitsThenCompletes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.Of(1, 2, 3))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Next(1), rx.Next(2), rx.Next(3), rx.Complete[int]()}))
}

func TestEmptyNeverThrow(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	empty, _ := collect(rx.Empty[int]())
	never, neverSub := collect(rx.Never[int]())
	thrown, _ := collect(rx.Throw[int](errBoom))

	g.Expect(*empty).To(Equal([]rx.Notification[int]{rx.Complete[int]()}))
	g.Expect(*never).To(BeEmpty())
	g.Expect(neverSub.Closed()).To(BeFalse())
	g.Expect(*thrown).To(Equal([]rx.Notification[int]{rx.Error[int](errBoom)}))
}

func TestMap_TransformsValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.Map(rx.Of(1, 2), func(v int) string { return string(rune('a' + v)) }))

	g.Expect(*got).To(Equal([]rx.Notification[string]{rx.Next("b"), rx.Next("c"), rx.Complete[string]()}))
}

func TestMapErr_ErrorEndsStream(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.MapErr(rx.Of(1, 2, 3), func(v int) (int, error) {
		if v == 2 {
			return 0, errBoom
		}

		return v * 10, nil
	}))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Next(10), rx.Error[int](errBoom)}))
}

func TestMapErr_ForwardsSourceError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.Map(rx.Throw[int](errBoom), func(v int) int { return v }))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Error[int](errBoom)}))
}

func TestFilter_KeepsMatchingValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.Filter(rx.Of(1, 2, 3, 4), func(v int) bool { return v%2 == 0 }))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Next(2), rx.Next(4), rx.Complete[int]()}))
}

func TestConcat_SubscribesInTurn(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.Concat(rx.Of(1), rx.Empty[int](), rx.Of(2, 3)))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Next(1), rx.Next(2), rx.Next(3), rx.Complete[int]()}))
}

func TestConcat_ErrorStopsLaterSources(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	subscribed := false
	later := rx.Create(func(sub *rx.Subscriber[int]) { subscribed = true })

	got, _ := collect(rx.Concat(rx.Throw[int](errBoom), later))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Error[int](errBoom)}))
	g.Expect(subscribed).To(BeFalse())
}

func TestMerge_CompletesWhenAllComplete(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.Merge(rx.Of(1), rx.Of(2)))
	none, _ := collect(rx.Merge[int]())

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Next(1), rx.Next(2), rx.Complete[int]()}))
	g.Expect(*none).To(Equal([]rx.Notification[int]{rx.Complete[int]()}))
}

func TestMerge_ErrorSkipsRemainingSources(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	got, _ := collect(rx.Merge(rx.Throw[int](errBoom), rx.Of(1)))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Error[int](errBoom)}))
}

func TestRetry_ResubscribesUpToCount(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	attempts := 0
	src := rx.Create(func(sub *rx.Subscriber[int]) {
		attempts++
		sub.Next(attempts)
		sub.Error(errBoom)
	})

	got, _ := collect(rx.Retry(src, 2))

	g.Expect(*got).To(Equal([]rx.Notification[int]{
		rx.Next(1), rx.Next(2), rx.Next(3), rx.Error[int](errBoom),
	}))
}

func TestRetry_ForeverUntilSuccess(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	attempts := 0
	src := rx.Create(func(sub *rx.Subscriber[int]) {
		attempts++
		if attempts < 5 {
			sub.Error(errBoom)

			return
		}

		sub.Complete()
	})

	got, _ := collect(rx.Retry(src, -1))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Complete[int]()}))
	g.Expect(attempts).To(Equal(5))
}

func TestTake_StopsSynchronousSource(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	produced := 0
	src := rx.Create(func(sub *rx.Subscriber[int]) {
		for i := 0; !sub.Stopped(); i++ {
			produced++
			sub.Next(i)
		}
	})

	got, _ := collect(rx.Take(src, 3))
	zero, _ := collect(rx.Take(rx.Of(1), 0))

	g.Expect(*got).To(Equal([]rx.Notification[int]{rx.Next(0), rx.Next(1), rx.Next(2), rx.Complete[int]()}))
	g.Expect(produced).To(Equal(3))
	g.Expect(*zero).To(Equal([]rx.Notification[int]{rx.Complete[int]()}))
}

// TestTake_Property checks that Take(n) of a finite source emits
// min(n, len) values followed by a completion.
func TestTake_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOf(rapid.Int()).Draw(rt, "values")
		n := rapid.IntRange(-2, 20).Draw(rt, "n")

		got, _ := collect(rx.Take(rx.Of(values...), n))

		want := min(max(n, 0), len(values))
		if len(*got) != want+1 {
			rt.Fatalf("expected %d notifications, got %d", want+1, len(*got))
		}

		for i := range want {
			if (*got)[i] != rx.Next(values[i]) {
				rt.Fatalf("entry %d: expected next(%d), got %v", i, values[i], (*got)[i])
			}
		}

		if (*got)[want].Kind != rx.KindComplete {
			rt.Fatalf("expected completion last, got %v", (*got)[want])
		}
	})
}

func TestInterval_TicksOnScheduler(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sched := core.NewScheduler(t, core.WithMaxFrames(100))

	var frames []int64

	var values []int

	sub := rx.Subscribe(rx.Take(rx.Interval(20, sched), 3), func(n rx.Notification[int]) {
		frames = append(frames, sched.Now())
		if n.Kind == rx.KindNext {
			values = append(values, n.Value)
		}
	})

	sched.Flush()

	g.Expect(values).To(Equal([]int{0, 1, 2}))
	g.Expect(frames).To(Equal([]int64{20, 40, 60, 60}))
	g.Expect(sub.Closed()).To(BeTrue())
}

func TestInterval_UnsubscribeCancelsPendingTick(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sched := core.NewScheduler(t, core.WithMaxFrames(100))

	count := 0
	sub := rx.Subscribe(rx.Interval(20, sched), func(rx.Notification[int]) { count++ })

	_, err := sched.Schedule(50, sub.Unsubscribe)
	g.Expect(err).NotTo(HaveOccurred())

	sched.Flush()

	g.Expect(count).To(Equal(2))
}
