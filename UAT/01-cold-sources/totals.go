// Package coldsources is a small pipeline tested against cold marble sources.
package coldsources

import "github.com/toejough/marbles/rx"

// RunningTotal emits the sum of every positive price seen so far.
// Each subscription keeps its own total.
func RunningTotal(prices rx.Observable[int]) rx.Observable[int] {
	return rx.Create(func(sub *rx.Subscriber[int]) {
		total := 0

		positive := rx.Filter(prices, func(price int) bool { return price > 0 })
		sums := rx.Map(positive, func(price int) int {
			total += price

			return total
		})

		inner := rx.Subscribe(sums, sub.Notify)
		sub.Add(inner.Unsubscribe)
	})
}
