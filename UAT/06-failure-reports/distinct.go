// Package failurereports shows what a failing marble expectation reports.
package failurereports

import "github.com/toejough/marbles/rx"

// DistinctUntilChanged drops values equal to the one before them.
func DistinctUntilChanged[T comparable](src rx.Observable[T]) rx.Observable[T] {
	return rx.Create(func(sub *rx.Subscriber[T]) {
		var (
			last T
			seen bool
		)

		changed := rx.Filter(src, func(value T) bool {
			if seen && value == last {
				return false
			}

			last, seen = value, true

			return true
		})

		inner := rx.Subscribe(changed, sub.Notify)
		sub.Add(inner.Unsubscribe)
	})
}
