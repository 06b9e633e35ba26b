package rx

// Concat subscribes to each source in turn, moving on when the current one
// completes. An error from any source ends the stream.
func Concat[T any](sources ...Observable[T]) Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		index := 0

		var subscribeNext func()

		subscribeNext = func() {
			if sub.Stopped() {
				return
			}

			if index >= len(sources) {
				sub.Complete()

				return
			}

			src := sources[index]
			index++

			subscribeInner(sub.Subscription, src, func(n Notification[T]) {
				if n.Kind == KindComplete {
					subscribeNext()

					return
				}

				sub.Notify(n)
			})
		}

		subscribeNext()
	})
}

// Filter forwards only the values for which keep returns true.
func Filter[T any](src Observable[T], keep func(T) bool) Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		subscribeInner(sub.Subscription, src, func(n Notification[T]) {
			if n.Kind == KindNext && !keep(n.Value) {
				return
			}

			sub.Notify(n)
		})
	})
}

// Map transforms each value with project.
func Map[T, U any](src Observable[T], project func(T) U) Observable[U] {
	return MapErr(src, func(value T) (U, error) {
		return project(value), nil
	})
}

// MapErr transforms each value with project. A non-nil error from project
// ends the stream with that error.
func MapErr[T, U any](src Observable[T], project func(T) (U, error)) Observable[U] {
	return ObservableFunc[U](func(sub *Subscriber[U]) {
		subscribeInner(sub.Subscription, src, func(n Notification[T]) {
			switch n.Kind {
			case KindNext:
				out, err := project(n.Value)
				if err != nil {
					sub.Error(err)

					return
				}

				sub.Next(out)
			case KindError:
				sub.Error(n.Err)
			case KindComplete:
				sub.Complete()
			}
		})
	})
}

// Merge subscribes to all sources at once and interleaves their values.
// It completes when every source has completed.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		active := len(sources)
		if active == 0 {
			sub.Complete()

			return
		}

		for _, src := range sources {
			if sub.Stopped() {
				return
			}

			subscribeInner(sub.Subscription, src, func(n Notification[T]) {
				if n.Kind != KindComplete {
					sub.Notify(n)

					return
				}

				active--
				if active == 0 {
					sub.Complete()
				}
			})
		}
	})
}

// Retry resubscribes to src when it errors, up to count times. A negative
// count retries forever.
func Retry[T any](src Observable[T], count int) Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		attempts := 0

		var try func()

		try = func() {
			subscribeInner(sub.Subscription, src, func(n Notification[T]) {
				if n.Kind == KindError && (count < 0 || attempts < count) {
					attempts++
					try()

					return
				}

				sub.Notify(n)
			})
		}

		try()
	})
}

// Take forwards the first n values and then completes, unsubscribing from src.
func Take[T any](src Observable[T], n int) Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		if n <= 0 {
			sub.Complete()

			return
		}

		seen := 0

		subscribeInner(sub.Subscription, src, func(note Notification[T]) {
			sub.Notify(note)

			if note.Kind != KindNext {
				return
			}

			seen++
			if seen >= n {
				sub.Complete()
			}
		})
	})
}

// subscribeInner subscribes observer to src under parent: closing parent
// closes the inner subscriber, even while src is still producing synchronously.
func subscribeInner[T any](parent *Subscription, src Observable[T], observer Observer[T]) *Subscriber[T] {
	inner := NewSubscriber(observer)
	parent.Add(inner.Unsubscribe)
	src.Subscribe(inner)

	return inner
}
