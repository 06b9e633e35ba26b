package rx

// Create returns an Observable that runs producer for each subscription.
func Create[T any](producer func(sub *Subscriber[T])) Observable[T] {
	return ObservableFunc[T](producer)
}

// Empty completes immediately.
func Empty[T any]() Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		sub.Complete()
	})
}

// Interval emits 0, 1, 2, ... every period frames on s, starting one period
// after subscription. It never completes.
func Interval(period int64, s Scheduler) Observable[int] {
	return ObservableFunc[int](func(sub *Subscriber[int]) {
		count := 0

		var (
			pending *Subscription
			tick    func()
		)

		tick = func() {
			value := count
			count++

			sub.Next(value)

			if !sub.Stopped() {
				pending = s.After(period, tick)
			}
		}

		pending = s.After(period, tick)

		sub.Add(func() {
			pending.Unsubscribe()
		})
	})
}

// Never emits nothing and never terminates.
func Never[T any]() Observable[T] {
	return ObservableFunc[T](func(*Subscriber[T]) {})
}

// Of emits values synchronously, then completes.
func Of[T any](values ...T) Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		for _, value := range values {
			if sub.Stopped() {
				return
			}

			sub.Next(value)
		}

		sub.Complete()
	})
}

// Throw errors immediately with err.
func Throw[T any](err error) Observable[T] {
	return ObservableFunc[T](func(sub *Subscriber[T]) {
		sub.Error(err)
	})
}
