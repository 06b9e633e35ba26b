package rx

// Observable is a source of notifications.
// Subscribe starts delivery to sub; the producer must stop once sub is closed.
type Observable[T any] interface {
	Subscribe(sub *Subscriber[T])
}

// ObservableFunc adapts a producer function to the Observable interface.
type ObservableFunc[T any] func(sub *Subscriber[T])

// Subscribe calls f(sub).
func (f ObservableFunc[T]) Subscribe(sub *Subscriber[T]) {
	f(sub)
}

// Observer receives notifications.
type Observer[T any] func(n Notification[T])

// Scheduler is the clock time-based operators run on.
// After schedules work delay frames from now; unsubscribing the returned
// subscription cancels it if it has not fired yet.
type Scheduler interface {
	Now() int64
	After(delay int64, work func()) *Subscription
}

// Subscribe subscribes observer to src and returns the cancellation token.
func Subscribe[T any](src Observable[T], observer Observer[T]) *Subscription {
	sub := NewSubscriber(observer)
	src.Subscribe(sub)

	return sub.Subscription
}

// Subscriber wraps an Observer with the stream contract: nothing is delivered
// after a terminal notification, and a terminal notification tears the
// subscription down.
type Subscriber[T any] struct {
	*Subscription

	observer Observer[T]
	stopped  bool
}

// NewSubscriber returns an open subscriber delivering to observer.
func NewSubscriber[T any](observer Observer[T]) *Subscriber[T] {
	return &Subscriber[T]{
		Subscription: NewSubscription(),
		observer:     observer,
	}
}

// Complete delivers a completion and unsubscribes.
func (s *Subscriber[T]) Complete() {
	s.Notify(Complete[T]())
}

// Error delivers err and unsubscribes.
func (s *Subscriber[T]) Error(err error) {
	s.Notify(Error[T](err))
}

// Next delivers value.
func (s *Subscriber[T]) Next(value T) {
	s.Notify(Next(value))
}

// Notify delivers n unless the subscriber is stopped or closed.
func (s *Subscriber[T]) Notify(n Notification[T]) {
	if s.stopped || s.Closed() {
		return
	}

	if !n.IsTerminal() {
		s.observer(n)

		return
	}

	s.stopped = true
	s.observer(n)
	s.Unsubscribe()
}

// Stopped reports whether the subscriber will deliver anything else.
func (s *Subscriber[T]) Stopped() bool {
	return s.stopped || s.Closed()
}
