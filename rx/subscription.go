package rx

// Subscription is a cancellation token. Teardowns run once, in the order
// they were added, on the first Unsubscribe.
type Subscription struct {
	closed    bool
	teardowns []func()
}

// NewSubscription returns an open subscription.
func NewSubscription() *Subscription {
	return &Subscription{}
}

// Add registers teardown. If the subscription is already closed, teardown
// runs immediately.
func (s *Subscription) Add(teardown func()) {
	if teardown == nil {
		return
	}

	if s.closed {
		teardown()

		return
	}

	s.teardowns = append(s.teardowns, teardown)
}

// Closed reports whether Unsubscribe has been called.
func (s *Subscription) Closed() bool {
	return s == nil || s.closed
}

// Unsubscribe closes the subscription. Safe to call more than once, and on nil.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.closed {
		return
	}

	s.closed = true
	teardowns := s.teardowns
	s.teardowns = nil

	for _, teardown := range teardowns {
		teardown()
	}
}
