// Package rx provides the minimal push-based stream model that marbles drives:
// notifications, subscriptions, observables and a handful of operators.
//
// Everything in this package is single-threaded. Time-based operators take a
// Scheduler so that tests can run them on virtual time.
package rx

import "fmt"

// Kind identifies which variant a Notification holds.
type Kind int

// Notification kinds.
const (
	KindNext Kind = iota
	KindError
	KindComplete
)

// String returns the one-letter code used in diagrams and failure output.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "N"
	case KindError:
		return "E"
	case KindComplete:
		return "C"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Notification is one signal delivered to an Observer.
// Value is only meaningful for KindNext, Err only for KindError.
type Notification[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// Complete returns a completion notification.
func Complete[T any]() Notification[T] {
	return Notification[T]{Kind: KindComplete}
}

// Error returns an error notification carrying err.
func Error[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

// Next returns a value notification.
func Next[T any](value T) Notification[T] {
	return Notification[T]{Kind: KindNext, Value: value}
}

// IsTerminal reports whether the notification ends the stream.
func (n Notification[T]) IsTerminal() bool {
	return n.Kind == KindError || n.Kind == KindComplete
}

// String renders the notification for failure messages.
func (n Notification[T]) String() string {
	switch n.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", n.Value)
	case KindError:
		return fmt.Sprintf("error(%v)", n.Err)
	case KindComplete:
		return "complete"
	default:
		return n.Kind.String()
	}
}
