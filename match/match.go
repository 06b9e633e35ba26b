// Package match provides matchers for use as expected values and errors in
// marbles' ToMatch. They mix freely with gomega matchers:
//
//	marbles.ExpectObservable(s, src).ToMatch("-a-b|", map[rune]any{
//	    'a': match.BeAny,
//	    'b': gomega.BeNumerically(">", 1),
//	}, match.HaveMessage("timeout"))
package match

import (
	"errors"
	"fmt"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when only the timing of an emission matters.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// HaveMessage returns a matcher for errors whose Error() equals text.
// Useful for '#' expectations when the error's identity doesn't matter.
func HaveMessage(text string) Matcher {
	return messageMatcher(text)
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	'a': Satisfy(func(x int) error {
//	    if x%2 != 0 { return fmt.Errorf("expected even, got %d", x) }
//	    return nil
//	})
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type messageMatcher string

func (m messageMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected an error with message %q, got %v", string(m), actual)
}

func (m messageMatcher) Match(actual any) (bool, error) {
	err, ok := actual.(error)
	if !ok {
		return false, fmt.Errorf("%w: expected error, got %T", errTypeMismatch, actual)
	}

	return err.Error() == string(m), nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}
