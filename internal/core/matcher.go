package core

import (
	"errors"
	"fmt"
	"reflect"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchError checks an actual stream error against an expected one.
// The expected error matches when it is a Matcher that accepts actual, when
// errors.Is(actual, expected), or when the two are deeply equal.
func MatchError(actual, expected error) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		return MatchValue(actual, matcher)
	}

	if errors.Is(actual, expected) || reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected error %v, got %v", expected, actual)
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

// errorMatcher lets a Matcher stand where an expected error is required.
type errorMatcher struct {
	Matcher
}

func (m errorMatcher) Error() string {
	return fmt.Sprintf("error satisfying %T", m.Matcher)
}

// errorText matches any error whose message equals its text.
type errorText string

func (e errorText) Error() string {
	return string(e)
}

func (e errorText) FailureMessage(actual any) string {
	return fmt.Sprintf("expected error with message %q, got %v", string(e), actual)
}

func (e errorText) Match(actual any) (bool, error) {
	err, ok := actual.(error)
	if !ok {
		return false, nil
	}

	return err.Error() == string(e), nil
}

// expectedError converts the loose error argument of ToMatch into an error.
func expectedError(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case Matcher:
		return errorMatcher{v}
	case error:
		return v
	default:
		return errorText(fmt.Sprint(v))
	}
}
