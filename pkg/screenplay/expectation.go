package screenplay

import (
	stdcmp "cmp"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Outcome is the result of evaluating an expectation.
type Outcome struct {
	Met      bool
	Expected any
	Actual   any
	// Diff is a go-cmp diff for equality expectations.
	Diff string
}

// Expectation decides whether an answer is acceptable.
type Expectation[T any] interface {
	Evaluate(actual T) Outcome
	// String describes the expectation, e.g. `equal "Serenity/JS TodoApp"`.
	String() string
}

type expectation[T any] struct {
	description string
	expected    any
	match       func(actual T) (bool, string)
}

func (e *expectation[T]) Evaluate(actual T) Outcome {
	met, diff := e.match(actual)
	return Outcome{Met: met, Expected: e.expected, Actual: actual, Diff: diff}
}

func (e *expectation[T]) String() string { return e.description }

// NewExpectation builds a custom expectation from a predicate.
func NewExpectation[T any](description string, expected any, predicate func(actual T) bool) Expectation[T] {
	return &expectation[T]{
		description: description,
		expected:    expected,
		match: func(actual T) (bool, string) {
			return predicate(actual), ""
		},
	}
}

// Equals expects the answer to be deeply equal to expected.
func Equals[T any](expected T) Expectation[T] {
	return &expectation[T]{
		description: Describe("equal %s", expected),
		expected:    expected,
		match: func(actual T) (bool, string) {
			if cmp.Equal(expected, actual) {
				return true, ""
			}
			return false, cmp.Diff(expected, actual)
		},
	}
}

// Contains expects a list answer to contain an item equal to expected.
func Contains[T any](expected T) Expectation[[]T] {
	return NewExpectation(Describe("contain %s", expected), expected, func(actual []T) bool {
		for _, item := range actual {
			if cmp.Equal(expected, item) {
				return true
			}
		}
		return false
	})
}

// Includes expects a text answer to include the substring.
func Includes(substring string) Expectation[string] {
	return NewExpectation(Describe("include %s", substring), substring, func(actual string) bool {
		return strings.Contains(actual, substring)
	})
}

// IsGreaterThan expects an ordered answer to be strictly greater than n.
func IsGreaterThan[T stdcmp.Ordered](n T) Expectation[T] {
	return NewExpectation(Describe("have value greater than %s", n), n, func(actual T) bool {
		return actual > n
	})
}

// IsLessThan expects an ordered answer to be strictly less than n.
func IsLessThan[T stdcmp.Ordered](n T) Expectation[T] {
	return NewExpectation(Describe("have value less than %s", n), n, func(actual T) bool {
		return actual < n
	})
}

// IsTrue expects a boolean answer to be true.
func IsTrue() Expectation[bool] {
	return NewExpectation("be true", true, func(actual bool) bool { return actual })
}

// Not negates an expectation.
func Not[T any](e Expectation[T]) Expectation[T] {
	return &expectation[T]{
		description: "not " + e.String(),
		expected:    e,
		match: func(actual T) (bool, string) {
			return !e.Evaluate(actual).Met, ""
		},
	}
}
