package screenplay

import (
	"fmt"
	"strings"
	"time"
)

// AssertionError is returned when an Ensure activity finds an answer that
// does not meet its expectation.
type AssertionError struct {
	Subject     string
	Expectation string
	Expected    any
	Actual      any
	Diff        string
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "expected %s to %s", e.Subject, e.Expectation)
	fmt.Fprintf(&b, "\n\nExpected: %s\nActual:   %s", Describe("%s", e.Expected), Describe("%s", e.Actual))
	if e.Diff != "" {
		fmt.Fprintf(&b, "\n\nDiff (-expected +actual):\n%s", e.Diff)
	}
	return b.String()
}

// TimeoutExpiredError is returned by WaitUntil when the expectation is not
// met before the timeout.
type TimeoutExpiredError struct {
	Subject     string
	Expectation string
	Timeout     time.Duration
	Actual      any
	// Cause is the last error returned by the question, if any.
	Cause error
}

func (e *TimeoutExpiredError) Error() string {
	msg := fmt.Sprintf("timeout of %s expired while waiting for %s to %s", e.Timeout, e.Subject, e.Expectation)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg + fmt.Sprintf("; last answer was %s", Describe("%s", e.Actual))
}

func (e *TimeoutExpiredError) Unwrap() error { return e.Cause }

// ConfigurationError means an actor was asked to do something it has no ability for.
type ConfigurationError struct {
	Actor   string
	Ability string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s can't %s yet. Did you give them the ability to do so?", e.Actor, e.Ability)
}
