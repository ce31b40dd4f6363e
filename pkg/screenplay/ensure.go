package screenplay

import (
	"context"
	"fmt"
)

// Ensure verifies that the answer to a question meets an expectation.
// A mismatch fails the activity with an *AssertionError.
func Ensure[T any](q Question[T], e Expectation[T]) Activity {
	description := fmt.Sprintf("#actor ensures that %s does %s", q, e)
	return Interaction(description, func(ctx context.Context, actor *Actor) error {
		actual, err := q.AnsweredBy(ctx, actor)
		if err != nil {
			return fmt.Errorf("could not answer %s: %w", q, err)
		}
		outcome := e.Evaluate(actual)
		if outcome.Met {
			return nil
		}
		return &AssertionError{
			Subject:     q.String(),
			Expectation: e.String(),
			Expected:    outcome.Expected,
			Actual:      outcome.Actual,
			Diff:        outcome.Diff,
		}
	})
}
