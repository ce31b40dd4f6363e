package screenplay

import (
	"context"
	"fmt"
)

// Check performs one of two activity lists depending on whether an answer
// meets an expectation.
type Check[T any] struct {
	question    Question[T]
	expectation Expectation[T]
	ifSo        []Activity
	otherwise   []Activity
}

// CheckWhether starts a conditional activity.
func CheckWhether[T any](q Question[T], e Expectation[T]) *Check[T] {
	return &Check[T]{question: q, expectation: e}
}

// AndIfSo sets the activities performed when the expectation is met.
func (c *Check[T]) AndIfSo(activities ...Activity) *Check[T] {
	c.ifSo = activities
	return c
}

// Otherwise sets the activities performed when the expectation is not met.
func (c *Check[T]) Otherwise(activities ...Activity) *Check[T] {
	c.otherwise = activities
	return c
}

func (c *Check[T]) PerformAs(ctx context.Context, actor *Actor) error {
	actual, err := c.question.AnsweredBy(ctx, actor)
	if err != nil {
		return fmt.Errorf("could not answer %s: %w", c.question, err)
	}
	if c.expectation.Evaluate(actual).Met {
		return actor.AttemptsTo(ctx, c.ifSo...)
	}
	return actor.AttemptsTo(ctx, c.otherwise...)
}

func (c *Check[T]) String() string {
	return fmt.Sprintf("#actor checks whether %s does %s", c.question, c.expectation)
}
