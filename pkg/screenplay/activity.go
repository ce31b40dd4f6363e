package screenplay

import (
	"context"
	"fmt"
	"time"
)

// Activity is something an actor can perform.
type Activity interface {
	PerformAs(ctx context.Context, actor *Actor) error
	// String returns the description, which may contain "#actor".
	String() string
}

type interaction struct {
	description string
	perform     func(ctx context.Context, actor *Actor) error
}

// Interaction creates a leaf activity from a function.
func Interaction(description string, perform func(ctx context.Context, actor *Actor) error) Activity {
	return &interaction{description: description, perform: perform}
}

func (i *interaction) PerformAs(ctx context.Context, actor *Actor) error {
	return i.perform(ctx, actor)
}

func (i *interaction) String() string { return i.description }

type task struct {
	description string
	activities  []Activity
}

// Task groups activities under a business-level description.
// The activities run in order and the first failure stops the task.
func Task(description string, activities ...Activity) Activity {
	return &task{description: description, activities: activities}
}

func (t *task) PerformAs(ctx context.Context, actor *Actor) error {
	if err := actor.AttemptsTo(ctx, t.activities...); err != nil {
		return fmt.Errorf("%s: %w", renderFor(t.description, actor), err)
	}
	return nil
}

func (t *task) String() string { return t.description }

// WaitFor pauses the actor for a fixed duration.
func WaitFor(d time.Duration) Activity {
	return Interaction(fmt.Sprintf("#actor waits for %s", d), func(ctx context.Context, _ *Actor) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
