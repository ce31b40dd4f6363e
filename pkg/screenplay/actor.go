package screenplay

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Ability is anything an actor can use to interact with a system:
// a browser, an HTTP client. Abilities are looked up by type with AbilityOf.
type Ability any

// Discardable abilities hold resources that are released when the stage
// dismisses its actors.
type Discardable interface {
	Discard(ctx context.Context) error
}

// Actor performs activities and answers questions using its abilities.
type Actor struct {
	name string
	crew StageCrewMember

	waitTimeout     time.Duration
	pollingInterval time.Duration

	abilitiesMu sync.RWMutex
	abilities   []Ability

	// performMu serializes AttemptsTo; depth is only touched while it is held.
	performMu sync.Mutex
	depth     int
}

// performingKey marks a context as belonging to an actor that already holds performMu.
type performingKey struct{ actor *Actor }

// NewActor creates a stand-alone actor. Scenarios normally get actors from a Stage.
func NewActor(name string) *Actor {
	return &Actor{
		name:            name,
		crew:            crew(nil),
		waitTimeout:     DefaultWaitTimeout,
		pollingInterval: DefaultPollingInterval,
	}
}

// Name returns the actor's name.
func (a *Actor) Name() string { return a.name }

func (a *Actor) String() string { return a.name }

// WhoCan gives the actor additional abilities. Giving an actor a second
// ability of the same type replaces the first.
func (a *Actor) WhoCan(abilities ...Ability) *Actor {
	a.abilitiesMu.Lock()
	defer a.abilitiesMu.Unlock()
	for _, ability := range abilities {
		replaced := false
		for i, existing := range a.abilities {
			if reflect.TypeOf(existing) == reflect.TypeOf(ability) {
				a.abilities[i] = ability
				replaced = true
				break
			}
		}
		if !replaced {
			a.abilities = append(a.abilities, ability)
		}
	}
	return a
}

// AbilityOf returns the actor's ability of type T. T may be a concrete
// ability type or an interface the ability implements.
func AbilityOf[T Ability](actor *Actor) (T, error) {
	actor.abilitiesMu.RLock()
	defer actor.abilitiesMu.RUnlock()
	for _, ability := range actor.abilities {
		if typed, ok := ability.(T); ok {
			return typed, nil
		}
	}
	var zero T
	return zero, &ConfigurationError{Actor: actor.name, Ability: abilityName[T]()}
}

func abilityName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// AttemptsTo performs the activities in order and stops at the first failure.
// Calls from within an activity of the same actor are allowed and run inline.
func (a *Actor) AttemptsTo(ctx context.Context, activities ...Activity) error {
	if ctx.Value(performingKey{a}) == nil {
		a.performMu.Lock()
		defer a.performMu.Unlock()
		ctx = context.WithValue(ctx, performingKey{a}, true)
	}
	for _, activity := range activities {
		if err := a.perform(ctx, activity); err != nil {
			return err
		}
	}
	return nil
}

// perform runs a single activity and emits its events. Must be called with performMu held.
func (a *Actor) perform(ctx context.Context, activity Activity) error {
	description := renderFor(activity.String(), a)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", description, err)
	}

	started := time.Now()
	a.crew.Notify(Event{
		Kind:        ActivityStarts,
		Actor:       a.name,
		Description: description,
		Depth:       a.depth,
		Timestamp:   started,
	})

	a.depth++
	err := activity.PerformAs(ctx, a)
	a.depth--

	finished := Event{
		Kind:        ActivityFinished,
		Actor:       a.name,
		Description: description,
		Depth:       a.depth,
		Timestamp:   time.Now(),
		Duration:    time.Since(started),
	}
	if err != nil {
		finished.Error = err.Error()
	}
	a.crew.Notify(finished)
	return err
}

// dismiss discards every discardable ability.
func (a *Actor) dismiss(ctx context.Context) error {
	a.abilitiesMu.Lock()
	abilities := a.abilities
	a.abilities = nil
	a.abilitiesMu.Unlock()

	var errs []error
	for _, ability := range abilities {
		if d, ok := ability.(Discardable); ok {
			if err := d.Discard(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s could not discard %s: %w", a.name, reflect.TypeOf(ability), err))
			}
		}
	}
	return errors.Join(errs...)
}
