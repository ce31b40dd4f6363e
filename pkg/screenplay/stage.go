package screenplay

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Cast prepares actors for a scenario by giving them abilities.
type Cast interface {
	PrepareActor(actor *Actor) *Actor
}

// CastFunc adapts a function to the Cast interface.
type CastFunc func(actor *Actor) *Actor

func (f CastFunc) PrepareActor(actor *Actor) *Actor { return f(actor) }

// Stage instantiates and tracks the actors of one scenario.
type Stage struct {
	cast            Cast
	crew            crew
	waitTimeout     time.Duration
	pollingInterval time.Duration

	mu     sync.Mutex
	actors map[string]*Actor
	order  []string
}

// StageOption configures a Stage.
type StageOption func(*Stage)

// WithCrew attaches observers to every actor on the stage.
func WithCrew(members ...StageCrewMember) StageOption {
	return func(s *Stage) { s.crew = append(s.crew, members...) }
}

// WithWaitTimeout sets the default WaitUntil timeout of every actor.
func WithWaitTimeout(d time.Duration) StageOption {
	return func(s *Stage) { s.waitTimeout = d }
}

// WithDefaultPollingInterval sets the default WaitUntil polling interval of every actor.
func WithDefaultPollingInterval(d time.Duration) StageOption {
	return func(s *Stage) { s.pollingInterval = d }
}

// NewStage creates a stage whose actors are prepared by cast. A nil cast
// gives actors no abilities.
func NewStage(cast Cast, opts ...StageOption) *Stage {
	if cast == nil {
		cast = CastFunc(func(actor *Actor) *Actor { return actor })
	}
	s := &Stage{
		cast:            cast,
		waitTimeout:     DefaultWaitTimeout,
		pollingInterval: DefaultPollingInterval,
		actors:          make(map[string]*Actor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActorCalled returns the actor with the given name, instantiating and
// preparing it on first use.
func (s *Stage) ActorCalled(name string) *Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if actor, ok := s.actors[name]; ok {
		return actor
	}
	actor := &Actor{
		name:            name,
		crew:            s.crew,
		waitTimeout:     s.waitTimeout,
		pollingInterval: s.pollingInterval,
	}
	actor = s.cast.PrepareActor(actor)
	s.actors[name] = actor
	s.order = append(s.order, name)
	return actor
}

// Actors returns the actors instantiated so far, in order of appearance.
func (s *Stage) Actors() []*Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	actors := make([]*Actor, 0, len(s.order))
	for _, name := range s.order {
		actors = append(actors, s.actors[name])
	}
	return actors
}

// DismissActors discards the abilities of every actor and empties the stage.
func (s *Stage) DismissActors(ctx context.Context) error {
	s.mu.Lock()
	actors := make([]*Actor, 0, len(s.order))
	for _, name := range s.order {
		actors = append(actors, s.actors[name])
	}
	s.actors = make(map[string]*Actor)
	s.order = nil
	s.mu.Unlock()

	var errs []error
	for _, actor := range actors {
		if err := actor.dismiss(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
