package screenplay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notepad struct{ notes []string }

type discardable struct {
	discarded bool
	err       error
}

func (d *discardable) Discard(context.Context) error {
	d.discarded = true
	return d.err
}

func note(text string) Activity {
	return Interaction("#actor notes "+text, func(_ context.Context, actor *Actor) error {
		pad, err := AbilityOf[*notepad](actor)
		if err != nil {
			return err
		}
		pad.notes = append(pad.notes, text)
		return nil
	})
}

func TestActor_AttemptsTo(t *testing.T) {
	t.Run("performs activities in order", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("Wendy").WhoCan(pad)

		err := actor.AttemptsTo(context.Background(), note("one"), note("two"), note("three"))
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three"}, pad.notes)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("Wendy").WhoCan(pad)
		boom := errors.New("boom")

		err := actor.AttemptsTo(context.Background(),
			note("one"),
			Interaction("#actor fails", func(context.Context, *Actor) error { return boom }),
			note("two"),
		)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"one"}, pad.notes)
	})

	t.Run("refuses to start when the context is done", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("Wendy").WhoCan(pad)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := actor.AttemptsTo(ctx, note("one"))
		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, err.Error(), "Wendy notes one")
		assert.Empty(t, pad.notes)
	})

	t.Run("allows nested calls from within an activity", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("Wendy").WhoCan(pad)

		nested := Interaction("#actor delegates", func(ctx context.Context, a *Actor) error {
			return a.AttemptsTo(ctx, note("inner"))
		})
		require.NoError(t, actor.AttemptsTo(context.Background(), nested))
		assert.Equal(t, []string{"inner"}, pad.notes)
	})
}

func TestTask(t *testing.T) {
	t.Run("renders the actor name into wrapped errors", func(t *testing.T) {
		actor := NewActor("Apisitt")
		task := Task("#actor ensures all systems are operational",
			Interaction("#actor sends a request", func(context.Context, *Actor) error {
				return errors.New("connection refused")
			}),
		)

		err := actor.AttemptsTo(context.Background(), task)
		require.Error(t, err)
		assert.Equal(t, "Apisitt ensures all systems are operational: connection refused", err.Error())
	})

	t.Run("emits nested events depth first", func(t *testing.T) {
		recorder := &Recorder{}
		stage := NewStage(CastFunc(func(a *Actor) *Actor { return a.WhoCan(&notepad{}) }), WithCrew(recorder))
		actor := stage.ActorCalled("Wendy")

		err := actor.AttemptsTo(context.Background(), Task("#actor writes a list", note("a"), note("b")))
		require.NoError(t, err)

		events := recorder.Events()
		require.Len(t, events, 6)
		assert.Equal(t, Event{Kind: ActivityStarts, Actor: "Wendy", Description: "Wendy writes a list", Depth: 0, Timestamp: events[0].Timestamp}, events[0])
		assert.Equal(t, "Wendy notes a", events[1].Description)
		assert.Equal(t, 1, events[1].Depth)
		assert.Equal(t, ActivityFinished, events[2].Kind)
		assert.Equal(t, "Wendy notes b", events[3].Description)
		assert.Equal(t, ActivityFinished, events[5].Kind)
		assert.Equal(t, 0, events[5].Depth)
		assert.False(t, events[5].Failed())
	})
}

func TestAbilityOf(t *testing.T) {
	t.Run("finds an ability by concrete type", func(t *testing.T) {
		pad := &notepad{}
		actor := NewActor("Wendy").WhoCan(pad)

		found, err := AbilityOf[*notepad](actor)
		require.NoError(t, err)
		assert.Same(t, pad, found)
	})

	t.Run("finds an ability by interface", func(t *testing.T) {
		d := &discardable{}
		actor := NewActor("Wendy").WhoCan(d)

		found, err := AbilityOf[Discardable](actor)
		require.NoError(t, err)
		assert.Same(t, d, found)
	})

	t.Run("explains a missing ability", func(t *testing.T) {
		actor := NewActor("Wendy")

		_, err := AbilityOf[*notepad](actor)
		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, "Wendy can't notepad yet. Did you give them the ability to do so?", err.Error())
	})

	t.Run("replaces an ability of the same type", func(t *testing.T) {
		first, second := &notepad{}, &notepad{}
		actor := NewActor("Wendy").WhoCan(first).WhoCan(second)

		found, err := AbilityOf[*notepad](actor)
		require.NoError(t, err)
		assert.Same(t, second, found)
	})
}

func TestStage(t *testing.T) {
	t.Run("returns the same actor for the same name", func(t *testing.T) {
		prepared := 0
		stage := NewStage(CastFunc(func(a *Actor) *Actor {
			prepared++
			return a
		}))

		wendy := stage.ActorCalled("Wendy")
		assert.Same(t, wendy, stage.ActorCalled("Wendy"))
		assert.NotSame(t, wendy, stage.ActorCalled("Apisitt"))
		assert.Equal(t, 2, prepared)
		assert.Equal(t, []*Actor{wendy, stage.ActorCalled("Apisitt")}, stage.Actors())
	})

	t.Run("dismissing actors discards their abilities", func(t *testing.T) {
		ok := &discardable{}
		failing := &discardable{err: errors.New("browser already gone")}
		stage := NewStage(nil)
		stage.ActorCalled("Alice").WhoCan(ok)
		stage.ActorCalled("Wendy").WhoCan(failing)

		err := stage.DismissActors(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Wendy could not discard")
		assert.Contains(t, err.Error(), "browser already gone")
		assert.True(t, ok.discarded)
		assert.True(t, failing.discarded)
		assert.Empty(t, stage.Actors())
	})
}
