package screenplay

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventKind identifies what happened on stage.
type EventKind string

const (
	ActivityStarts   EventKind = "activity_starts"
	ActivityFinished EventKind = "activity_finished"
)

// Event is emitted by actors as they perform activities.
type Event struct {
	Kind        EventKind     `json:"kind"`
	Actor       string        `json:"actor"`
	Description string        `json:"description"`
	Depth       int           `json:"depth"`
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Failed reports whether a finished activity ended with an error.
func (e Event) Failed() bool {
	return e.Kind == ActivityFinished && e.Error != ""
}

// StageCrewMember observes what actors do.
type StageCrewMember interface {
	Notify(event Event)
}

// ZapCrew reports activities to a zap logger.
type ZapCrew struct {
	logger *zap.Logger
}

// NewZapCrew creates a crew member that logs through the given logger.
func NewZapCrew(logger *zap.Logger) *ZapCrew {
	return &ZapCrew{logger: logger.Named("stage")}
}

func (z *ZapCrew) Notify(event Event) {
	fields := []zap.Field{
		zap.String("actor", event.Actor),
		zap.Int("depth", event.Depth),
	}
	switch {
	case event.Kind == ActivityStarts:
		z.logger.Debug(event.Description, fields...)
	case event.Failed():
		z.logger.Warn(event.Description, append(fields, zap.Duration("duration", event.Duration), zap.String("error", event.Error))...)
	case event.Depth == 0:
		z.logger.Info(event.Description, append(fields, zap.Duration("duration", event.Duration))...)
	default:
		z.logger.Debug(event.Description, append(fields, zap.Duration("duration", event.Duration))...)
	}
}

// Recorder keeps every event in memory, in arrival order.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// crew fans events out to several members.
type crew []StageCrewMember

func (c crew) Notify(event Event) {
	for _, member := range c {
		member.Notify(event)
	}
}
