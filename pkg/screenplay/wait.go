package screenplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultWaitTimeout     = 5 * time.Second
	DefaultPollingInterval = 500 * time.Millisecond
)

// WaitOption overrides the actor's wait settings for a single WaitUntil.
type WaitOption func(*waitSettings)

type waitSettings struct {
	timeout  time.Duration
	interval time.Duration
}

// WithTimeout sets how long to wait before giving up.
func WithTimeout(d time.Duration) WaitOption {
	return func(s *waitSettings) { s.timeout = d }
}

// WithPollingInterval sets how often the question is asked.
func WithPollingInterval(d time.Duration) WaitOption {
	return func(s *waitSettings) { s.interval = d }
}

// WaitUntil asks the question repeatedly until its answer meets the
// expectation. Errors from the question count as "not yet". When the timeout
// expires the activity fails with a *TimeoutExpiredError.
func WaitUntil[T any](q Question[T], e Expectation[T], opts ...WaitOption) Activity {
	description := fmt.Sprintf("#actor waits until %s does %s", q, e)
	return Interaction(description, func(ctx context.Context, actor *Actor) error {
		settings := waitSettings{timeout: actor.waitTimeout, interval: actor.pollingInterval}
		for _, opt := range opts {
			opt(&settings)
		}
		if settings.timeout <= 0 {
			settings.timeout = DefaultWaitTimeout
		}
		if settings.interval <= 0 {
			settings.interval = DefaultPollingInterval
		}

		waitCtx, cancel := context.WithTimeout(ctx, settings.timeout)
		defer cancel()

		limiter := rate.NewLimiter(rate.Every(settings.interval), 1)
		var (
			lastActual any
			lastErr    error
		)
		for {
			if err := limiter.Wait(waitCtx); err != nil {
				// The limiter refuses to wait past the deadline, so this is the timeout path too.
				break
			}
			actual, err := q.AnsweredBy(waitCtx, actor)
			if err != nil {
				lastErr = err
				continue
			}
			lastActual, lastErr = actual, nil
			if e.Evaluate(actual).Met {
				return nil
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if errors.Is(lastErr, context.DeadlineExceeded) && lastActual != nil {
			lastErr = nil
		}
		return &TimeoutExpiredError{
			Subject:     q.String(),
			Expectation: e.String(),
			Timeout:     settings.timeout,
			Actual:      lastActual,
			Cause:       lastErr,
		}
	})
}
