package scenarios

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/stagehand/internal/config"
	"github.com/xkilldash9x/stagehand/pkg/screenplay"
)

const (
	defaultScenarioTimeout = 2 * time.Minute
	dismissTimeout         = 30 * time.Second
)

// Result is the outcome of a single scenario run.
type Result struct {
	Scenario string             `json:"scenario"`
	RunID    string             `json:"run_id"`
	Tags     []string           `json:"tags,omitempty"`
	Start    time.Time          `json:"start"`
	End      time.Time          `json:"end"`
	Duration time.Duration      `json:"duration"`
	Success  bool               `json:"success"`
	Error    string             `json:"error,omitempty"`
	Events   []screenplay.Event `json:"events"`
}

// Runner runs scenarios, each on its own stage.
type Runner struct {
	cfg    *config.Config
	cast   screenplay.Cast
	logger *zap.Logger
}

// NewRunner creates a runner whose actors are prepared by cast.
func NewRunner(cfg *config.Config, cast screenplay.Cast, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, cast: cast, logger: logger.Named("runner")}
}

// Run executes the scenarios, at most runner.concurrency at a time. A failing
// scenario does not stop the others. Results keep the order of scenarios.
// The returned error is only set when ctx is canceled.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	concurrency := r.cfg.Runner.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	r.logger.Info("Running scenarios.", zap.Int("count", len(scenarios)), zap.Int("concurrency", concurrency))

	results := make([]Result, len(scenarios))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, scenario := range scenarios {
		g.Go(func() error {
			results[i] = r.runOne(ctx, scenario)
			return nil
		})
	}
	_ = g.Wait()

	passed := 0
	for _, res := range results {
		if res.Success {
			passed++
		}
	}
	r.logger.Info("Scenarios finished.", zap.Int("passed", passed), zap.Int("failed", len(results)-passed))
	return results, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, scenario Scenario) Result {
	runID := uuid.New().String()
	logger := r.logger.With(zap.String("scenario", scenario.Name), zap.String("run_id", runID))
	recorder := &screenplay.Recorder{}

	stage := screenplay.NewStage(r.cast,
		screenplay.WithCrew(recorder, screenplay.NewZapCrew(logger)),
		screenplay.WithWaitTimeout(r.cfg.Screenplay.WaitTimeout),
		screenplay.WithDefaultPollingInterval(r.cfg.Screenplay.PollingInterval),
	)

	timeout := r.cfg.Runner.ScenarioTimeout
	if timeout <= 0 {
		timeout = defaultScenarioTimeout
	}

	result := Result{Scenario: scenario.Name, RunID: runID, Tags: scenario.Tags, Start: time.Now()}
	logger.Info("Scenario starts.")

	err := r.perform(ctx, timeout, scenario, stage)

	dismissCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dismissTimeout)
	if dismissErr := stage.DismissActors(dismissCtx); dismissErr != nil {
		logger.Warn("Failed to dismiss actors.", zap.Error(dismissErr))
	}
	cancel()

	result.End = time.Now()
	result.Duration = result.End.Sub(result.Start)
	result.Events = recorder.Events()
	result.Success = err == nil
	if err != nil {
		result.Error = err.Error()
		logger.Error("Scenario failed.", zap.Duration("duration", result.Duration), zap.Error(err))
	} else {
		logger.Info("Scenario passed.", zap.Duration("duration", result.Duration))
	}
	return result
}

// perform runs the scenario body with a deadline and turns panics into failures.
func (r *Runner) perform(ctx context.Context, timeout time.Duration, scenario Scenario, stage *screenplay.Stage) (err error) {
	scenarioCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scenario panicked: %v", p)
		}
	}()

	err = scenario.Run(scenarioCtx, stage)
	if err != nil && errors.Is(scenarioCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("scenario timed out after %s: %w", timeout, err)
	}
	return err
}

// Failed reports whether any result is a failure.
func Failed(results []Result) bool {
	for _, res := range results {
		if !res.Success {
			return true
		}
	}
	return false
}
