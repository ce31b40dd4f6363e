package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/stagehand/internal/browser"
	"github.com/xkilldash9x/stagehand/internal/config"
	"github.com/xkilldash9x/stagehand/internal/observability"
	"github.com/xkilldash9x/stagehand/internal/scenarios"
)

// ErrScenariosFailed is returned by the run command when at least one
// scenario failed.
var ErrScenariosFailed = errors.New("scenarios failed")

const shutdownTimeout = 15 * time.Second

// browserProvider creates the browser backing web actors. The returned
// function shuts it down.
type browserProvider interface {
	Open(logger *zap.Logger, cfg *config.Config) (scenarios.PageOpener, func(context.Context) error)
}

// chromeProvider launches Chrome through a browser.Manager.
type chromeProvider struct{}

func (chromeProvider) Open(logger *zap.Logger, cfg *config.Config) (scenarios.PageOpener, func(context.Context) error) {
	manager := browser.NewManager(logger, cfg)
	return manager.Opener(), manager.Shutdown
}

func defaultDependencies() dependencies {
	return dependencies{browsers: chromeProvider{}, suite: scenarios.Examples}
}

// newRunCmd creates and configures the `run` command.
func newRunCmd(deps dependencies) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [scenario names...]",
		Short: "Runs the example scenarios",
		Long: `Runs the example scenarios. Arguments select scenarios whose name contains
them; --tag selects scenarios by tag. With neither, every scenario runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd.Context(), cmd.OutOrStdout(), deps, config.Get(), args)
		},
	}

	runCmd.Flags().Bool("headless", true, "Run the browser without a window. (Overrides config/env)")
	runCmd.Flags().IntP("concurrency", "j", 0, "Number of scenarios run at the same time. (Overrides config/env)")
	runCmd.Flags().StringP("report", "o", "", "Write a JSON report to this path. (Overrides config/env)")
	runCmd.Flags().StringSliceP("tag", "t", nil, "Run scenarios carrying one of these tags. (Overrides config/env)")
	runCmd.Flags().Duration("timeout", 0, "Per-scenario timeout. (Overrides config/env)")
	return runCmd
}

func runScenarios(ctx context.Context, out io.Writer, deps dependencies, cfg *config.Config, names []string) error {
	logger := observability.GetLogger()

	selected := scenarios.Filter(deps.suite(cfg.Targets), names, cfg.Runner.Tags)
	if len(selected) == 0 {
		return fmt.Errorf("no scenarios match names %v or tags %v", names, cfg.Runner.Tags)
	}

	open, shutdown := deps.browsers.Open(logger, cfg)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("Error during browser shutdown.", zap.Error(err))
		}
	}()

	runner := scenarios.NewRunner(cfg, scenarios.NewCast(cfg, open, logger), logger)
	results, runErr := runner.Run(ctx, selected)

	printSummary(out, results)

	if cfg.Runner.Report != "" {
		if err := scenarios.WriteReport(cfg.Runner.Report, results); err != nil {
			return err
		}
		logger.Info("Report written.", zap.String("path", cfg.Runner.Report))
	}

	if runErr != nil {
		return runErr
	}
	if scenarios.Failed(results) {
		report := scenarios.NewReport(results)
		return fmt.Errorf("%d of %d %w", report.Failed, len(results), ErrScenariosFailed)
	}
	return nil
}

func printSummary(out io.Writer, results []scenarios.Result) {
	fmt.Fprintln(out)
	for _, res := range results {
		status := "PASS"
		if !res.Success {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s  %s (%s)\n", status, res.Scenario, res.Duration.Round(time.Millisecond))
		if res.Error != "" {
			fmt.Fprintf(out, "      %s\n", res.Error)
		}
	}
	report := scenarios.NewReport(results)
	fmt.Fprintf(out, "\n%d passed, %d failed\n", report.Passed, report.Failed)
}
