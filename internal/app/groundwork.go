// Package app provides the main application logic for groundwork.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/groundwork/internal/adapters/command"
	"github.com/felixgeelhaar/groundwork/internal/adapters/filesystem"
	"github.com/felixgeelhaar/groundwork/internal/adapters/logging"
	"github.com/felixgeelhaar/groundwork/internal/domain/catalog"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/execution"
	"github.com/felixgeelhaar/groundwork/internal/domain/phase"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// StepFailureError reports how many steps failed during a run. The CLI
// maps it to the process exit code.
type StepFailureError struct {
	Failed int
}

// Error implements the error interface.
func (e *StepFailureError) Error() string {
	if e.Failed == 1 {
		return "1 step failed"
	}
	return fmt.Sprintf("%d steps failed", e.Failed)
}

// ExitCode returns the process exit code for this failure count.
func (e *StepFailureError) ExitCode() int {
	if e.Failed > 125 {
		return 125
	}
	return e.Failed
}

// Groundwork is the main application orchestrator.
type Groundwork struct {
	catalog  *catalog.Catalog
	planner  *execution.Planner
	executor *execution.Executor
	runner   ports.CommandRunner
	fs       ports.FileSystem
	logger   ports.Logger
	printer  *Printer
}

// New creates a Groundwork wired to the real system. Verbose lowers the
// log threshold to debug.
func New(out io.Writer, cfg *config.Config, verbose bool) *Groundwork {
	runner := command.NewRealRunner()
	fs := filesystem.NewRealFileSystem()

	var opts []logging.ConsoleLoggerOption
	if verbose {
		opts = append(opts, logging.WithLevel(ports.LevelDebug))
	}
	logger := logging.NewConsoleLogger(opts...).With(ports.F("run", shortRunID()))

	return newWith(out, cfg, fs, runner, logger)
}

// NewWith creates a Groundwork with explicit collaborators. Tests use it
// to substitute doubles for the runner and filesystem.
func NewWith(out io.Writer, cfg *config.Config, fs ports.FileSystem, runner ports.CommandRunner) *Groundwork {
	return newWith(out, cfg, fs, runner, logging.NewNopLogger())
}

func newWith(out io.Writer, cfg *config.Config, fs ports.FileSystem, runner ports.CommandRunner, logger ports.Logger) *Groundwork {
	c := BuildCatalog(cfg, fs, runner)
	// Dependencies are declared in source order; a violation is a bug in
	// the catalog assembly, not a runtime condition.
	if err := c.Validate(); err != nil {
		panic(err)
	}

	return &Groundwork{
		catalog:  c,
		planner:  execution.NewPlanner(),
		executor: execution.NewExecutor(),
		runner:   runner,
		fs:       fs,
		logger:   logger,
		printer:  NewPrinter(out),
	}
}

// shortRunID tags every log line of a run.
func shortRunID() string {
	return uuid.NewString()[:8]
}

// Catalog returns the assembled step catalog.
func (g *Groundwork) Catalog() *catalog.Catalog {
	return g.catalog
}

// Plan checks every step of the phase against the live system.
// It aborts with an error when the environment cannot support the phase
// at all: nothing later in the run could be trusted.
func (g *Groundwork) Plan(ctx context.Context, p phase.Phase) (*execution.Plan, error) {
	if err := g.ensureEnvironment(p); err != nil {
		return nil, err
	}

	steps := g.catalog.ForPhase(p)
	g.logger.Info(ctx, "planning phase", ports.F("phase", p.String()), ports.F("steps", len(steps)))

	plan, err := g.planner.Plan(ctx, steps)
	if err != nil {
		return nil, fmt.Errorf("failed to plan: %w", err)
	}
	return plan, nil
}

// Apply executes the plan and returns per-step results plus an error when
// any step failed.
func (g *Groundwork) Apply(ctx context.Context, plan *execution.Plan, dryRun bool) ([]execution.StepResult, error) {
	executor := g.executor.WithDryRun(dryRun)
	results := executor.Execute(ctx, plan)

	for i := range results {
		r := results[i]
		switch {
		case r.Blocked():
			g.logger.Warn(ctx, "step blocked by safety gate",
				ports.F("step", r.StepID().String()), ports.F("reason", r.Message()))
		case r.Error() != nil:
			g.logger.Error(ctx, "step failed",
				ports.F("step", r.StepID().String()), ports.F("error", r.Error()))
		case r.Applied():
			g.logger.Info(ctx, "step applied",
				ports.F("step", r.StepID().String()), ports.F("duration", r.Duration()))
		default:
			g.logger.Debug(ctx, "step unchanged",
				ports.F("step", r.StepID().String()), ports.F("status", r.Status().String()))
		}
	}

	summary := execution.Summarize(results)
	if summary.Failed > 0 {
		return results, &StepFailureError{Failed: summary.Failed}
	}
	return results, nil
}

// ensureEnvironment verifies the host can run the phase at all.
// A missing package manager (root) or downloader (user) is a fatal
// mismatch: no subsequent check or action can be trusted.
func (g *Groundwork) ensureEnvironment(p phase.Phase) error {
	probe := "apt-get"
	if p == phase.User {
		probe = "curl"
	}

	if !g.runner.LookPath(probe) {
		return fmt.Errorf("required tool %q is not available; cannot provision this host", probe)
	}
	return nil
}

// PrintPlan outputs a human-readable plan summary.
func (g *Groundwork) PrintPlan(plan *execution.Plan) {
	g.printer.Plan(plan)
}

// PrintResults outputs execution results and the final summary.
func (g *Groundwork) PrintResults(results []execution.StepResult) {
	g.printer.Results(results)
}
