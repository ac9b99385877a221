package execution

import (
	"context"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// Executor runs steps from a Plan in declared order.
//
// The executor is forward-only: there is no rollback. A failed step does
// not stop the run; only steps that declare a dependency on the failed
// step are skipped. Guarded steps re-verify their precondition immediately
// before applying and downgrade to blocked when it is unsatisfied.
type Executor struct {
	dryRun bool
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithDryRun returns an Executor that reports check results without
// applying actions.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun}
}

// Execute runs all steps in the plan in order.
// Returns a result for every step, including failures and skips. A
// cancelled context stops the run after the in-flight step; every action
// is safe to re-invoke on the next run.
func (e *Executor) Execute(ctx context.Context, plan *Plan) []StepResult {
	results := make([]StepResult, 0, plan.Len())
	failed := make(map[string]bool)

	runCtx := step.NewRunContext(ctx).WithDryRun(e.dryRun)

	for _, entry := range plan.Entries() {
		select {
		case <-ctx.Done():
			return results
		default:
		}

		result := e.executeEntry(entry, runCtx, failed)
		results = append(results, result)

		if result.Status() == step.StatusFailed {
			failed[entry.Step().ID().String()] = true
		}
	}

	return results
}

// executeEntry executes a single plan entry.
func (e *Executor) executeEntry(entry PlanEntry, ctx step.RunContext, failed map[string]bool) StepResult {
	s := entry.Step()
	stepID := s.ID()

	// Skip when any dependency failed: the precondition this step's check
	// observed during planning no longer holds.
	for _, depID := range s.DependsOn() {
		if failed[depID.String()] {
			return NewStepResult(stepID, step.StatusSkipped, nil).
				WithMessage("dependency " + depID.String() + " failed")
		}
	}

	// Already satisfied: record the skip without touching the system.
	if entry.Status() == step.StatusSatisfied {
		return NewStepResult(stepID, step.StatusSatisfied, nil)
	}

	// Dry run: report what would happen.
	if ctx.DryRun() {
		return NewStepResult(stepID, entry.Status(), nil).WithDiff(entry.Diff())
	}

	// Safety gate: re-verified at apply time, never cached. An unsatisfied
	// precondition downgrades to blocked instead of failing the run.
	if g := step.AsGuarded(s); g != nil {
		if err := g.Precondition(ctx); err != nil {
			return NewStepResult(stepID, step.StatusBlocked, nil).WithMessage(err.Error())
		}
	}

	start := time.Now()
	err := s.Apply(ctx)
	duration := time.Since(start)

	if err != nil {
		return NewStepResult(stepID, step.StatusFailed, err).WithDuration(duration)
	}

	return NewStepResult(stepID, step.StatusApplied, nil).
		WithDuration(duration).
		WithDiff(entry.Diff())
}
