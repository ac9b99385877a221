// Package execution handles step orchestration and runtime execution.
package execution

import (
	"time"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	stepID   step.StepID
	status   step.Status
	err      error
	message  string
	duration time.Duration
	diff     step.Diff
}

// NewStepResult creates a new StepResult.
func NewStepResult(stepID step.StepID, status step.Status, err error) StepResult {
	return StepResult{
		stepID: stepID,
		status: status,
		err:    err,
	}
}

// StepID returns the ID of the step that was executed.
func (r StepResult) StepID() step.StepID {
	return r.stepID
}

// Status returns the final status of the step.
func (r StepResult) Status() step.Status {
	return r.status
}

// Error returns any error that occurred during execution.
func (r StepResult) Error() error {
	return r.err
}

// Message returns the optional human-readable note attached to the result
// (e.g., why a guarded step was blocked).
func (r StepResult) Message() string {
	return r.message
}

// Duration returns how long the step took to execute.
func (r StepResult) Duration() time.Duration {
	return r.duration
}

// Diff returns the diff that was applied (if any).
func (r StepResult) Diff() step.Diff {
	return r.diff
}

// Success returns true if the step ended in a non-failing state.
func (r StepResult) Success() bool {
	return r.status != step.StatusFailed
}

// Applied returns true if the step's action ran and succeeded.
func (r StepResult) Applied() bool {
	return r.status == step.StatusApplied
}

// Blocked returns true if a safety precondition stopped the step.
func (r StepResult) Blocked() bool {
	return r.status == step.StatusBlocked
}

// WithMessage returns a new StepResult with the message set.
func (r StepResult) WithMessage(msg string) StepResult {
	r.message = msg
	return r
}

// WithDuration returns a new StepResult with duration set.
func (r StepResult) WithDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// WithDiff returns a new StepResult with diff set.
func (r StepResult) WithDiff(d step.Diff) StepResult {
	r.diff = d
	return r
}

// Summary aggregates execution results for the final report.
type Summary struct {
	Total     int
	Applied   int
	Satisfied int
	Failed    int
	Skipped   int
	Blocked   int
}

// Summarize tallies results by status.
func Summarize(results []StepResult) Summary {
	s := Summary{Total: len(results)}
	for i := range results {
		switch results[i].Status() {
		case step.StatusApplied:
			s.Applied++
		case step.StatusSatisfied:
			s.Satisfied++
		case step.StatusFailed:
			s.Failed++
		case step.StatusSkipped:
			s.Skipped++
		case step.StatusBlocked:
			s.Blocked++
		case step.StatusNeedsApply, step.StatusUnknown:
			// Non-terminal statuses only appear in dry runs; they count as
			// neither success nor failure.
		}
	}
	return s
}
