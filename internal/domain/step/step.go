// Package step defines the idempotent unit of provisioning work.
package step

// Step represents an idempotent unit of provisioning.
// Each step can check its current state, describe planned changes, and
// apply them.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// DependsOn returns the IDs of steps whose outcome this step relies on.
	// A step is skipped when any of its dependencies failed.
	DependsOn() []StepID

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply if
	// changes are required.
	Check(ctx RunContext) (Status, error)

	// Plan returns the diff describing what changes this step will make.
	Plan(ctx RunContext) (Diff, error)

	// Apply executes the step's changes.
	// This must be idempotent: running it again after success is a no-op
	// observable through Check, and it must be safe to re-invoke after an
	// interrupted run.
	Apply(ctx RunContext) error

	// Explain returns human-readable context for this step.
	Explain() Explanation
}

// GuardedStep extends Step with a safety precondition that is re-verified
// at apply time, independent of the idempotence check. Steps whose misfire
// is irrecoverable (locking the operator out of SSH) implement this; when
// the precondition fails the step is blocked with a warning instead of
// applied or failed.
type GuardedStep interface {
	Step

	// Precondition returns nil when the step is safe to apply.
	// It is evaluated immediately before Apply, never cached.
	Precondition(ctx RunContext) error
}

// AsGuarded attempts to cast a step to GuardedStep.
// Returns nil if the step carries no safety gate.
func AsGuarded(s Step) GuardedStep {
	if g, ok := s.(GuardedStep); ok {
		return g
	}
	return nil
}
