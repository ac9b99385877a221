package step

// Status represents the state of a step during planning and execution.
type Status string

const (
	// StatusSatisfied indicates the step's desired state is already met.
	StatusSatisfied Status = "satisfied"
	// StatusNeedsApply indicates the step needs to be applied.
	StatusNeedsApply Status = "needs-apply"
	// StatusUnknown indicates the step's state could not be determined.
	StatusUnknown Status = "unknown"
	// StatusApplied indicates the step's action ran and succeeded.
	StatusApplied Status = "applied"
	// StatusFailed indicates the step failed during check or apply.
	StatusFailed Status = "failed"
	// StatusSkipped indicates the step was skipped because a dependency failed.
	StatusSkipped Status = "skipped"
	// StatusBlocked indicates a safety precondition was unsatisfied, so the
	// action was never attempted. Blocked is a warning, not a failure.
	StatusBlocked Status = "blocked"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// NeedsAction returns true if this status requires operator attention.
func (s Status) NeedsAction() bool {
	switch s {
	case StatusNeedsApply, StatusUnknown, StatusFailed, StatusBlocked:
		return true
	case StatusSatisfied, StatusApplied, StatusSkipped:
		return false
	}
	return false
}

// IsTerminal returns true if this status represents a final execution state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSatisfied, StatusApplied, StatusFailed, StatusSkipped, StatusBlocked:
		return true
	case StatusNeedsApply, StatusUnknown:
		return false
	}
	return false
}
