package execution

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// Planner generates a Plan from an ordered list of steps by evaluating
// each step's check against the live system.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan checks each step in declared order and records its status.
// A check error does not abort planning: the step is recorded as unknown
// and execution decides what to do with it.
func (p *Planner) Plan(ctx context.Context, steps []step.Step) (*Plan, error) {
	plan := NewPlan()
	runCtx := step.NewRunContext(ctx)

	for _, s := range steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entry, err := p.planStep(s, runCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to plan step %q: %w", s.ID().String(), err)
		}
		plan.Add(entry)
	}

	return plan, nil
}

// planStep checks a single step and generates a PlanEntry.
func (p *Planner) planStep(s step.Step, ctx step.RunContext) (PlanEntry, error) {
	status, err := s.Check(ctx)
	if err != nil {
		// The state could not be determined; surface it in the plan rather
		// than aborting, the executor treats unknown as needs-apply.
		return NewPlanEntry(s, step.StatusUnknown, step.Diff{}), nil
	}

	var diff step.Diff
	if status == step.StatusNeedsApply {
		diff, err = s.Plan(ctx)
		if err != nil {
			return PlanEntry{}, fmt.Errorf("plan failed: %w", err)
		}
	}

	return NewPlanEntry(s, status, diff), nil
}
