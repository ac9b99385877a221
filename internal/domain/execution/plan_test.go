package execution

import (
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

func TestPlan_HasChanges(t *testing.T) {
	tests := []struct {
		name     string
		statuses []step.Status
		want     bool
	}{
		{
			name:     "empty plan",
			statuses: nil,
			want:     false,
		},
		{
			name:     "all satisfied",
			statuses: []step.Status{step.StatusSatisfied, step.StatusSatisfied},
			want:     false,
		},
		{
			name:     "one needs apply",
			statuses: []step.Status{step.StatusSatisfied, step.StatusNeedsApply},
			want:     true,
		},
		{
			name:     "unknown counts as work",
			statuses: []step.Status{step.StatusSatisfied, step.StatusUnknown},
			want:     true,
		},
		{
			name:     "only unknown",
			statuses: []step.Status{step.StatusUnknown},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := NewPlan()
			for i, status := range tt.statuses {
				s := newConfigurableStep(string(rune('a' + i)))
				plan.Add(NewPlanEntry(s, status, step.Diff{}))
			}

			if got := plan.HasChanges(); got != tt.want {
				t.Errorf("HasChanges() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlan_Summary(t *testing.T) {
	plan := NewPlan()
	plan.Add(NewPlanEntry(newConfigurableStep("a"), step.StatusSatisfied, step.Diff{}))
	plan.Add(NewPlanEntry(newConfigurableStep("b"), step.StatusNeedsApply, step.Diff{}))
	plan.Add(NewPlanEntry(newConfigurableStep("c"), step.StatusUnknown, step.Diff{}))

	summary := plan.Summary()
	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}
	if summary.Satisfied != 1 || summary.NeedsApply != 1 || summary.Unknown != 1 {
		t.Errorf("Summary = %+v, want one of each status", summary)
	}
}
