package catalog

import (
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/domain/phase"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

type stubStep struct {
	id   step.StepID
	deps []step.StepID
}

func newStubStep(id string, deps ...string) stubStep {
	depIDs := make([]step.StepID, len(deps))
	for i, d := range deps {
		depIDs[i] = step.MustNewStepID(d)
	}
	return stubStep{id: step.MustNewStepID(id), deps: depIDs}
}

func (s stubStep) ID() step.StepID                              { return s.id }
func (s stubStep) DependsOn() []step.StepID                     { return s.deps }
func (s stubStep) Check(step.RunContext) (step.Status, error)   { return step.StatusSatisfied, nil }
func (s stubStep) Plan(step.RunContext) (step.Diff, error)      { return step.Diff{}, nil }
func (s stubStep) Apply(step.RunContext) error                  { return nil }
func (s stubStep) Explain() step.Explanation                    { return step.Explanation{} }

func TestCatalog_Add_RejectsDuplicateID(t *testing.T) {
	c := New()
	if err := c.Add(newStubStep("apt:package:ufw"), phase.Root); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if err := c.Add(newStubStep("apt:package:ufw"), phase.Root); err == nil {
		t.Error("Add() should reject duplicate step IDs")
	}
}

func TestCatalog_ForPhase_FiltersAndPreservesOrder(t *testing.T) {
	c := New()
	c.MustAdd(newStubStep("apt:package:ufw"), phase.Root)
	c.MustAdd(newStubStep("runtime:install:mise"), phase.User)
	c.MustAdd(newStubStep("firewall:enable"), phase.Root)
	c.MustAdd(newStubStep("tmux:config:default"), phase.User)

	root := c.ForPhase(phase.Root)
	if len(root) != 2 {
		t.Fatalf("root steps = %d, want 2", len(root))
	}
	if root[0].ID().String() != "apt:package:ufw" || root[1].ID().String() != "firewall:enable" {
		t.Errorf("root order = [%s, %s], want declared order",
			root[0].ID().String(), root[1].ID().String())
	}

	user := c.ForPhase(phase.User)
	if len(user) != 2 {
		t.Fatalf("user steps = %d, want 2", len(user))
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}

func TestCatalog_Validate(t *testing.T) {
	t.Run("dependency declared earlier same phase", func(t *testing.T) {
		c := New()
		c.MustAdd(newStubStep("account:user:dev"), phase.Root)
		c.MustAdd(newStubStep("account:sudoers:dev", "account:user:dev"), phase.Root)
		if err := c.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("dependency not declared", func(t *testing.T) {
		c := New()
		c.MustAdd(newStubStep("account:sudoers:dev", "account:user:dev"), phase.Root)
		if err := c.Validate(); err == nil {
			t.Error("Validate() should reject an undeclared dependency")
		}
	})

	t.Run("dependency declared later", func(t *testing.T) {
		c := New()
		c.MustAdd(newStubStep("account:sudoers:dev", "account:user:dev"), phase.Root)
		c.MustAdd(newStubStep("account:user:dev"), phase.Root)
		if err := c.Validate(); err == nil {
			t.Error("Validate() should reject a forward dependency")
		}
	})

	t.Run("cross-phase dependency", func(t *testing.T) {
		c := New()
		c.MustAdd(newStubStep("account:user:dev"), phase.Root)
		c.MustAdd(newStubStep("shell:profile:bashrc", "account:user:dev"), phase.User)
		if err := c.Validate(); err == nil {
			t.Error("Validate() should reject a cross-phase dependency")
		}
	})
}
