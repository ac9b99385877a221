// Package firewall provides ufw configuration steps.
package firewall

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// RulesStep sets the default policies and opens the configured ports.
type RulesStep struct {
	sshPort    int
	allowPorts []int
	id         step.StepID
	deps       []step.StepID
	runner     ports.CommandRunner
}

// NewRulesStep creates a new RulesStep. The SSH port is always allowed so
// enabling the firewall can never sever the operator's session.
func NewRulesStep(sshPort int, allowPorts []int, runner ports.CommandRunner, deps ...step.StepID) *RulesStep {
	id := step.MustNewStepID("firewall:rules")
	return &RulesStep{
		sshPort:    sshPort,
		allowPorts: allowPorts,
		id:         id,
		deps:       deps,
		runner:     runner,
	}
}

// ID returns the step identifier.
func (s *RulesStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *RulesStep) DependsOn() []step.StepID {
	return s.deps
}

// Check determines if the policies and port rules are already in place.
func (s *RulesStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "ufw", "status", "verbose")
	if err != nil {
		return step.StatusUnknown, err
	}
	if !result.Success() {
		return step.StatusNeedsApply, nil
	}

	out := result.Stdout
	if !strings.Contains(out, "deny (incoming)") || !strings.Contains(out, "allow (outgoing)") {
		return step.StatusNeedsApply, nil
	}
	for _, port := range s.ports() {
		if !strings.Contains(out, fmt.Sprintf("%d/tcp", port)) {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *RulesStep) Plan(_ step.RunContext) (step.Diff, error) {
	ruleDesc := make([]string, 0, len(s.ports()))
	for _, port := range s.ports() {
		ruleDesc = append(ruleDesc, fmt.Sprintf("%d/tcp", port))
	}
	return step.NewDiff(step.DiffTypeModify, "firewall", "rules",
		"deny incoming, allow outgoing, allow "+strings.Join(ruleDesc, " ")), nil
}

// Apply writes the default policies and port rules. Each ufw command is
// idempotent on its own, so a partial run re-converges on the next pass.
func (s *RulesStep) Apply(ctx step.RunContext) error {
	cmds := [][]string{
		{"default", "deny", "incoming"},
		{"default", "allow", "outgoing"},
	}
	for _, port := range s.ports() {
		if err := validation.ValidatePort(port); err != nil {
			return err
		}
		cmds = append(cmds, []string{"allow", fmt.Sprintf("%d/tcp", port)})
	}

	for _, args := range cmds {
		result, err := s.runner.Run(ctx.Context(), "ufw", args...)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("ufw %s failed: %s", strings.Join(args, " "), result.Stderr)
		}
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *RulesStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure Firewall Rules",
		fmt.Sprintf("Sets ufw to deny incoming and allow outgoing traffic, and opens TCP ports %v.", s.ports()),
	)
}

func (s *RulesStep) ports() []int {
	out := make([]int, 0, len(s.allowPorts)+1)
	out = append(out, s.sshPort)
	for _, p := range s.allowPorts {
		if p != s.sshPort {
			out = append(out, p)
		}
	}
	return out
}

// EnableStep turns the firewall on once the rules are in place.
type EnableStep struct {
	id     step.StepID
	deps   []step.StepID
	runner ports.CommandRunner
}

// NewEnableStep creates a new EnableStep.
func NewEnableStep(runner ports.CommandRunner, deps ...step.StepID) *EnableStep {
	id := step.MustNewStepID("firewall:enable")
	return &EnableStep{
		id:     id,
		deps:   deps,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *EnableStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies. Enabling before the SSH rule
// exists would cut the operator off, so this depends on the rules step.
func (s *EnableStep) DependsOn() []step.StepID {
	return s.deps
}

// Check determines if the firewall is already active.
func (s *EnableStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "ufw", "status")
	if err != nil {
		return step.StatusUnknown, err
	}
	if result.Success() && strings.Contains(result.Stdout, "Status: active") {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *EnableStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "firewall", "enable", "activate ufw"), nil
}

// Apply enables the firewall.
func (s *EnableStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "ufw", "--force", "enable")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("ufw enable failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *EnableStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Enable Firewall",
		"Activates ufw with the configured rules.",
	)
}
