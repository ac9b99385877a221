// Package autoupdate provides unattended-upgrades configuration steps.
package autoupdate

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// ConfigPath is the apt periodic configuration written by the config step.
const ConfigPath = "/etc/apt/apt.conf.d/20auto-upgrades"

// periodicConfig enables daily list updates and unattended upgrades.
var periodicConfig = []byte(`APT::Periodic::Update-Package-Lists "1";
APT::Periodic::Unattended-Upgrade "1";
`)

// ConfigStep writes the apt periodic configuration.
type ConfigStep struct {
	id   step.StepID
	deps []step.StepID
	fs   ports.FileSystem
}

// NewConfigStep creates a new ConfigStep.
func NewConfigStep(fs ports.FileSystem, deps ...step.StepID) *ConfigStep {
	id := step.MustNewStepID("autoupdate:config")
	return &ConfigStep{
		id:   id,
		deps: deps,
		fs:   fs,
	}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ConfigStep) DependsOn() []step.StepID {
	return s.deps
}

// Check compares the configuration on disk with the desired content.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(ConfigPath) {
		return step.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(ConfigPath)
	if err != nil {
		return step.StatusUnknown, err
	}

	if bytes.Equal(existing, periodicConfig) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ConfigStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "file", ConfigPath, "enable periodic upgrades"), nil
}

// Apply writes the configuration.
func (s *ConfigStep) Apply(_ step.RunContext) error {
	if err := s.fs.WriteFile(ConfigPath, periodicConfig, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigPath, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure Automatic Updates",
		fmt.Sprintf("Writes %s so security updates install without operator action.", ConfigPath),
	)
}

// ServiceStep enables and starts the unattended-upgrades service.
type ServiceStep struct {
	id     step.StepID
	deps   []step.StepID
	runner ports.CommandRunner
}

// NewServiceStep creates a new ServiceStep.
func NewServiceStep(runner ports.CommandRunner, deps ...step.StepID) *ServiceStep {
	id := step.MustNewStepID("autoupdate:service")
	return &ServiceStep{
		id:     id,
		deps:   deps,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *ServiceStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ServiceStep) DependsOn() []step.StepID {
	return s.deps
}

// Check determines if the service is enabled and active.
func (s *ServiceStep) Check(ctx step.RunContext) (step.Status, error) {
	enabled, err := s.runner.Run(ctx.Context(), "systemctl", "is-enabled", "unattended-upgrades")
	if err != nil {
		return step.StatusUnknown, err
	}
	active, err := s.runner.Run(ctx.Context(), "systemctl", "is-active", "unattended-upgrades")
	if err != nil {
		return step.StatusUnknown, err
	}

	if enabled.Success() && strings.TrimSpace(active.Stdout) == "active" {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ServiceStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "service", "unattended-upgrades", "enable and start"), nil
}

// Apply enables and starts the service.
func (s *ServiceStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "systemctl", "enable", "--now", "unattended-upgrades")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("systemctl enable unattended-upgrades failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ServiceStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Enable Automatic Updates Service",
		"Enables and starts unattended-upgrades.",
	)
}
