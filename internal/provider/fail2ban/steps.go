// Package fail2ban provides intrusion-prevention configuration steps.
package fail2ban

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// JailPath is the drop-in jail written by the jail step.
const JailPath = "/etc/fail2ban/jail.d/groundwork.local"

// JailStep writes the sshd jail drop-in.
type JailStep struct {
	sshPort int
	id      step.StepID
	deps    []step.StepID
	fs      ports.FileSystem
	runner  ports.CommandRunner
}

// NewJailStep creates a new JailStep.
func NewJailStep(sshPort int, fs ports.FileSystem, runner ports.CommandRunner, deps ...step.StepID) *JailStep {
	id := step.MustNewStepID("fail2ban:jail")
	return &JailStep{
		sshPort: sshPort,
		id:      id,
		deps:    deps,
		fs:      fs,
		runner:  runner,
	}
}

// ID returns the step identifier.
func (s *JailStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *JailStep) DependsOn() []step.StepID {
	return s.deps
}

// Check compares the drop-in on disk with the desired content.
func (s *JailStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(JailPath) {
		return step.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(JailPath)
	if err != nil {
		return step.StatusUnknown, err
	}

	desired, err := s.render()
	if err != nil {
		return step.StatusUnknown, err
	}

	if bytes.Equal(existing, desired) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *JailStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "file", JailPath, "sshd jail"), nil
}

// Apply writes the jail drop-in and reloads a running fail2ban.
func (s *JailStep) Apply(ctx step.RunContext) error {
	content, err := s.render()
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll("/etc/fail2ban/jail.d", 0o755); err != nil {
		return fmt.Errorf("failed to create jail.d: %w", err)
	}
	if err := s.fs.WriteFile(JailPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write jail: %w", err)
	}

	// A running fail2ban keeps the old jail until reloaded; a stopped one
	// picks the file up when the service step starts it.
	result, err := s.runner.Run(ctx.Context(), "systemctl", "try-reload-or-restart", "fail2ban")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("failed to reload fail2ban: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *JailStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure fail2ban Jail",
		fmt.Sprintf("Writes %s banning hosts that repeatedly fail SSH authentication on port %d.", JailPath, s.sshPort),
	)
}

// render produces the jail drop-in as an INI document.
func (s *JailStep) render() ([]byte, error) {
	file := ini.Empty()
	section, err := file.NewSection("sshd")
	if err != nil {
		return nil, err
	}
	section.Key("enabled").SetValue("true")
	section.Key("port").SetValue(fmt.Sprintf("%d", s.sshPort))
	section.Key("maxretry").SetValue("3")
	section.Key("findtime").SetValue("10m")
	section.Key("bantime").SetValue("1h")

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ServiceStep enables and starts the fail2ban service.
type ServiceStep struct {
	id     step.StepID
	deps   []step.StepID
	runner ports.CommandRunner
}

// NewServiceStep creates a new ServiceStep.
func NewServiceStep(runner ports.CommandRunner, deps ...step.StepID) *ServiceStep {
	id := step.MustNewStepID("fail2ban:service")
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
	enabled, err := s.runner.Run(ctx.Context(), "systemctl", "is-enabled", "fail2ban")
	if err != nil {
		return step.StatusUnknown, err
	}
	active, err := s.runner.Run(ctx.Context(), "systemctl", "is-active", "fail2ban")
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
	return step.NewDiff(step.DiffTypeModify, "service", "fail2ban", "enable and start"), nil
}

// Apply enables and starts the service.
func (s *ServiceStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "systemctl", "enable", "--now", "fail2ban")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("systemctl enable fail2ban failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ServiceStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Enable fail2ban Service",
		"Enables and starts fail2ban so the sshd jail takes effect.",
	)
}
