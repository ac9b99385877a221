// Package runtime provides steps for the mise version manager and the
// language runtimes it installs.
package runtime

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const (
	installPath  = "~/.local/bin/mise"
	configPath   = "~/.config/mise/config.toml"
	installerURL = "https://mise.run"
)

// miseConfig is the on-disk shape of ~/.config/mise/config.toml.
type miseConfig struct {
	Tools map[string]string `toml:"tools"`
}

// InstallStep installs the mise binary under ~/.local/bin.
type InstallStep struct {
	id     step.StepID
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(fs ports.FileSystem, runner ports.CommandRunner) *InstallStep {
	id := step.MustNewStepID("runtime:mise")
	return &InstallStep{
		id:     id,
		fs:     fs,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *InstallStep) DependsOn() []step.StepID {
	return nil
}

// Check determines if mise is already installed.
func (s *InstallStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.Exists(ports.ExpandPath(installPath)) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *InstallStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "tool", "mise", "install to "+installPath), nil
}

// Apply runs the installer.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "sh", "-c", "curl -fsSL "+installerURL+" | sh")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("mise install failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install mise",
		fmt.Sprintf("Installs the mise version manager to %s.", installPath),
	)
}

// ConfigStep manages ~/.config/mise/config.toml.
type ConfigStep struct {
	tools map[string]string
	id    step.StepID
	deps  []step.StepID
	fs    ports.FileSystem
}

// NewConfigStep creates a new ConfigStep.
func NewConfigStep(tools map[string]string, fs ports.FileSystem, deps ...step.StepID) *ConfigStep {
	id := step.MustNewStepID("runtime:config")
	return &ConfigStep{
		tools: tools,
		id:    id,
		deps:  deps,
		fs:    fs,
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

// Check compares the tools table on disk with the desired one. The
// comparison is semantic: reformatting the file by hand does not trigger
// a rewrite as long as the tools match.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	path := ports.ExpandPath(configPath)
	if !s.fs.Exists(path) {
		return step.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(path)
	if err != nil {
		return step.StatusUnknown, err
	}

	var current miseConfig
	if err := toml.Unmarshal(existing, &current); err != nil {
		// Unparseable config gets rewritten.
		return step.StatusNeedsApply, nil //nolint:nilerr
	}

	if reflect.DeepEqual(current.Tools, s.tools) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ConfigStep) Plan(_ step.RunContext) (step.Diff, error) {
	names := make([]string, 0, len(s.tools))
	for name, version := range s.tools {
		names = append(names, name+"@"+version)
	}
	sort.Strings(names)
	return step.NewDiff(step.DiffTypeAdd, "file", configPath, strings.Join(names, " ")), nil
}

// Apply writes the config file.
func (s *ConfigStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(configPath)

	dir := ports.ExpandPath("~/.config/mise")
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := toml.Marshal(miseConfig{Tools: s.tools})
	if err != nil {
		return fmt.Errorf("failed to render mise config: %w", err)
	}
	if err := s.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure Tool Versions",
		fmt.Sprintf("Writes %s pinning %d tools.", configPath, len(s.tools)),
	)
}

// ToolsStep runs `mise install` so the pinned runtimes are present.
type ToolsStep struct {
	id     step.StepID
	deps   []step.StepID
	runner ports.CommandRunner
}

// NewToolsStep creates a new ToolsStep.
func NewToolsStep(runner ports.CommandRunner, deps ...step.StepID) *ToolsStep {
	id := step.MustNewStepID("runtime:tools")
	return &ToolsStep{
		id:     id,
		deps:   deps,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *ToolsStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ToolsStep) DependsOn() []step.StepID {
	return s.deps
}

// Check asks mise which pinned tools are missing.
func (s *ToolsStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "mise", "ls", "--missing")
	if err != nil {
		return step.StatusUnknown, err
	}
	if !result.Success() {
		return step.StatusNeedsApply, nil
	}
	if strings.TrimSpace(result.Stdout) == "" {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ToolsStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "runtimes", "mise", "install pinned tools"), nil
}

// Apply installs the pinned tools.
func (s *ToolsStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.Run(ctx.Context(), "mise", "install", "--yes")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("mise install failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ToolsStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install Pinned Runtimes",
		"Runs mise install so every tool pinned in the config is present.",
	)
}
