// Package tmux provides the terminal multiplexer configuration step.
package tmux

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const configPath = "~/.tmux.conf"

// defaultConfig is written only when no config exists. An existing
// ~/.tmux.conf is the user's own and is never overwritten.
var defaultConfig = []byte(`set -g mouse on
set -g history-limit 50000
set -g base-index 1
setw -g pane-base-index 1
set -g default-terminal "tmux-256color"
set -sg escape-time 10
`)

// ConfigStep writes a default ~/.tmux.conf if absent.
type ConfigStep struct {
	id step.StepID
	fs ports.FileSystem
}

// NewConfigStep creates a new ConfigStep.
func NewConfigStep(fs ports.FileSystem) *ConfigStep {
	id := step.MustNewStepID("tmux:config")
	return &ConfigStep{
		id: id,
		fs: fs,
	}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ConfigStep) DependsOn() []step.StepID {
	return nil
}

// Check reports satisfied as soon as any config exists.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.Exists(ports.ExpandPath(configPath)) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ConfigStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "file", configPath, "default tmux config"), nil
}

// Apply writes the default config.
func (s *ConfigStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(configPath)
	if err := s.fs.WriteFile(path, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Write tmux Config",
		fmt.Sprintf("Writes a default %s when none exists; an existing config is left alone.", configPath),
	)
}
