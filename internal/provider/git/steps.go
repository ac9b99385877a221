// Package git provides the ~/.gitconfig management step.
package git

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const configPath = "~/.gitconfig"

// ConfigStep manages a fixed set of keys in ~/.gitconfig, preserving any
// other settings the user has added.
type ConfigStep struct {
	name          string
	email         string
	defaultBranch string
	id            step.StepID
	fs            ports.FileSystem
}

// NewConfigStep creates a new ConfigStep.
func NewConfigStep(name, email, defaultBranch string, fs ports.FileSystem) *ConfigStep {
	id := step.MustNewStepID("git:config")
	return &ConfigStep{
		name:          name,
		email:         email,
		defaultBranch: defaultBranch,
		id:            id,
		fs:            fs,
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

// managedKeys returns section/key/value triples this step owns.
// Empty values are not managed: a user without a configured identity
// keeps whatever is already there.
func (s *ConfigStep) managedKeys() [][3]string {
	keys := make([][3]string, 0, 4)
	if s.name != "" {
		keys = append(keys, [3]string{"user", "name", s.name})
	}
	if s.email != "" {
		keys = append(keys, [3]string{"user", "email", s.email})
	}
	if s.defaultBranch != "" {
		keys = append(keys, [3]string{"init", "defaultBranch", s.defaultBranch})
	}
	keys = append(keys, [3]string{"pull", "rebase", "true"})
	return keys
}

// Check verifies every managed key holds its desired value.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	path := ports.ExpandPath(configPath)
	if !s.fs.Exists(path) {
		return step.StatusNeedsApply, nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return step.StatusUnknown, err
	}

	file, err := ini.Load(data)
	if err != nil {
		return step.StatusNeedsApply, nil //nolint:nilerr // unparseable config gets rewritten
	}

	for _, kv := range s.managedKeys() {
		if file.Section(kv[0]).Key(kv[1]).String() != kv[2] {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *ConfigStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "file", configPath,
		fmt.Sprintf("%d managed keys", len(s.managedKeys()))), nil
}

// Apply sets the managed keys, leaving unmanaged sections intact.
func (s *ConfigStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(configPath)

	file := ini.Empty()
	if s.fs.Exists(path) {
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if loaded, err := ini.Load(data); err == nil {
			file = loaded
		}
	}

	for _, kv := range s.managedKeys() {
		file.Section(kv[0]).Key(kv[1]).SetValue(kv[2])
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render gitconfig: %w", err)
	}
	if err := s.fs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure Git",
		fmt.Sprintf("Sets identity and defaults in %s, preserving unmanaged settings.", configPath),
	)
}
