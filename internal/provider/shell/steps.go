// Package shell provides the managed shell profile step.
package shell

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const (
	profilePath = "~/.bashrc"
	sectionName = "profile"

	// miseActivation wires the version manager into interactive shells.
	miseActivation = `export PATH="$HOME/.local/bin:$PATH"
eval "$($HOME/.local/bin/mise activate bash)"
`
)

// ProfileStep maintains the groundwork managed block in ~/.bashrc.
// The rest of the file belongs to the user.
type ProfileStep struct {
	env     map[string]string
	aliases map[string]string
	id      step.StepID
	deps    []step.StepID
	fs      ports.FileSystem
}

// NewProfileStep creates a new ProfileStep.
func NewProfileStep(env, aliases map[string]string, fs ports.FileSystem, deps ...step.StepID) *ProfileStep {
	id := step.MustNewStepID("shell:profile")
	return &ProfileStep{
		env:     env,
		aliases: aliases,
		id:      id,
		deps:    deps,
		fs:      fs,
	}
}

// ID returns the step identifier.
func (s *ProfileStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ProfileStep) DependsOn() []step.StepID {
	return s.deps
}

// desiredBlock renders the managed block content.
func (s *ProfileStep) desiredBlock() string {
	var b strings.Builder
	b.WriteString(miseActivation)
	b.WriteString(generateEnvBlock(s.env))
	b.WriteString(generateAliasBlock(s.aliases))
	return b.String()
}

// Check compares the managed block with the desired content.
func (s *ProfileStep) Check(_ step.RunContext) (step.Status, error) {
	path := ports.ExpandPath(profilePath)
	if !s.fs.Exists(path) {
		return step.StatusNeedsApply, nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return step.StatusUnknown, err
	}

	if ReadManagedBlock(string(data), sectionName) == s.desiredBlock() {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ProfileStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "file", profilePath,
		fmt.Sprintf("managed block: %d env vars, %d aliases", len(s.env), len(s.aliases))), nil
}

// Apply rewrites only the managed block, preserving the rest of the file.
func (s *ProfileStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(profilePath)

	var existing string
	if s.fs.Exists(path) {
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		existing = string(data)
	}

	updated := WriteManagedBlock(existing, sectionName, s.desiredBlock())
	if err := s.fs.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ProfileStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Configure Shell Profile",
		fmt.Sprintf("Maintains a marker-delimited block in %s with mise activation, environment variables, and aliases.", profilePath),
	)
}
