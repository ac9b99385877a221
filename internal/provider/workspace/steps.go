// Package workspace provides the default working directory step.
package workspace

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// DirStep creates the configured default working directory.
type DirStep struct {
	dir string
	id  step.StepID
	fs  ports.FileSystem
}

// NewDirStep creates a new DirStep.
func NewDirStep(dir string, fs ports.FileSystem) *DirStep {
	id := step.MustNewStepID("workspace:dir")
	return &DirStep{
		dir: dir,
		id:  id,
		fs:  fs,
	}
}

// ID returns the step identifier.
func (s *DirStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *DirStep) DependsOn() []step.StepID {
	return nil
}

// Check determines if the directory exists.
func (s *DirStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.IsDir(ports.ExpandPath(s.dir)) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *DirStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "directory", s.dir, "create"), nil
}

// Apply creates the directory.
func (s *DirStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(s.dir)
	if err := s.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *DirStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Create Working Directory",
		fmt.Sprintf("Creates %s as the default project directory.", s.dir),
	)
}
