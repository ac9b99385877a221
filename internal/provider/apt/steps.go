// Package apt provides steps for Debian package installation.
package apt

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// PackageStep installs a single apt package.
type PackageStep struct {
	pkg    string
	id     step.StepID
	runner ports.CommandRunner
}

// NewPackageStep creates a new PackageStep.
func NewPackageStep(pkg string, runner ports.CommandRunner) *PackageStep {
	id := step.MustNewStepID("apt:package:" + pkg)
	return &PackageStep{
		pkg:    pkg,
		id:     id,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *PackageStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *PackageStep) DependsOn() []step.StepID {
	return nil
}

// Check determines if the package is already installed.
func (s *PackageStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", s.pkg)
	if err != nil {
		return step.StatusUnknown, err
	}

	// dpkg-query exits 1 when the package is not known
	if !result.Success() {
		return step.StatusNeedsApply, nil
	}

	if strings.Contains(result.Stdout, "installed") {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PackageStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "package", s.pkg, "install via apt"), nil
}

// Apply installs the package.
func (s *PackageStep) Apply(ctx step.RunContext) error {
	// Validate package name before execution to prevent command injection
	if err := validation.ValidatePackageName(s.pkg); err != nil {
		return fmt.Errorf("invalid package name: %w", err)
	}

	result, err := s.runner.Run(ctx.Context(), "apt-get", "install", "-y", "--no-install-recommends", s.pkg)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", s.pkg, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackageStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install APT Package",
		fmt.Sprintf("Installs the %s package via apt-get.", s.pkg),
	)
}
