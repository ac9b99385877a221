package apt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
)

func TestPackageStep_ID(t *testing.T) {
	t.Parallel()

	s := NewPackageStep("ufw", nil)
	assert.Equal(t, "apt:package:ufw", s.ID().String())
}

func TestPackageStep_Check_Satisfied(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "ufw"}, ports.CommandResult{
		Stdout:   "installed",
		ExitCode: 0,
	})

	s := NewPackageStep("ufw", runner)
	ctx := step.NewRunContext(context.Background())

	status, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestPackageStep_Check_NotInstalled(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "ufw"}, ports.CommandResult{
		Stderr:   "dpkg-query: no packages found matching ufw",
		ExitCode: 1,
	})

	s := NewPackageStep("ufw", runner)
	ctx := step.NewRunContext(context.Background())

	status, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestPackageStep_Check_Removed(t *testing.T) {
	t.Parallel()

	// Package known to dpkg but deinstalled: config-files status.
	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "ufw"}, ports.CommandResult{
		Stdout:   "config-files",
		ExitCode: 0,
	})

	s := NewPackageStep("ufw", runner)
	ctx := step.NewRunContext(context.Background())

	status, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestPackageStep_Check_RunnerError(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddError("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "ufw"}, errors.New("exec failed"))

	s := NewPackageStep("ufw", runner)
	ctx := step.NewRunContext(context.Background())

	status, err := s.Check(ctx)
	require.Error(t, err)
	assert.Equal(t, step.StatusUnknown, status)
}

func TestPackageStep_Apply(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("apt-get", []string{"install", "-y", "--no-install-recommends", "fail2ban"}, ports.CommandResult{
		ExitCode: 0,
	})

	s := NewPackageStep("fail2ban", runner)
	ctx := step.NewRunContext(context.Background())

	require.NoError(t, s.Apply(ctx))
	assert.Len(t, runner.Calls(), 1)
}

func TestPackageStep_Apply_Failure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("apt-get", []string{"install", "-y", "--no-install-recommends", "fail2ban"}, ports.CommandResult{
		Stderr:   "E: Unable to locate package fail2ban",
		ExitCode: 100,
	})

	s := NewPackageStep("fail2ban", runner)
	ctx := step.NewRunContext(context.Background())

	err := s.Apply(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail2ban")
}

func TestPackageStep_Apply_RejectsInvalidName(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	s := NewPackageStep("etc/passwd", runner)
	ctx := step.NewRunContext(context.Background())

	err := s.Apply(ctx)
	require.Error(t, err)
	assert.Empty(t, runner.Calls(), "no command should run for an invalid package name")
}
