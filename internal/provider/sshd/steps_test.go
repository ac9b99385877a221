package sshd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/groundwork/internal/domain/execution"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/testutil/mocks"
)

const (
	devKeyFile = "/home/dev/.ssh/authorized_keys"
	validKey   = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl dev@host\n"
)

func newStep(fs ports.FileSystem, runner ports.CommandRunner) *HardenStep {
	return NewHardenStep("dev", "/home/dev", 22, fs, runner)
}

func TestHardenStep_Precondition_NoKeyFile(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := newStep(fs, mocks.NewCommandRunner())
	ctx := step.NewRunContext(context.Background())

	err := s.Precondition(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), devKeyFile)
}

func TestHardenStep_Precondition_GarbageKeyFile(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(devKeyFile, "not a key\nalso not a key\n")

	s := newStep(fs, mocks.NewCommandRunner())
	ctx := step.NewRunContext(context.Background())

	require.Error(t, s.Precondition(ctx))
}

func TestHardenStep_Precondition_ValidKey(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(devKeyFile, validKey)

	s := newStep(fs, mocks.NewCommandRunner())
	ctx := step.NewRunContext(context.Background())

	require.NoError(t, s.Precondition(ctx))
}

func TestHardenStep_Precondition_ValidKeyAfterComments(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(devKeyFile, "# provisioning key\n"+validKey)

	s := newStep(fs, mocks.NewCommandRunner())
	ctx := step.NewRunContext(context.Background())

	require.NoError(t, s.Precondition(ctx))
}

func TestHardenStep_Apply_WritesDropInAndReloads(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(devKeyFile, validKey)

	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"reload", "ssh"}, ports.CommandResult{ExitCode: 0})

	s := newStep(fs, runner)
	ctx := step.NewRunContext(context.Background())

	require.NoError(t, s.Apply(ctx))

	content := fs.FileContent(DropInPath)
	assert.Contains(t, content, "PermitRootLogin no")
	assert.Contains(t, content, "PasswordAuthentication no")
	assert.Contains(t, content, "KbdInteractiveAuthentication no")
	assert.Contains(t, content, "PubkeyAuthentication yes")
	assert.NotContains(t, content, "Port ", "default port needs no Port directive")
}

func TestHardenStep_Apply_CustomPort(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"reload", "ssh"}, ports.CommandResult{ExitCode: 0})

	s := NewHardenStep("dev", "/home/dev", 2222, fs, runner)
	ctx := step.NewRunContext(context.Background())

	require.NoError(t, s.Apply(ctx))
	assert.Contains(t, fs.FileContent(DropInPath), "Port 2222\n")
}

func TestHardenStep_Apply_FallsBackToSshdUnit(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"reload", "ssh"}, ports.CommandResult{
		Stderr: "Unit ssh.service not found.", ExitCode: 5,
	})
	runner.AddResult("systemctl", []string{"reload", "sshd"}, ports.CommandResult{ExitCode: 0})

	s := newStep(fs, runner)
	ctx := step.NewRunContext(context.Background())

	require.NoError(t, s.Apply(ctx))
	assert.Len(t, runner.Calls(), 2)
}

func TestHardenStep_ApplyThenCheck_Satisfied(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"reload", "ssh"}, ports.CommandResult{ExitCode: 0})

	s := newStep(fs, runner)
	ctx := step.NewRunContext(context.Background())

	status, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, s.Apply(ctx))

	status, err = s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestHardenStep_BlockedInsteadOfWritten(t *testing.T) {
	t.Parallel()

	// Executed through the engine: no key means the drop-in must never land
	// on disk and the run still succeeds.
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	s := newStep(fs, runner)

	plan := execution.NewPlan()
	plan.Add(execution.NewPlanEntry(s, step.StatusNeedsApply, step.Diff{}))
	results := execution.NewExecutor().Execute(context.Background(), plan)

	require.Len(t, results, 1)
	assert.Equal(t, step.StatusBlocked, results[0].Status())
	assert.True(t, results[0].Success())
	assert.False(t, fs.Exists(DropInPath), "blocked step must not write the drop-in")
	assert.Empty(t, runner.Calls(), "blocked step must not reload sshd")
}
