package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

func TestCommandRunner_RegisteredResult(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("ufw", []string{"status"}, ports.CommandResult{Stdout: "Status: active", ExitCode: 0})

	result, err := runner.Run(context.Background(), "ufw", "status")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "Status: active" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
}

func TestCommandRunner_RegisteredError(t *testing.T) {
	runner := NewCommandRunner()
	wantErr := errors.New("boom")
	runner.AddError("ufw", []string{"status"}, wantErr)

	_, err := runner.Run(context.Background(), "ufw", "status")
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestCommandRunner_UnregisteredCommand(t *testing.T) {
	runner := NewCommandRunner()

	_, err := runner.Run(context.Background(), "unknown", "arg")
	if err == nil {
		t.Error("Run() should error for unregistered commands")
	}
}

func TestCommandRunner_RecordsCalls(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddSuccess("echo", []string{"one"}, "one")
	runner.AddSuccess("echo", []string{"two"}, "two")

	_, _ = runner.Run(context.Background(), "echo", "one")
	_, _ = runner.Run(context.Background(), "echo", "two")

	calls := runner.Calls()
	if len(calls) != 2 {
		t.Fatalf("Calls() len = %d, want 2", len(calls))
	}
	if calls[0].Args[0] != "one" || calls[1].Args[0] != "two" {
		t.Errorf("calls recorded out of order: %v", calls)
	}
	if runner.CallCount("echo") != 2 {
		t.Errorf("CallCount = %d, want 2", runner.CallCount("echo"))
	}
}

func TestCommandRunner_LookPath(t *testing.T) {
	runner := NewCommandRunner()

	if runner.LookPath("apt-get") {
		t.Error("LookPath should be false with nothing registered")
	}

	runner.AddSuccess("apt-get", []string{"install", "-y", "ufw"}, "")
	if !runner.LookPath("apt-get") {
		t.Error("LookPath should be true once a result is registered")
	}
	if runner.LookPath("apt") {
		t.Error("LookPath must not match a command name prefix")
	}
}

func TestCommandRunner_Reset(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddSuccess("echo", []string{"x"}, "x")
	_, _ = runner.Run(context.Background(), "echo", "x")

	runner.Reset()

	if len(runner.Calls()) != 0 {
		t.Error("Reset() should clear recorded calls")
	}
	if _, err := runner.Run(context.Background(), "echo", "x"); err == nil {
		t.Error("Reset() should clear registered results")
	}
}
