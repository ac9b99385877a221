// Package sshd provides the SSH daemon hardening step.
//
// Hardening is the one action in the catalog whose misfire is
// irrecoverable: disabling password authentication without a working
// public key locks the operator out permanently. The step is therefore
// guarded — the presence of at least one valid authorized key for the
// operator account is re-verified immediately before apply, independent
// of the ordinary idempotence check.
package sshd

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/account"
)

// DropInPath is the sshd configuration drop-in written by the harden step.
const DropInPath = "/etc/ssh/sshd_config.d/90-groundwork.conf"

// HardenStep writes the sshd drop-in and reloads the daemon.
type HardenStep struct {
	username string
	home     string
	sshPort  int
	id       step.StepID
	deps     []step.StepID
	fs       ports.FileSystem
	runner   ports.CommandRunner
}

// NewHardenStep creates a new HardenStep.
func NewHardenStep(username, home string, sshPort int, fs ports.FileSystem, runner ports.CommandRunner, deps ...step.StepID) *HardenStep {
	id := step.MustNewStepID("sshd:harden")
	return &HardenStep{
		username: username,
		home:     home,
		sshPort:  sshPort,
		id:       id,
		deps:     deps,
		fs:       fs,
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *HardenStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *HardenStep) DependsOn() []step.StepID {
	return s.deps
}

// render produces the drop-in content.
func (s *HardenStep) render() []byte {
	var buf bytes.Buffer
	if s.sshPort != 22 {
		fmt.Fprintf(&buf, "Port %d\n", s.sshPort)
	}
	buf.WriteString("PermitRootLogin no\n")
	buf.WriteString("PasswordAuthentication no\n")
	buf.WriteString("KbdInteractiveAuthentication no\n")
	buf.WriteString("ChallengeResponseAuthentication no\n")
	buf.WriteString("PubkeyAuthentication yes\n")
	buf.WriteString("X11Forwarding no\n")
	buf.WriteString("MaxAuthTries 3\n")
	return buf.Bytes()
}

// Check compares the drop-in on disk with the desired content.
func (s *HardenStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(DropInPath) {
		return step.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(DropInPath)
	if err != nil {
		return step.StatusUnknown, err
	}
	if bytes.Equal(existing, s.render()) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Precondition verifies the operator account holds at least one parseable
// public key. Evaluated at apply time, never cached: a key observed during
// planning could have been removed since.
func (s *HardenStep) Precondition(_ step.RunContext) error {
	keyFile := account.KeyFileFor(s.home)

	if !s.fs.Exists(keyFile) {
		return fmt.Errorf("%s does not exist; refusing to disable password authentication for %s", keyFile, s.username)
	}

	data, err := s.fs.ReadFile(keyFile)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", keyFile, err)
	}

	if !containsValidKey(data) {
		return fmt.Errorf("%s contains no valid public key; refusing to disable password authentication for %s", keyFile, s.username)
	}
	return nil
}

// containsValidKey reports whether at least one line of an authorized_keys
// file parses as a public key.
func containsValidKey(data []byte) bool {
	rest := data
	for len(rest) > 0 {
		var err error
		_, _, _, rest, err = ssh.ParseAuthorizedKey(rest)
		if err == nil {
			return true
		}
		// Skip the unparseable line and keep looking.
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			break
		}
		rest = rest[idx+1:]
	}
	return false
}

// Plan returns the diff for this step.
func (s *HardenStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "file", DropInPath, "disable password auth and root login"), nil
}

// Apply writes the drop-in and reloads sshd.
func (s *HardenStep) Apply(ctx step.RunContext) error {
	if err := s.fs.MkdirAll("/etc/ssh/sshd_config.d", 0o755); err != nil {
		return fmt.Errorf("failed to create sshd_config.d: %w", err)
	}
	if err := s.fs.WriteFile(DropInPath, s.render(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", DropInPath, err)
	}

	// The service unit is "ssh" on Debian/Ubuntu, "sshd" elsewhere.
	result, err := s.runner.Run(ctx.Context(), "systemctl", "reload", "ssh")
	if err != nil {
		return err
	}
	if !result.Success() {
		result, err = s.runner.Run(ctx.Context(), "systemctl", "reload", "sshd")
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("failed to reload sshd: %s", result.Stderr)
		}
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *HardenStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Harden SSH Daemon",
		fmt.Sprintf("Writes %s disabling password authentication and root login, then reloads sshd. Only runs when %s holds a valid public key.",
			DropInPath, account.KeyFileFor(s.home)),
	)
}

// Ensure HardenStep carries a safety gate.
var _ step.GuardedStep = (*HardenStep)(nil)
