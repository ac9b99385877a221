// Package account provides steps for the unprivileged operator account.
package account

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// rootAuthorizedKeys is the source the key-copy step mirrors. Cloud images
// place the provisioning key here.
const rootAuthorizedKeys = "/root/.ssh/authorized_keys"

// UserStep creates the unprivileged account with a home directory and
// sudo group membership.
type UserStep struct {
	username string
	id       step.StepID
	deps     []step.StepID
	runner   ports.CommandRunner
}

// NewUserStep creates a new UserStep.
func NewUserStep(username string, runner ports.CommandRunner, deps ...step.StepID) *UserStep {
	id := step.MustNewStepID("account:user:" + username)
	return &UserStep{
		username: username,
		id:       id,
		deps:     deps,
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *UserStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *UserStep) DependsOn() []step.StepID {
	return s.deps
}

// Check determines if the account already exists.
func (s *UserStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "id", "-u", s.username)
	if err != nil {
		return step.StatusUnknown, err
	}
	if result.Success() {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *UserStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "user", s.username, "create with home and sudo group"), nil
}

// Apply creates the account.
func (s *UserStep) Apply(ctx step.RunContext) error {
	if err := validation.ValidateUsername(s.username); err != nil {
		return err
	}

	result, err := s.runner.Run(ctx.Context(), "useradd", "-m", "-s", "/bin/bash", "-G", "sudo", s.username)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("useradd %s failed: %s", s.username, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *UserStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Create Operator Account",
		fmt.Sprintf("Creates the %s account with a home directory, bash shell, and sudo group membership.", s.username),
	)
}

// SudoersStep writes a passwordless sudo drop-in for the account.
type SudoersStep struct {
	username string
	id       step.StepID
	deps     []step.StepID
	fs       ports.FileSystem
}

// NewSudoersStep creates a new SudoersStep.
func NewSudoersStep(username string, fs ports.FileSystem, deps ...step.StepID) *SudoersStep {
	id := step.MustNewStepID("account:sudoers:" + username)
	return &SudoersStep{
		username: username,
		id:       id,
		deps:     deps,
		fs:       fs,
	}
}

// ID returns the step identifier.
func (s *SudoersStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *SudoersStep) DependsOn() []step.StepID {
	return s.deps
}

func (s *SudoersStep) path() string {
	return filepath.Join("/etc/sudoers.d", s.username)
}

func (s *SudoersStep) content() []byte {
	return []byte(fmt.Sprintf("%s ALL=(ALL) NOPASSWD:ALL\n", s.username))
}

// Check compares the drop-in on disk with the desired content.
func (s *SudoersStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.path()) {
		return step.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(s.path())
	if err != nil {
		return step.StatusUnknown, err
	}
	if bytes.Equal(existing, s.content()) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *SudoersStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "file", s.path(), "passwordless sudo"), nil
}

// Apply writes the drop-in. Sudoers drop-ins must be mode 0440 or sudo
// refuses to read them.
func (s *SudoersStep) Apply(_ step.RunContext) error {
	if err := validation.ValidateUsername(s.username); err != nil {
		return err
	}
	if err := s.fs.WriteFile(s.path(), s.content(), 0o440); err != nil {
		return fmt.Errorf("failed to write sudoers drop-in: %w", err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *SudoersStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Grant Passwordless Sudo",
		fmt.Sprintf("Writes %s so %s can sudo without a password.", s.path(), s.username),
	)
}

// AuthorizedKeysStep copies root's authorized_keys to the operator account
// so key-based login works before password authentication is disabled.
//
// The step is guarded: when root has no keys there is nothing to copy, and
// proceeding silently would leave the later SSH hardening with no safe
// path, so it blocks with a warning instead.
type AuthorizedKeysStep struct {
	username string
	home     string
	id       step.StepID
	deps     []step.StepID
	fs       ports.FileSystem
	runner   ports.CommandRunner
}

// NewAuthorizedKeysStep creates a new AuthorizedKeysStep.
func NewAuthorizedKeysStep(username, home string, fs ports.FileSystem, runner ports.CommandRunner, deps ...step.StepID) *AuthorizedKeysStep {
	id := step.MustNewStepID("account:authorized-keys:" + username)
	return &AuthorizedKeysStep{
		username: username,
		home:     home,
		id:       id,
		deps:     deps,
		fs:       fs,
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *AuthorizedKeysStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *AuthorizedKeysStep) DependsOn() []step.StepID {
	return s.deps
}

func (s *AuthorizedKeysStep) target() string {
	return filepath.Join(s.home, ".ssh", "authorized_keys")
}

// Check determines if the account already has a non-empty key file.
func (s *AuthorizedKeysStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.target()) {
		return step.StatusNeedsApply, nil
	}
	info, err := s.fs.GetFileInfo(s.target())
	if err != nil {
		return step.StatusUnknown, err
	}
	if info.Size == 0 {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Precondition verifies root has keys to copy. Evaluated at apply time.
func (s *AuthorizedKeysStep) Precondition(_ step.RunContext) error {
	if !s.fs.Exists(rootAuthorizedKeys) {
		return fmt.Errorf("%s does not exist; add a public key for root before provisioning", rootAuthorizedKeys)
	}
	data, err := s.fs.ReadFile(rootAuthorizedKeys)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", rootAuthorizedKeys, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s is empty; add a public key for root before provisioning", rootAuthorizedKeys)
	}
	return nil
}

// Plan returns the diff for this step.
func (s *AuthorizedKeysStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "file", s.target(), "copy from "+rootAuthorizedKeys), nil
}

// Apply copies the key file and hands ownership to the account.
func (s *AuthorizedKeysStep) Apply(ctx step.RunContext) error {
	sshDir := filepath.Join(s.home, ".ssh")
	if err := s.fs.MkdirAll(sshDir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", sshDir, err)
	}

	data, err := s.fs.ReadFile(rootAuthorizedKeys)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rootAuthorizedKeys, err)
	}
	if err := s.fs.WriteFile(s.target(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.target(), err)
	}

	owner := s.username + ":" + s.username
	result, err := s.runner.Run(ctx.Context(), "chown", "-R", owner, sshDir)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("chown %s failed: %s", sshDir, result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *AuthorizedKeysStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Copy Authorized Keys",
		fmt.Sprintf("Copies %s to %s so key login works for %s before password authentication is disabled.",
			rootAuthorizedKeys, s.target(), s.username),
	)
}

// Ensure AuthorizedKeysStep carries a safety gate.
var _ step.GuardedStep = (*AuthorizedKeysStep)(nil)

// KeyFileFor returns the authorized_keys path for a home directory.
// The SSH hardening step uses it for its own precondition.
func KeyFileFor(home string) string {
	return filepath.Join(strings.TrimRight(home, "/"), ".ssh", "authorized_keys")
}
