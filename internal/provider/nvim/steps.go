// Package nvim provides Neovim installation and configuration steps.
package nvim

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

const (
	binaryPath = "~/.local/bin/nvim"
	configDir  = "~/.config/nvim"
	initPath   = "~/.config/nvim/init.lua"

	// releaseURL points at the stable linux64 appimage; it runs without
	// root and without FUSE when extracted.
	releaseURL = "https://github.com/neovim/neovim/releases/latest/download/nvim-linux-x86_64.appimage"
)

// defaultInit is written only when no init.lua exists.
var defaultInit = []byte(`vim.opt.number = true
vim.opt.relativenumber = true
vim.opt.expandtab = true
vim.opt.shiftwidth = 2
vim.opt.tabstop = 2
vim.opt.smartindent = true
vim.opt.termguicolors = true
vim.opt.signcolumn = "yes"
vim.g.mapleader = " "
`)

// InstallStep downloads the Neovim binary into ~/.local/bin.
type InstallStep struct {
	id     step.StepID
	fs     ports.FileSystem
	runner ports.CommandRunner
}

// NewInstallStep creates a new InstallStep.
func NewInstallStep(fs ports.FileSystem, runner ports.CommandRunner) *InstallStep {
	id := step.MustNewStepID("nvim:install")
	return &InstallStep{
		id:     id,
		fs:     fs,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *InstallStep) DependsOn() []step.StepID {
	return nil
}

// Check determines if the binary is already present.
func (s *InstallStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.Exists(ports.ExpandPath(binaryPath)) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *InstallStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "tool", "nvim", "download to "+binaryPath), nil
}

// Apply downloads the binary and makes it executable.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	target := ports.ExpandPath(binaryPath)

	if err := s.fs.MkdirAll(ports.ExpandPath("~/.local/bin"), 0o755); err != nil {
		return fmt.Errorf("failed to create ~/.local/bin: %w", err)
	}

	script := fmt.Sprintf("curl -fsSL -o %s %s && chmod +x %s", target, releaseURL, target)
	result, err := s.runner.Run(ctx.Context(), "sh", "-c", script)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("nvim download failed: %s", result.Stderr)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *InstallStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Install Neovim",
		fmt.Sprintf("Downloads the latest stable Neovim to %s.", binaryPath),
	)
}

// ConfigStep writes a default init.lua if absent.
type ConfigStep struct {
	id   step.StepID
	deps []step.StepID
	fs   ports.FileSystem
}

// NewConfigStep creates a new ConfigStep.
func NewConfigStep(fs ports.FileSystem, deps ...step.StepID) *ConfigStep {
	id := step.MustNewStepID("nvim:config")
	return &ConfigStep{
		id:   id,
		deps: deps,
		fs:   fs,
	}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() step.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ConfigStep) DependsOn() []step.StepID {
	return s.deps
}

// Check reports satisfied as soon as any init.lua exists.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	if s.fs.Exists(ports.ExpandPath(initPath)) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *ConfigStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "file", initPath, "default editor config"), nil
}

// Apply writes the default config.
func (s *ConfigStep) Apply(_ step.RunContext) error {
	if err := s.fs.MkdirAll(ports.ExpandPath(configDir), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", configDir, err)
	}
	path := ports.ExpandPath(initPath)
	if err := s.fs.WriteFile(path, defaultInit, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain() step.Explanation {
	return step.NewExplanation(
		"Write Neovim Config",
		fmt.Sprintf("Writes a default %s when none exists.", initPath),
	)
}
