// Package validation provides input validation utilities to prevent
// command injection and other input-based attacks in values that end up
// on command lines or in system configuration files.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// Common validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPort        = errors.New("invalid port")
	ErrInvalidToolName    = errors.New("invalid tool name")
)

// Compiled regex patterns for validation (compiled once for performance).
var (
	// packageNameRegex matches valid apt package names: alphanumeric,
	// hyphens, underscores, dots, plus.
	// Examples: "git", "fail2ban", "python3.11", "g++"
	packageNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// usernameRegex matches portable POSIX usernames.
	// Examples: "dev", "deploy", "ci-runner"
	usernameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

	// toolNameRegex matches version-manager tool names.
	// Examples: "node", "python", "go"
	toolNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
)

// ValidatePackageName validates an apt package name.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}

// ValidateUsername validates a system account name before it reaches
// useradd, sudoers, or a home directory path.
func ValidateUsername(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !usernameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}
	return nil
}

// ValidatePort validates a TCP port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return nil
}

// ValidateToolName validates a version-manager tool name.
func ValidateToolName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !toolNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidToolName, name)
	}
	return nil
}
