// Package phase maps the caller's privilege level to a provisioning phase.
package phase

import (
	"errors"
	"fmt"
)

// Phase identifies an ordered subset of the step catalog gated by
// privilege level.
type Phase string

const (
	// Root covers privileged system setup: firewall, intrusion prevention,
	// account creation, SSH lockdown, automatic updates.
	Root Phase = "root"
	// User covers the unprivileged developer environment: runtimes, editor,
	// multiplexer, shell configuration.
	User Phase = "user"
)

// ErrUnknownPhase is returned when parsing an unrecognized phase name.
var ErrUnknownPhase = errors.New("unknown phase")

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// Detect maps an effective uid to the phase it may run.
// This is the single privilege decision of a run; it is evaluated once at
// start and never revisited.
func Detect(euid int) Phase {
	if euid == 0 {
		return Root
	}
	return User
}

// Parse converts a phase name (from the --phase override) to a Phase.
func Parse(name string) (Phase, error) {
	switch name {
	case "root":
		return Root, nil
	case "user":
		return User, nil
	default:
		return "", fmt.Errorf("%w: %q (want root or user)", ErrUnknownPhase, name)
	}
}
