// Package catalog holds the single phase-tagged step catalog.
//
// There is one catalog for the whole tool; each entry tags its step with
// the phase that may run it. Declared order is execution order: the
// catalog never reorders, because some steps change the state a later
// step's check observes (user creation before key copy, key copy before
// SSH hardening).
package catalog

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/domain/phase"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
)

// Entry associates a step with its phase tag.
type Entry struct {
	step  step.Step
	phase phase.Phase
}

// NewEntry creates a catalog entry.
func NewEntry(s step.Step, p phase.Phase) Entry {
	return Entry{step: s, phase: p}
}

// Step returns the entry's step.
func (e Entry) Step() step.Step {
	return e.step
}

// Phase returns the entry's phase tag.
func (e Entry) Phase() phase.Phase {
	return e.phase
}

// Catalog is the ordered, phase-tagged list of all provisioning steps.
type Catalog struct {
	entries []Entry
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{entries: make([]Entry, 0)}
}

// Add appends a step under the given phase, preserving declared order.
// Duplicate step IDs are rejected: the catalog is the identity space for
// dependency references.
func (c *Catalog) Add(s step.Step, p phase.Phase) error {
	for _, e := range c.entries {
		if e.step.ID().Equals(s.ID()) {
			return fmt.Errorf("duplicate step ID %q", s.ID().String())
		}
	}
	c.entries = append(c.entries, NewEntry(s, p))
	return nil
}

// MustAdd appends a step, panicking on duplicate IDs.
// Use for the compile-time known catalog.
func (c *Catalog) MustAdd(s step.Step, p phase.Phase) {
	if err := c.Add(s, p); err != nil {
		panic(err)
	}
}

// Len returns the total number of entries across all phases.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all entries in declared order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ForPhase returns the steps tagged with the given phase, in declared order.
func (c *Catalog) ForPhase(p phase.Phase) []step.Step {
	steps := make([]step.Step, 0, len(c.entries))
	for _, e := range c.entries {
		if e.phase == p {
			steps = append(steps, e.step)
		}
	}
	return steps
}

// Validate checks that every declared dependency references an earlier
// entry of the same phase. Later or cross-phase references would make a
// dependency unobservable at execution time.
func (c *Catalog) Validate() error {
	seen := make(map[string]phase.Phase, len(c.entries))
	for _, e := range c.entries {
		for _, dep := range e.step.DependsOn() {
			depPhase, ok := seen[dep.String()]
			if !ok {
				return fmt.Errorf("step %q depends on %q which is not declared earlier in the catalog",
					e.step.ID().String(), dep.String())
			}
			if depPhase != e.phase {
				return fmt.Errorf("step %q (%s phase) depends on %q (%s phase)",
					e.step.ID().String(), e.phase, dep.String(), depPhase)
			}
		}
		seen[e.step.ID().String()] = e.phase
	}
	return nil
}
