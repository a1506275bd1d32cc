package core

import (
	"slices"
)

// State is the per-run record of an evaluation. A registry keeps no run
// state of its own, so it can be evaluated again with fresh counters.
type State struct {
	counts  map[*Definition]int
	order   []*Definition
	cleared map[*Definition]bool
	entered []*Registry
}

func newState(root *Registry) *State {
	return &State{
		counts:  make(map[*Definition]int),
		cleared: make(map[*Definition]bool),
		entered: []*Registry{root},
	}
}

// Seen reports whether d was bound at least once.
func (s *State) Seen(d *Definition) bool { return s.counts[d] > 0 }

// Count returns how often d was bound.
func (s *State) Count(d *Definition) int { return s.counts[d] }

// Entered reports whether the run reached r (the root, a selected
// sub-command or an introduced group).
func (s *State) Entered(r *Registry) bool { return slices.Contains(s.entered, r) }

// Order returns the bound definitions in the order they were first seen.
func (s *State) Order() []*Definition { return slices.Clone(s.order) }

func (s *State) record(d *Definition) int {
	if s.counts[d] == 0 {
		s.order = append(s.order, d)
	}
	s.counts[d]++
	return s.counts[d]
}

func (s *State) enter(r *Registry) {
	if !s.Entered(r) {
		s.entered = append(s.entered, r)
	}
}
