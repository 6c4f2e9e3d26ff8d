package condition

import (
	"fmt"
	"sort"
)

// ActiveCondition tracks one applied condition on a character.
type ActiveCondition struct {
	Def            *ConditionDef
	Stacks         int
	TurnsRemaining int // -1 = until the encounter ends or permanent
}

// ActiveSet tracks all conditions currently applied to one character.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds or updates a condition.
// If the condition is already present, stacks are incremented (capped at MaxStacks).
// If MaxStacks == 0 (unstackable), stacks is always stored as 1.
// turns is the number of turn boundaries the condition survives; use -1 for
// encounter-long or permanent conditions.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true; TurnsRemaining is max(existing, turns) on re-apply.
func (s *ActiveSet) Apply(def *ConditionDef, stacks, turns int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}

	if existing, ok := s.conditions[def.ID]; ok {
		if def.MaxStacks > 0 {
			existing.Stacks = capStacks(existing.Stacks+stacks, def.MaxStacks)
		}
		if turns > existing.TurnsRemaining {
			existing.TurnsRemaining = turns
		}
		return nil
	}

	effective := 1
	if def.MaxStacks > 0 {
		effective = capStacks(stacks, def.MaxStacks)
	}
	s.conditions[def.ID] = &ActiveCondition{
		Def:            def,
		Stacks:         effective,
		TurnsRemaining: turns,
	}
	return nil
}

func capStacks(n, max int) int {
	if n > max {
		return max
	}
	if n < 1 {
		return 1
	}
	return n
}

// Remove deletes the condition with the given ID from the set.
// If the condition is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Tick decrements TurnsRemaining of every turn-based condition and removes
// the ones that reach zero. Encounter and permanent conditions are untouched.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for id, ac := range s.conditions {
		if ac.Def.DurationType != DurationTurns || ac.TurnsRemaining < 0 {
			continue
		}
		ac.TurnsRemaining--
		if ac.TurnsRemaining <= 0 {
			expired = append(expired, id)
			delete(s.conditions, id)
		}
	}
	sort.Strings(expired)
	return expired
}

// EndEncounter removes every condition whose duration is the encounter.
//
// Postcondition: no encounter-duration condition remains.
func (s *ActiveSet) EndEncounter() []string {
	var removed []string
	for id, ac := range s.conditions {
		if ac.Def.DurationType == DurationEncounter {
			removed = append(removed, id)
			delete(s.conditions, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the current stack count for condition id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if s == nil {
		return 0
	}
	if ac, ok := s.conditions[id]; ok {
		return ac.Stacks
	}
	return 0
}

// All returns the active conditions sorted by ID.
// The slice is a new allocation, but the pointed-to ActiveCondition values are
// shared; callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, ac)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}
