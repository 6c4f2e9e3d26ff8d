package inventory

import (
	"errors"
	"fmt"
)

// ErrStashFull is returned when adding to a stash with no free slot.
var ErrStashFull = errors.New("stash: not enough slots")

// Stash holds unequipped item instances up to a slot limit.
type Stash struct {
	MaxSlots int
	items    []*Item
}

// NewStash creates a Stash with the given slot limit.
//
// Precondition: maxSlots >= 0.
// Postcondition: returned Stash is empty.
func NewStash(maxSlots int) *Stash {
	return &Stash{MaxSlots: maxSlots}
}

// Add stores items atomically: if they do not all fit, nothing is stored.
//
// Postcondition: on error, stash state is unchanged.
func (s *Stash) Add(items ...*Item) error {
	if len(s.items)+len(items) > s.MaxSlots {
		return fmt.Errorf("adding %d items to %d/%d: %w", len(items), len(s.items), s.MaxSlots, ErrStashFull)
	}
	for _, it := range items {
		if it == nil {
			return ErrNilItem
		}
	}
	s.items = append(s.items, items...)
	return nil
}

// Take removes and returns the item with instanceID.
//
// Postcondition: ok is false and the stash is unchanged when instanceID is absent.
func (s *Stash) Take(instanceID string) (*Item, bool) {
	for i, it := range s.items {
		if it.InstanceID.String() == instanceID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return it, true
		}
	}
	return nil, false
}

// Items returns a copy of the stored items in insertion order.
func (s *Stash) Items() []*Item {
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// UsedSlots returns the number of occupied slots.
func (s *Stash) UsedSlots() int { return len(s.items) }
