package session

import (
	"fmt"

	"github.com/cory-johannsen/gauntlet/internal/content"
	"github.com/cory-johannsen/gauntlet/internal/game/character"
	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
	"github.com/cory-johannsen/gauntlet/internal/game/warrant"
)

// Snapshot is everything needed to rebuild a Session.
type Snapshot struct {
	Character character.Snapshot `json:"character"`
	Equipment inventory.Snapshot `json:"equipment"`
	Warrant   *warrant.Snapshot  `json:"warrant,omitempty"`
}

// Snapshot captures the character, its equipment and stash, and the warrant
// state when a provider is present.
func (s *Session) Snapshot() Snapshot {
	out := Snapshot{Character: s.Character.Snapshot()}
	if s.Equipment != nil {
		out.Equipment = s.Equipment.Snapshot(s.Stash)
	} else {
		out.Equipment = inventory.NewEquipment().Snapshot(s.Stash)
	}
	if s.Warrant != nil {
		if ws, ok := s.Warrant.Saved(); ok {
			out.Warrant = &ws
		}
	}
	return out
}

// Restore rebuilds a Session from snap against cat. When the warrant board
// named by the snapshot is loaded the warrant is restored live; otherwise
// the saved contribution is used.
//
// Postcondition: Returns a refreshed Session or an error naming the part
// that could not be restored.
func Restore(snap Snapshot, cat *content.Catalog, stashSlots int, opts Options) (*Session, error) {
	c, err := character.Restore(cat.Classes, snap.Character)
	if err != nil {
		return nil, err
	}
	eq, stash, err := cat.Items.Restore(snap.Equipment, stashSlots)
	if err != nil {
		return nil, fmt.Errorf("restoring equipment for %s: %w", c.ID, err)
	}
	opts.Equipment = eq
	opts.Stash = stash
	if opts.Conditions == nil {
		opts.Conditions = cat.Conditions
	}
	if snap.Warrant != nil {
		state := &warrant.State{Stored: snap.Warrant}
		if board, ok := cat.Board(snap.Warrant.BoardID); ok {
			ctrl, err := warrant.Restore(board, *snap.Warrant)
			if err != nil {
				return nil, fmt.Errorf("restoring warrant for %s: %w", c.ID, err)
			}
			state.Controller = ctrl
		}
		opts.Warrant = state
	}
	return New(c, opts), nil
}
