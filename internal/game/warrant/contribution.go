package warrant

import (
	"fmt"

	"github.com/cory-johannsen/gauntlet/internal/game/ruleset"
)

// Contribution is the full modifier set granted by a warrant state.
type Contribution struct {
	Flat       map[string]float64
	Percent    map[string]float64
	Attributes ruleset.Attributes
}

// Empty reports whether the contribution grants nothing.
func (c Contribution) Empty() bool {
	return len(c.Flat) == 0 && len(c.Percent) == 0 && c.Attributes == (ruleset.Attributes{})
}

// Compute sums the modifiers of every node ctrl has allocated on board.
// Allocated IDs missing from board are skipped.
//
// Postcondition: Flat and Percent are non-nil.
func Compute(board *Board, ctrl *Controller) Contribution {
	out := Contribution{Flat: map[string]float64{}, Percent: map[string]float64{}}
	if board == nil || ctrl == nil {
		return out
	}
	for _, id := range ctrl.Allocated() {
		n, ok := board.Node(id)
		if !ok {
			continue
		}
		for k, v := range n.Flat {
			out.Flat[k] += v
		}
		for k, v := range n.Percent {
			out.Percent[k] += v
		}
		out.Attributes = out.Attributes.Add(n.Attributes)
	}
	return out
}

// Snapshot is the JSON-serialisable saved state of a controller, including
// the contribution it produced so it can be reapplied without the board.
type Snapshot struct {
	BoardID    string             `json:"board_id"`
	Allocated  []string           `json:"allocated"`
	Points     int                `json:"points"`
	Flat       map[string]float64 `json:"flat"`
	Percent    map[string]float64 `json:"percent"`
	Attributes ruleset.Attributes `json:"attributes"`
}

// Snapshot captures the controller's state and current contribution.
func (c *Controller) Snapshot() Snapshot {
	contrib := Compute(c.board, c)
	return Snapshot{
		BoardID:    c.board.ID,
		Allocated:  c.Allocated(),
		Points:     c.points,
		Flat:       contrib.Flat,
		Percent:    contrib.Percent,
		Attributes: contrib.Attributes,
	}
}

// Contribution returns the saved modifiers as a Contribution.
//
// Postcondition: Flat and Percent are non-nil copies.
func (s Snapshot) Contribution() Contribution {
	out := Contribution{Flat: map[string]float64{}, Percent: map[string]float64{}, Attributes: s.Attributes}
	for k, v := range s.Flat {
		out.Flat[k] = v
	}
	for k, v := range s.Percent {
		out.Percent[k] = v
	}
	return out
}

// Restore rebuilds a controller for board from s without spending points.
//
// Postcondition: Returns an error when s belongs to another board or names a
// node board does not have.
func Restore(board *Board, s Snapshot) (*Controller, error) {
	if board.ID != s.BoardID {
		return nil, fmt.Errorf("restoring warrant %q onto board %q: board mismatch", s.BoardID, board.ID)
	}
	c := NewController(board, s.Points)
	for _, id := range s.Allocated {
		if _, ok := board.Node(id); !ok {
			return nil, fmt.Errorf("restoring warrant %q: %w: %s", s.BoardID, ErrUnknownNode, id)
		}
		c.allocated[id] = true
	}
	return c, nil
}
