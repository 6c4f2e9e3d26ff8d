package warrant

import (
	"errors"
	"fmt"
	"sort"
)

// Unlock errors.
var (
	ErrUnknownNode         = errors.New("unknown warrant node")
	ErrAlreadyUnlocked     = errors.New("warrant node already unlocked")
	ErrInsufficientPoints  = errors.New("insufficient warrant points")
	ErrMissingPrerequisite = errors.New("warrant node prerequisite not unlocked")
)

// Controller tracks the allocated nodes and unspent points for one board.
// It is not safe for concurrent use.
type Controller struct {
	board     *Board
	allocated map[string]bool
	points    int
}

// NewController returns a controller for board with points unspent and no
// node allocated.
//
// Precondition: board must not be nil.
func NewController(board *Board, points int) *Controller {
	return &Controller{board: board, allocated: make(map[string]bool), points: points}
}

// Board returns the board the controller allocates against.
func (c *Controller) Board() *Board { return c.board }

// Points returns the unspent points.
func (c *Controller) Points() int { return c.points }

// AddPoints grants n more points. Non-positive n is ignored.
func (c *Controller) AddPoints(n int) {
	if n > 0 {
		c.points += n
	}
}

// IsAllocated reports whether node id is unlocked.
func (c *Controller) IsAllocated(id string) bool { return c.allocated[id] }

// Allocated returns the unlocked node IDs sorted.
func (c *Controller) Allocated() []string {
	out := make([]string, 0, len(c.allocated))
	for id := range c.allocated {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Unlock allocates node id, spending its cost.
//
// Postcondition: on error, neither the allocated set nor the points change;
// the error wraps one of ErrUnknownNode, ErrAlreadyUnlocked,
// ErrInsufficientPoints, or ErrMissingPrerequisite.
func (c *Controller) Unlock(id string) error {
	n, ok := c.board.Node(id)
	if !ok {
		return fmt.Errorf("unlocking %q on %s: %w", id, c.board.ID, ErrUnknownNode)
	}
	if c.allocated[id] {
		return fmt.Errorf("unlocking %q: %w", id, ErrAlreadyUnlocked)
	}
	for _, req := range n.Requires {
		if !c.allocated[req] {
			return fmt.Errorf("unlocking %q requires %q: %w", id, req, ErrMissingPrerequisite)
		}
	}
	if n.Cost > c.points {
		return fmt.Errorf("unlocking %q costs %d, have %d: %w", id, n.Cost, c.points, ErrInsufficientPoints)
	}
	c.points -= n.Cost
	c.allocated[id] = true
	return nil
}

// Reset deallocates every node and refunds their costs.
//
// Postcondition: Allocated() is empty.
func (c *Controller) Reset() {
	for id := range c.allocated {
		if n, ok := c.board.Node(id); ok {
			c.points += n.Cost
		}
	}
	c.allocated = make(map[string]bool)
}
