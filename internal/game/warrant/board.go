// Package warrant models warrant boards: graphs of unlockable nodes that grant
// flat, percent, and attribute modifiers, the controller that tracks which
// nodes are allocated, and the snapshot used when the live board is unavailable.
package warrant

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gauntlet/internal/game/ruleset"
)

// Node is one unlockable position on a board.
type Node struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Cost       int                `yaml:"cost"`
	Requires   []string           `yaml:"requires"`
	Flat       map[string]float64 `yaml:"flat"`
	Percent    map[string]float64 `yaml:"percent"`
	Attributes ruleset.Attributes `yaml:"attributes"`
}

// Board is a static warrant graph loaded from YAML.
type Board struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Nodes []*Node `yaml:"nodes"`

	index map[string]*Node
}

// Node returns the node with id and whether it exists.
func (b *Board) Node(id string) (*Node, bool) {
	if b.index == nil {
		b.buildIndex()
	}
	n, ok := b.index[id]
	return n, ok
}

func (b *Board) buildIndex() {
	b.index = make(map[string]*Node, len(b.Nodes))
	for _, n := range b.Nodes {
		b.index[n.ID] = n
	}
}

// Validate checks node IDs are unique, costs are non-negative, and every
// prerequisite names a node on the board.
//
// Postcondition: Returns nil iff the board is well-formed; builds the node index.
func (b *Board) Validate() error {
	var errs []error
	if b.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	seen := make(map[string]bool, len(b.Nodes))
	for i, n := range b.Nodes {
		if n == nil || n.ID == "" {
			errs = append(errs, fmt.Errorf("node %d: id must not be empty", i))
			continue
		}
		if seen[n.ID] {
			errs = append(errs, fmt.Errorf("node %q: duplicate id", n.ID))
		}
		seen[n.ID] = true
		if n.Cost < 0 {
			errs = append(errs, fmt.Errorf("node %q: cost must be >= 0", n.ID))
		}
	}
	for _, n := range b.Nodes {
		if n == nil {
			continue
		}
		for _, req := range n.Requires {
			if !seen[req] {
				errs = append(errs, fmt.Errorf("node %q: unknown prerequisite %q", n.ID, req))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("board validation failed: %v", errs)
	}
	b.buildIndex()
	return nil
}

// LoadBoards reads every *.yaml file in dir as a Board. Unknown fields are rejected.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns boards sorted by ID, or an error naming the first bad file.
func LoadBoards(dir string) ([]*Board, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading warrant dir %q: %w", dir, err)
	}
	var boards []*Board
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var b Board
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&b); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("invalid board in %q: %w", path, err)
		}
		boards = append(boards, &b)
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].ID < boards[j].ID })
	return boards, nil
}
