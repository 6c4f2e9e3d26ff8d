// Package condition tracks stacked status effects (bolster, tolerance,
// momentum, buffs and debuffs) and exposes them to the damage pipeline and
// the stat router.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Duration types for ConditionDef.DurationType.
const (
	DurationTurns     = "turns"
	DurationEncounter = "encounter"
	DurationPermanent = "permanent"
)

var validDurations = map[string]bool{
	DurationTurns:     true,
	DurationEncounter: true,
	DurationPermanent: true,
}

// ConditionDef is the static definition of a status effect, loaded from YAML.
type ConditionDef struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DurationType string `yaml:"duration_type"`
	MaxStacks    int    `yaml:"max_stacks"` // 0 = unstackable
	// DamageTakenPercent is added to the damage-taken multiplier per stack;
	// negative values reduce damage taken.
	DamageTakenPercent float64 `yaml:"damage_taken_percent"`
	// Stats are per-stack stat contributions routed through the buff layer.
	Stats map[string]float64 `yaml:"stats"`
}

// Validate reports an error if the definition is malformed.
//
// Postcondition: Returns nil iff the def is well-formed.
func (d *ConditionDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validDurations[d.DurationType] {
		errs = append(errs, fmt.Errorf("duration_type must be one of turns, encounter, permanent; got %q", d.DurationType))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, errors.New("max_stacks must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("condition validation failed: %v", errs)
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered ConditionDefs sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a ConditionDef,
// and returns a populated Registry. Unknown YAML fields are rejected.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid condition in %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
