package inventory

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Registry holds all loaded item, affix, and effigy definitions indexed by ID.
type Registry struct {
	items    map[string]*ItemDef
	affixes  map[string]*AffixDef
	effigies map[string]*EffigyDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		items:    make(map[string]*ItemDef),
		affixes:  make(map[string]*AffixDef),
		effigies: make(map[string]*EffigyDef),
	}
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// RegisterAffix adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Affix(a.ID) returns (a, true); returns error if a.ID already registered.
func (r *Registry) RegisterAffix(a *AffixDef) error {
	if _, exists := r.affixes[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterAffix: affix ID %q already registered", a.ID)
	}
	r.affixes[a.ID] = a
	return nil
}

// RegisterEffigy adds e to the registry.
//
// Precondition:  e must not be nil.
// Postcondition: Effigy(e.ID) returns (e, true); returns error if e.ID already registered.
func (r *Registry) RegisterEffigy(e *EffigyDef) error {
	if _, exists := r.effigies[e.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterEffigy: effigy ID %q already registered", e.ID)
	}
	r.effigies[e.ID] = e
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// Affix returns the AffixDef for the given id and whether it was found.
func (r *Registry) Affix(id string) (*AffixDef, bool) {
	a, ok := r.affixes[id]
	return a, ok
}

// Effigy returns the EffigyDef for the given id and whether it was found.
func (r *Registry) Effigy(id string) (*EffigyDef, bool) {
	e, ok := r.effigies[id]
	return e, ok
}

// AllItems returns all registered ItemDefs sorted by ID.
func (r *Registry) AllItems() []*ItemDef {
	out := make([]*ItemDef, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NewItem creates a fresh item instance of defID carrying the named affixes.
//
// Postcondition: Returns an item with a new random InstanceID, or an error when
// any ID is unknown, an affix is of the wrong kind, or too many are given.
func (r *Registry) NewItem(defID string, prefixIDs, suffixIDs []string) (*Item, error) {
	def, ok := r.items[defID]
	if !ok {
		return nil, fmt.Errorf("inventory: unknown item %q", defID)
	}
	affixes, err := r.resolveAffixes(prefixIDs, suffixIDs)
	if err != nil {
		return nil, fmt.Errorf("inventory: item %q: %w", defID, err)
	}
	return &Item{InstanceID: uuid.New(), Def: def, Affixes: affixes}, nil
}

// NewEffigy creates a fresh effigy instance of defID carrying the named affixes.
func (r *Registry) NewEffigy(defID string, prefixIDs, suffixIDs []string) (*Effigy, error) {
	def, ok := r.effigies[defID]
	if !ok {
		return nil, fmt.Errorf("inventory: unknown effigy %q", defID)
	}
	affixes, err := r.resolveAffixes(prefixIDs, suffixIDs)
	if err != nil {
		return nil, fmt.Errorf("inventory: effigy %q: %w", defID, err)
	}
	return &Effigy{InstanceID: uuid.New(), Def: def, Affixes: affixes}, nil
}

func (r *Registry) resolveAffixes(prefixIDs, suffixIDs []string) (Affixes, error) {
	var out Affixes
	if len(prefixIDs) > MaxAffixesPerKind || len(suffixIDs) > MaxAffixesPerKind {
		return out, fmt.Errorf("at most %d prefixes and %d suffixes allowed", MaxAffixesPerKind, MaxAffixesPerKind)
	}
	for _, id := range prefixIDs {
		a, err := r.affixOfKind(id, AffixPrefix)
		if err != nil {
			return out, err
		}
		out.Prefixes = append(out.Prefixes, a)
	}
	for _, id := range suffixIDs {
		a, err := r.affixOfKind(id, AffixSuffix)
		if err != nil {
			return out, err
		}
		out.Suffixes = append(out.Suffixes, a)
	}
	return out, nil
}

func (r *Registry) affixOfKind(id, kind string) (*AffixDef, error) {
	a, ok := r.affixes[id]
	if !ok {
		return nil, fmt.Errorf("unknown affix %q", id)
	}
	if a.Kind != kind {
		return nil, fmt.Errorf("affix %q is a %s, not a %s", id, a.Kind, kind)
	}
	return a, nil
}
