// Package inventory models equippable items, their affixes, effigies, the ten
// equipment slots, and the flattening of everything equipped into one stat map.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Category constants for ItemDef.Category.
const (
	CategoryHelmet     = "helmet"
	CategoryBodyArmour = "body_armour"
	CategoryGloves     = "gloves"
	CategoryBoots      = "boots"
	CategoryBelt       = "belt"
	CategoryAmulet     = "amulet"
	CategoryRing       = "ring"
	CategoryWeapon     = "weapon"
	CategoryShield     = "shield"
)

// Handedness constants for weapon ItemDefs.
const (
	OneHanded = "one_handed"
	TwoHanded = "two_handed"
)

// MaxAffixesPerKind caps the prefixes and the suffixes an item may carry.
const MaxAffixesPerKind = 3

// ItemDef defines the static properties of an equippable item loaded from YAML.
type ItemDef struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description"`
	Category     string             `yaml:"category"`
	Handedness   string             `yaml:"handedness"`
	Armor        float64            `yaml:"armor"`
	Evasion      float64            `yaml:"evasion"`
	EnergyShield float64            `yaml:"energy_shield"`
	Implicit     map[string]float64 `yaml:"implicit"`
}

// IsTwoHanded reports whether the item occupies both hands.
func (d *ItemDef) IsTwoHanded() bool {
	return d.Category == CategoryWeapon && d.Handedness == TwoHanded
}

// IsWeapon reports whether the item is a weapon.
func (d *ItemDef) IsWeapon() bool { return d.Category == CategoryWeapon }

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if _, ok := categorySlots[d.Category]; !ok {
		errs = append(errs, fmt.Errorf("Category %q is not a known item category", d.Category))
	}
	if d.Category == CategoryWeapon && d.Handedness != OneHanded && d.Handedness != TwoHanded {
		errs = append(errs, fmt.Errorf("Handedness must be one_handed or two_handed for weapons; got %q", d.Handedness))
	}
	if d.Category != CategoryWeapon && d.Handedness != "" {
		errs = append(errs, errors.New("Handedness is only valid for weapons"))
	}
	if d.Armor < 0 || d.Evasion < 0 || d.EnergyShield < 0 {
		errs = append(errs, errors.New("base defenses must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// Affix kinds.
const (
	AffixPrefix = "prefix"
	AffixSuffix = "suffix"
)

// AffixDef is a named modifier group rolled onto items and effigies.
type AffixDef struct {
	ID    string             `yaml:"id"`
	Name  string             `yaml:"name"`
	Kind  string             `yaml:"kind"`
	Stats map[string]float64 `yaml:"stats"`
}

// Validate checks that the AffixDef satisfies its invariants.
func (a *AffixDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if a.Kind != AffixPrefix && a.Kind != AffixSuffix {
		errs = append(errs, fmt.Errorf("Kind must be prefix or suffix; got %q", a.Kind))
	}
	if len(a.Stats) == 0 {
		errs = append(errs, errors.New("Stats must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("affix validation failed: %v", errs)
	}
	return nil
}

// EffigyDef is a secondary accessory carrying an implicit stat block.
type EffigyDef struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Implicit    map[string]float64 `yaml:"implicit"`
}

// Validate checks that the EffigyDef satisfies its invariants.
func (e *EffigyDef) Validate() error {
	if e.ID == "" || e.Name == "" {
		return errors.New("effigy validation failed: ID and Name must not be empty")
	}
	return nil
}

// Affixes are the rolled prefix and suffix groups of an item or effigy.
type Affixes struct {
	Prefixes []*AffixDef
	Suffixes []*AffixDef
}

// IDs returns the prefix and suffix IDs in order.
func (a Affixes) IDs() (prefixes, suffixes []string) {
	for _, p := range a.Prefixes {
		prefixes = append(prefixes, p.ID)
	}
	for _, s := range a.Suffixes {
		suffixes = append(suffixes, s.ID)
	}
	return prefixes, suffixes
}

func (a Affixes) addTo(out map[string]float64) {
	for _, p := range a.Prefixes {
		addStats(out, p.Stats)
	}
	for _, s := range a.Suffixes {
		addStats(out, s.Stats)
	}
}

// Item is one concrete equippable instance.
type Item struct {
	InstanceID uuid.UUID
	Def        *ItemDef
	Affixes
}

// Stats returns the item's base defenses, implicit, and affix stats merged
// additively. Base defenses use the router names Armor, Evasion, and EnergyShield.
//
// Postcondition: Returns a non-nil map.
func (i *Item) Stats() map[string]float64 {
	out := make(map[string]float64)
	if i == nil || i.Def == nil {
		return out
	}
	if i.Def.Armor != 0 {
		out["Armor"] += i.Def.Armor
	}
	if i.Def.Evasion != 0 {
		out["Evasion"] += i.Def.Evasion
	}
	if i.Def.EnergyShield != 0 {
		out["EnergyShield"] += i.Def.EnergyShield
	}
	addStats(out, i.Def.Implicit)
	i.Affixes.addTo(out)
	return out
}

// Effigy is one concrete effigy instance.
type Effigy struct {
	InstanceID uuid.UUID
	Def        *EffigyDef
	Affixes
}

// Stats returns the effigy's implicit and affix stats merged additively.
//
// Postcondition: Returns a non-nil map.
func (e *Effigy) Stats() map[string]float64 {
	out := make(map[string]float64)
	if e == nil || e.Def == nil {
		return out
	}
	addStats(out, e.Def.Implicit)
	e.Affixes.addTo(out)
	return out
}

func addStats(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] += v
	}
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// ItemDef, validates it, and returns the collected slice sorted by ID.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	return loadDir(dir, "LoadItems", func(d *ItemDef) (string, error) { return d.ID, d.Validate() })
}

// LoadAffixes reads every affix definition in dir.
func LoadAffixes(dir string) ([]*AffixDef, error) {
	return loadDir(dir, "LoadAffixes", func(a *AffixDef) (string, error) { return a.ID, a.Validate() })
}

// LoadEffigies reads every effigy definition in dir.
func LoadEffigies(dir string) ([]*EffigyDef, error) {
	return loadDir(dir, "LoadEffigies", func(e *EffigyDef) (string, error) { return e.ID, e.Validate() })
}

func loadDir[T any](dir, op string, check func(*T) (string, error)) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read directory %q: %w", op, dir, err)
	}
	type keyed struct {
		id string
		v  *T
	}
	var found []keyed
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: cannot read file %q: %w", op, path, err)
		}
		var v T
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s: cannot parse file %q: %w", op, path, err)
		}
		id, err := check(&v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid definition in %q: %w", op, path, err)
		}
		found = append(found, keyed{id: id, v: &v})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].id < found[j].id })
	out := make([]*T, len(found))
	for i, k := range found {
		out[i] = k.v
	}
	return out, nil
}
