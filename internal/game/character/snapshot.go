package character

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/gauntlet/internal/game/combat"
	"github.com/cory-johannsen/gauntlet/internal/game/ruleset"
	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

// ModifierRecord is one serialised aggregate entry.
type ModifierRecord struct {
	Domain stats.Domain     `json:"domain"`
	Type   stats.DamageType `json:"type"`
	Kind   stats.Kind       `json:"kind"`
	Source stats.Source     `json:"source"`
	Value  float64          `json:"value"`
}

// GuardState is the serialised guard pool.
type GuardState struct {
	Current       float64 `json:"current"`
	MaxMultiplier float64 `json:"max_multiplier"`
	// Persistence is the unclamped requested fraction.
	Persistence float64 `json:"persistence"`
}

// Snapshot is the flat, JSON-serialisable form of a Character holding every
// field needed for a lossless round trip. Maximum values are recomputed on
// restore.
type Snapshot struct {
	ID             uuid.UUID                    `json:"id"`
	Name           string                       `json:"name"`
	Class          string                       `json:"class"`
	Level          int                          `json:"level"`
	Experience     int                          `json:"experience"`
	Attributes     ruleset.Attributes           `json:"attributes"`
	Health         int                          `json:"health"`
	Mana           int                          `json:"mana"`
	Reliance       int                          `json:"reliance"`
	EnergyShield   float64                      `json:"energy_shield"`
	Guard          GuardState                   `json:"guard"`
	Stagger        combat.Stagger               `json:"stagger"`
	CritChance     float64                      `json:"crit_chance"`
	CritMultiplier float64                      `json:"crit_multiplier"`
	Modifiers      []ModifierRecord             `json:"modifiers"`
	Resistances    map[string]float64           `json:"resistances"`
	ItemBase       Defenses                     `json:"item_base"`
	Bonus          Bonuses                      `json:"bonus"`
	WarrantFlat    map[string]float64           `json:"warrant_flat"`
	WarrantPercent map[string]float64           `json:"warrant_percent"`
	Extra          map[string]float64           `json:"extra"`
	Layers         map[Layer]map[string]float64 `json:"layers"`
}

// Snapshot captures c. The result shares no maps with c.
func (c *Character) Snapshot() Snapshot {
	s := Snapshot{
		ID:             c.ID,
		Name:           c.Name,
		Class:          c.Class,
		Level:          c.Level,
		Experience:     c.Experience,
		Attributes:     c.Attributes(),
		Health:         c.Health.Current,
		Mana:           c.Mana.Current,
		Reliance:       c.Reliance.Current,
		EnergyShield:   c.EnergyShield.Current,
		Guard:          GuardState{Current: c.Guard.Current, MaxMultiplier: c.Guard.MaxMultiplier, Persistence: c.Guard.RequestedPersistence()},
		Stagger:        c.Stagger,
		CritChance:     c.Damage.CritChance,
		CritMultiplier: c.Damage.CritMultiplier,
		Resistances:    make(map[string]float64, len(c.Resistances)),
		ItemBase:       c.ItemBase,
		Bonus:          c.Bonus,
		WarrantFlat:    cloneMap(c.WarrantFlat),
		WarrantPercent: cloneMap(c.WarrantPercent),
		Extra:          cloneMap(c.Extra),
		Layers:         make(map[Layer]map[string]float64, len(c.ledger)),
	}
	for dt, v := range c.Resistances {
		s.Resistances[dt.String()] = v
	}
	for l, m := range c.ledger {
		s.Layers[l] = cloneMap(m)
	}
	for _, k := range c.Damage.Keys() {
		m := c.Damage.Modifiers(k.Domain, k.Type)
		s.Modifiers = appendRecords(s.Modifiers, k, stats.KindAdded, m.Added)
		s.Modifiers = appendRecords(s.Modifiers, k, stats.KindIncreased, m.Increased)
		s.Modifiers = appendRecords(s.Modifiers, k, stats.KindMore, m.More)
	}
	return s
}

func appendRecords(out []ModifierRecord, k stats.Key, kind stats.Kind, es []stats.Entry) []ModifierRecord {
	for _, e := range es {
		out = append(out, ModifierRecord{Domain: k.Domain, Type: k.Type, Kind: kind, Source: e.Source, Value: e.Value})
	}
	return out
}

// Restore rebuilds a Character from s against rules (nil uses the built-in
// classes) and recomputes derived stats.
//
// Postcondition: Returns a character whose Snapshot() equals s, or an error
// when s names an unknown resistance type.
func Restore(rules *ruleset.Registry, s Snapshot) (*Character, error) {
	if rules == nil {
		rules = ruleset.NewRegistry()
	}
	c := &Character{
		ID:             s.ID,
		Name:           s.Name,
		Class:          s.Class,
		Level:          s.Level,
		Experience:     s.Experience,
		Guard:          combat.NewGuard(s.Guard.MaxMultiplier, s.Guard.Persistence),
		Stagger:        s.Stagger,
		Damage:         stats.NewAggregate(),
		Resistances:    make(stats.Resistances, len(s.Resistances)),
		ItemBase:       s.ItemBase,
		Bonus:          s.Bonus,
		WarrantFlat:    cloneMap(s.WarrantFlat),
		WarrantPercent: cloneMap(s.WarrantPercent),
		Extra:          cloneMap(s.Extra),
		ledger:         make(map[Layer]map[string]float64, len(s.Layers)),
		rules:          rules,
	}
	if c.Level < 1 {
		c.Level = 1
	}
	c.setAttributes(s.Attributes)
	for name, v := range s.Resistances {
		dt, ok := stats.ParseDamageType(name)
		if !ok {
			return nil, fmt.Errorf("restoring character %s: unknown resistance type %q", s.ID, name)
		}
		c.Resistances[dt] = v
	}
	for l, m := range s.Layers {
		c.ledger[l] = cloneMap(m)
	}
	c.Damage.CritChance = s.CritChance
	c.Damage.CritMultiplier = s.CritMultiplier
	for _, r := range s.Modifiers {
		c.Damage.Append(r.Kind, r.Domain, r.Type, r.Source, r.Value)
	}
	c.Health.Current = s.Health
	c.Mana.Current = s.Mana
	c.Reliance.Current = s.Reliance
	c.EnergyShield.Current = s.EnergyShield
	c.CalculateDerivedStats()
	c.Guard.Current = s.Guard.Current
	c.Guard.Resize(float64(c.Health.Max))
	return c, nil
}
