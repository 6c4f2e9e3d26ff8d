// Package character defines the character aggregate: attributes, derived
// combat stats, the layered stat router, and the resource pools consumed by
// incoming damage.
package character

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/gauntlet/internal/game/combat"
	"github.com/cory-johannsen/gauntlet/internal/game/ruleset"
	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

// BaseLife is the maximum health every character has before strength.
const BaseLife = 100

// Sources for the attribute-derived increased damage entries.
const (
	SourceStrength     stats.Source = "strength"
	SourceIntelligence stats.Source = "intelligence"
)

// Pool is an integer resource with a current and maximum value.
//
// Invariant: 0 <= Current <= Max.
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

func (p *Pool) clamp() {
	if p.Max < 0 {
		p.Max = 0
	}
	if p.Current > p.Max {
		p.Current = p.Max
	}
	if p.Current < 0 {
		p.Current = 0
	}
}

// Fill sets Current to Max.
func (p *Pool) Fill() { p.Current = p.Max }

// Shield is the energy shield pool. It stays fractional until damage reaches health.
//
// Invariant: 0 <= Current <= Max.
type Shield struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

func (s *Shield) clamp() {
	if s.Max < 0 {
		s.Max = 0
	}
	if s.Current > s.Max {
		s.Current = s.Max
	}
	if s.Current < 0 {
		s.Current = 0
	}
}

// Defenses are the raw armour, evasion, and energy shield granted by items,
// before any percentage scaling.
type Defenses struct {
	Armor        float64 `json:"armor"`
	Evasion      float64 `json:"evasion"`
	EnergyShield float64 `json:"energy_shield"`
}

// Bonuses hold the flat and increased scalar modifiers routed from layers.
type Bonuses struct {
	MaxHealth             float64 `json:"max_health"`
	MaxMana               float64 `json:"max_mana"`
	MaxReliance           float64 `json:"max_reliance"`
	MaxEnergyShield       float64 `json:"max_energy_shield"`
	Accuracy              float64 `json:"accuracy"`
	IncreasedArmor        float64 `json:"increased_armor"`
	IncreasedEvasion      float64 `json:"increased_evasion"`
	IncreasedEnergyShield float64 `json:"increased_energy_shield"`
}

// Derived holds the values recomputed by CalculateDerivedStats and
// RecalculateTotals. They are outputs only; never write to them directly.
type Derived struct {
	AttackPower           int     `json:"attack_power"`
	Defense               int     `json:"defense"`
	Accuracy              float64 `json:"accuracy"`
	Armor                 float64 `json:"armor"`
	Evasion               float64 `json:"evasion"`
	MeleeIncreased        float64 `json:"melee_increased"`
	SpellIncreased        float64 `json:"spell_increased"`
	EvasionIncreased      float64 `json:"evasion_increased"`
	EnergyShieldIncreased float64 `json:"energy_shield_increased"`
	ElementalResistance   float64 `json:"elemental_resistance"`
	TotalResistance       float64 `json:"total_resistance"`
	TotalDefense          float64 `json:"total_defense"`
}

// Tuning holds the combat constants a character is created with.
type Tuning struct {
	StaggerThreshold float64
	StaggerDecay     float64
	GuardMultiplier  float64
	GuardPersistence float64
}

// DefaultTuning returns the tuning used when no configuration is supplied.
func DefaultTuning() Tuning {
	return Tuning{
		StaggerThreshold: 100,
		StaggerDecay:     3,
		GuardMultiplier:  0.5,
		GuardPersistence: 0,
	}
}

// Character is the aggregate root for one playable character.
// It is not safe for concurrent use; the owning session serialises access.
type Character struct {
	ID         uuid.UUID
	Name       string
	Class      string
	Level      int
	Experience int

	Strength     int
	Dexterity    int
	Intelligence int

	Health       Pool
	Mana         Pool
	Reliance     Pool
	EnergyShield Shield
	Guard        combat.Guard
	Stagger      combat.Stagger

	Damage      *stats.Aggregate
	Resistances stats.Resistances

	ItemBase Defenses
	Bonus    Bonuses
	Derived  Derived

	// WarrantFlat and WarrantPercent record the current warrant layer.
	// Percent values are fractions: 0.1 means 10%.
	WarrantFlat    map[string]float64
	WarrantPercent map[string]float64

	// Extra holds routed stats that have no dedicated field.
	Extra map[string]float64

	ledger map[Layer]map[string]float64
	rules  *ruleset.Registry
}

// New creates a level 1 character of classID with full resource pools.
// Unknown class IDs resolve to the neutral class. A nil rules uses the
// built-in classes.
//
// Postcondition: Returns a character whose derived stats are computed and
// whose health, energy shield, mana, and reliance are full.
func New(rules *ruleset.Registry, classID, name string, tuning Tuning) *Character {
	if rules == nil {
		rules = ruleset.NewRegistry()
	}
	c := &Character{
		ID:             uuid.New(),
		Name:           name,
		Class:          classID,
		Level:          1,
		Guard:          combat.NewGuard(tuning.GuardMultiplier, tuning.GuardPersistence),
		Stagger:        combat.NewStagger(tuning.StaggerThreshold, tuning.StaggerDecay),
		Damage:         stats.NewAggregate(),
		Resistances:    stats.Resistances{},
		WarrantFlat:    map[string]float64{},
		WarrantPercent: map[string]float64{},
		Extra:          map[string]float64{},
		ledger:         map[Layer]map[string]float64{},
		rules:          rules,
	}
	c.setAttributes(rules.AttributesFor(classID, 1))
	c.CalculateDerivedStats()
	c.Health.Fill()
	c.Mana.Fill()
	c.Reliance.Fill()
	c.EnergyShield.Current = c.EnergyShield.Max
	return c
}

// Attributes returns the current attribute triple including layer bonuses.
func (c *Character) Attributes() ruleset.Attributes {
	return ruleset.Attributes{Strength: c.Strength, Dexterity: c.Dexterity, Intelligence: c.Intelligence}
}

func (c *Character) setAttributes(a ruleset.Attributes) {
	c.Strength = a.Strength
	c.Dexterity = a.Dexterity
	c.Intelligence = a.Intelligence
}

// Rules returns the class registry the character resolves against.
func (c *Character) Rules() *ruleset.Registry { return c.rules }

// Defeated reports whether health has reached zero.
func (c *Character) Defeated() bool { return c.Health.Current <= 0 }

// Clone returns a deep copy. No map, list, or aggregate is shared with c;
// the class registry is shared because it is read-only.
func (c *Character) Clone() *Character {
	out := *c
	out.Damage = c.Damage.Clone()
	out.Resistances = c.Resistances.Clone()
	out.WarrantFlat = cloneMap(c.WarrantFlat)
	out.WarrantPercent = cloneMap(c.WarrantPercent)
	out.Extra = cloneMap(c.Extra)
	out.ledger = make(map[Layer]map[string]float64, len(c.ledger))
	for l, m := range c.ledger {
		out.ledger[l] = cloneMap(m)
	}
	return &out
}

func cloneMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
