// Package stats defines damage types, resistances, and the modifier aggregate
// that composes added, increased, and more damage modifiers.
package stats

import "strings"

// DamageType identifies a damage category.
type DamageType int

const (
	// Untyped entries apply to every damage type of their domain.
	Untyped DamageType = iota
	Physical
	Fire
	Cold
	Lightning
	Chaos
)

// DamageTypes lists every concrete damage type in display order.
var DamageTypes = []DamageType{Physical, Fire, Cold, Lightning, Chaos}

// ElementalTypes lists the damage types counted toward elemental totals.
var ElementalTypes = []DamageType{Fire, Cold, Lightning}

var damageTypeNames = map[DamageType]string{
	Untyped:   "Untyped",
	Physical:  "Physical",
	Fire:      "Fire",
	Cold:      "Cold",
	Lightning: "Lightning",
	Chaos:     "Chaos",
}

// String returns the capitalised name used in stat keys, e.g. "Fire".
func (d DamageType) String() string {
	if n, ok := damageTypeNames[d]; ok {
		return n
	}
	return "Unknown"
}

// IsElemental reports whether d is fire, cold, or lightning.
func (d DamageType) IsElemental() bool {
	return d == Fire || d == Cold || d == Lightning
}

// ParseDamageType resolves a damage type name case-insensitively.
//
// Postcondition: ok is false for unknown names and for "untyped".
func ParseDamageType(name string) (DamageType, bool) {
	for _, dt := range DamageTypes {
		if strings.EqualFold(dt.String(), name) {
			return dt, true
		}
	}
	return Untyped, false
}

// Domain separates attack modifiers from spell modifiers.
type Domain int

const (
	Attack Domain = iota
	Spell
)

// String returns "Attack" or "Spell".
func (d Domain) String() string {
	if d == Spell {
		return "Spell"
	}
	return "Attack"
}

// Resistances holds per-type resistance values. Physical resistance is a flat
// reduction; every other type is a percentage.
type Resistances map[DamageType]float64

// Get returns the resistance for dt, or 0 when none is recorded.
func (r Resistances) Get(dt DamageType) float64 {
	return r[dt]
}

// Elemental returns the sum of fire, cold, and lightning resistance.
func (r Resistances) Elemental() float64 {
	total := 0.0
	for _, dt := range ElementalTypes {
		total += r[dt]
	}
	return total
}

// Total returns the sum of resistance across every damage type.
func (r Resistances) Total() float64 {
	total := 0.0
	for _, dt := range DamageTypes {
		total += r[dt]
	}
	return total
}

// Clone returns an independent copy of r.
func (r Resistances) Clone() Resistances {
	out := make(Resistances, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
