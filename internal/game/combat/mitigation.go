// Package combat implements damage mitigation, the layered guard → energy
// shield → health pipeline, the stagger meter, and guard persistence.
package combat

import (
	"math"

	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

const (
	// MinPhysicalDamage is the floor for physical damage after flat reduction.
	MinPhysicalDamage = 1.0
	// MinDamageTakenFraction is the smallest fraction of non-physical damage
	// that resistance can leave.
	MinDamageTakenFraction = 0.1
	// BolsterReductionPerStack is the damage reduction granted per bolster stack.
	BolsterReductionPerStack = 0.02
	// BolsterMaxStacks caps the stacks counted toward bolster reduction.
	BolsterMaxStacks = 10
	// BolsterStatusID is the status effect ID read for bolster stacks.
	BolsterStatusID = "bolster"
)

// StatusEffects exposes the status-effect state the pipeline reads. A nil
// StatusEffects is valid and means no extra modifier.
type StatusEffects interface {
	// Stacks returns the stack count for a status ID, or 0 when absent.
	Stacks(id string) int
	// DamageTakenMultiplier returns the global damage-taken multiplier.
	DamageTakenMultiplier() float64
}

// Resist applies type-dependent resistance to raw damage.
// Physical damage is reduced flat and floored at MinPhysicalDamage; every
// other type is reduced by resistance percent with at least
// MinDamageTakenFraction of the damage always taken.
//
// Postcondition: Returns >= MinPhysicalDamage for physical hits.
func Resist(raw float64, dt stats.DamageType, resistance float64) float64 {
	if dt == stats.Physical {
		return math.Max(MinPhysicalDamage, raw-resistance)
	}
	reduction := 1 - resistance/100
	return raw * math.Max(MinDamageTakenFraction, reduction)
}

// StatusMultiplier returns the combined damage-taken factor from fx: the
// global multiplier (floored at 0) times the capped bolster reduction.
//
// Postcondition: Returns 1 when fx is nil; otherwise returns >= 0.
func StatusMultiplier(fx StatusEffects) float64 {
	if fx == nil {
		return 1
	}
	mult := fx.DamageTakenMultiplier()
	if mult < 0 {
		mult = 0
	}
	stacks := fx.Stacks(BolsterStatusID)
	if stacks > BolsterMaxStacks {
		stacks = BolsterMaxStacks
	}
	if stacks < 0 {
		stacks = 0
	}
	return mult * (1 - BolsterReductionPerStack*float64(stacks))
}

// Mitigate runs resistance and status mitigation for one hit.
func Mitigate(raw float64, dt stats.DamageType, resistance float64, fx StatusEffects) float64 {
	return Resist(raw, dt, resistance) * StatusMultiplier(fx)
}

// Pools is the defensive state consumed by a hit.
type Pools struct {
	Guard        float64
	EnergyShield float64
	Health       int
}

// Absorption records how a hit was distributed across the pools.
type Absorption struct {
	Before         Pools
	After          Pools
	GuardSpent     float64
	ShieldSpent    float64
	HealthLost     int
	Defeated       bool
	IncomingDamage float64
}

// Absorb consumes damage from guard, then energy shield, then health. Guard and
// shield arithmetic stays in floating point; the remainder is rounded to the
// nearest integer only when it reaches health, which is floored at 0.
//
// Postcondition: every pool in After is >= 0; Defeated iff After.Health == 0.
func Absorb(p Pools, damage float64) Absorption {
	out := Absorption{Before: p, IncomingDamage: damage}
	remaining := math.Max(0, damage)

	p.Guard, out.GuardSpent, remaining = drain(p.Guard, remaining)
	p.EnergyShield, out.ShieldSpent, remaining = drain(p.EnergyShield, remaining)

	lost := int(math.Round(remaining))
	if lost > p.Health {
		lost = p.Health
	}
	if lost < 0 {
		lost = 0
	}
	p.Health -= lost
	out.HealthLost = lost
	out.After = p
	out.Defeated = p.Health <= 0
	return out
}

// drain removes up to damage from pool and returns the new pool, the amount
// spent, and the damage still remaining.
func drain(pool, damage float64) (after, spent, remaining float64) {
	if pool <= 0 {
		return 0, 0, damage
	}
	if pool >= damage {
		return pool - damage, damage, 0
	}
	return 0, pool, damage - pool
}
