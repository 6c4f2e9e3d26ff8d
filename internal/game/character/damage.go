package character

import (
	"github.com/cory-johannsen/gauntlet/internal/game/combat"
	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

// DamageResult describes one resolved hit.
type DamageResult struct {
	Type       stats.DamageType
	Raw        float64
	Resistance float64
	// Mitigated is the damage left after resistance and status effects.
	Mitigated float64
	combat.Absorption
}

// TakeDamage resolves one hit of raw damage of type dt: resistance, then the
// status multipliers from fx (nil means none), then guard, energy shield, and
// health in that order. Non-positive raw damage is not a hit.
//
// Postcondition: every pool satisfies 0 <= Current <= Max; the result's
// Defeated is true iff health reached zero.
func (c *Character) TakeDamage(raw float64, dt stats.DamageType, fx combat.StatusEffects) DamageResult {
	res := DamageResult{Type: dt, Raw: raw, Resistance: c.Resistances.Get(dt)}
	if raw <= 0 {
		p := c.pools()
		res.Absorption = combat.Absorption{Before: p, After: p, Defeated: c.Defeated()}
		return res
	}
	res.Mitigated = combat.Mitigate(raw, dt, res.Resistance, fx)
	res.Absorption = combat.Absorb(c.pools(), res.Mitigated)
	c.Guard.Current = res.After.Guard
	c.EnergyShield.Current = res.After.EnergyShield
	c.Health.Current = res.After.Health
	return res
}

// PreviewDamage returns what TakeDamage would do without mutating c.
func (c *Character) PreviewDamage(raw float64, dt stats.DamageType, fx combat.StatusEffects) DamageResult {
	return c.Clone().TakeDamage(raw, dt, fx)
}

func (c *Character) pools() combat.Pools {
	return combat.Pools{Guard: c.Guard.Current, EnergyShield: c.EnergyShield.Current, Health: c.Health.Current}
}

// Heal restores up to amount health. Non-positive amounts are ignored.
func (c *Character) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.Health.Current += amount
	c.Health.clamp()
}

// RestoreEnergyShield restores up to amount energy shield.
func (c *Character) RestoreEnergyShield(amount float64) {
	if amount <= 0 {
		return
	}
	c.EnergyShield.Current += amount
	c.EnergyShield.clamp()
}

// RestoreMana restores up to amount mana.
func (c *Character) RestoreMana(amount int) {
	if amount <= 0 {
		return
	}
	c.Mana.Current += amount
	c.Mana.clamp()
}

// RestoreReliance restores up to amount reliance.
func (c *Character) RestoreReliance(amount int) {
	if amount <= 0 {
		return
	}
	c.Reliance.Current += amount
	c.Reliance.clamp()
}

// AddGuard grants guard, capped at the guard maximum.
func (c *Character) AddGuard(amount float64) {
	c.Guard.Add(amount)
}

// UseMana spends cost mana.
//
// Postcondition: Returns false and leaves mana unchanged when cost is negative
// or exceeds the current pool.
func (c *Character) UseMana(cost int) bool {
	return spend(&c.Mana, cost)
}

// UseReliance spends cost reliance under the same rules as UseMana.
func (c *Character) UseReliance(cost int) bool {
	return spend(&c.Reliance, cost)
}

func spend(p *Pool, cost int) bool {
	if cost < 0 || cost > p.Current {
		return false
	}
	p.Current -= cost
	return true
}
