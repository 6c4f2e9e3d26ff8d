package character

import (
	"math"

	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

// Warrant percent keys read by CalculateDerivedStats.
const (
	PercentMaxHealth    = "MaxHealth"
	PercentArmor        = "Armor"
	PercentEvasion      = "Evasion"
	PercentEnergyShield = "EnergyShield"
)

// CalculateDerivedStats recomputes every attribute-derived value from the
// current attributes, item base defenses, bonuses, and warrant percentages.
// All attribute breakpoints use integer division. Crit chance and crit
// multiplier are left untouched.
//
// Postcondition: the strength and intelligence increased entries exist exactly
// once; every pool satisfies 0 <= Current <= Max; Guard.Max == Health.Max × Guard.MaxMultiplier.
func (c *Character) CalculateDerivedStats() {
	str, dex, intel := c.Strength, c.Dexterity, c.Intelligence

	life := float64(BaseLife+str/2+5*(str/10)) + c.Bonus.MaxHealth
	c.Health.Max = int(math.Round(life * (1 + c.WarrantPercent[PercentMaxHealth])))
	if c.Health.Max < 1 {
		c.Health.Max = 1
	}

	c.Derived.MeleeIncreased = breakpointIncrease(str)
	c.Damage.SetIncreased(stats.Attack, stats.Untyped, SourceStrength, c.Derived.MeleeIncreased)

	c.Derived.Accuracy = float64(dex*2+20*(dex/10)) + c.Bonus.Accuracy
	c.Derived.EvasionIncreased = breakpointIncrease(dex)

	c.Derived.SpellIncreased = breakpointIncrease(intel)
	c.Damage.SetIncreased(stats.Spell, stats.Untyped, SourceIntelligence, c.Derived.SpellIncreased)
	c.Derived.EnergyShieldIncreased = 0.01 * float64(intel/3)

	c.Derived.AttackPower = str*2 + dex
	c.Derived.Defense = dex + intel

	c.Derived.Armor = c.ItemBase.Armor * (1 + c.Bonus.IncreasedArmor + c.WarrantPercent[PercentArmor])
	c.Derived.Evasion = c.ItemBase.Evasion * (1 + c.Derived.EvasionIncreased + c.Bonus.IncreasedEvasion + c.WarrantPercent[PercentEvasion])
	c.EnergyShield.Max = c.ItemBase.EnergyShield*(1+c.Derived.EnergyShieldIncreased+c.Bonus.IncreasedEnergyShield+c.WarrantPercent[PercentEnergyShield]) +
		c.Bonus.MaxEnergyShield

	class := c.rules.Resolve(c.Class)
	c.Mana.Max = class.BaseMana + int(math.Round(c.Bonus.MaxMana))
	c.Reliance.Max = class.BaseReliance + int(math.Round(c.Bonus.MaxReliance))

	c.Guard.Resize(float64(c.Health.Max))
	c.Health.clamp()
	c.Mana.clamp()
	c.Reliance.clamp()
	c.EnergyShield.clamp()

	c.RecalculateTotals()
}

// RecalculateTotals recomputes the elemental resistance sum, total
// resistance, and total defense.
func (c *Character) RecalculateTotals() {
	c.Derived.ElementalResistance = c.Resistances.Elemental()
	c.Derived.TotalResistance = c.Resistances.Total()
	c.Derived.TotalDefense = float64(c.Derived.Defense) + c.Derived.Armor
}

// breakpointIncrease returns 1% per 5 points plus 2% per 10 points.
func breakpointIncrease(v int) float64 {
	return 0.01*float64(v/5) + 0.02*float64(v/10)
}
