package character

import "github.com/cory-johannsen/gauntlet/internal/game/ruleset"

// AddExperience adds xp and levels up as many times as the accumulated
// experience allows, carrying the remainder over each time.
//
// Postcondition: Experience < ruleset.RequiredExperience(Level); returns the
// number of levels gained.
func (c *Character) AddExperience(xp int) int {
	if xp <= 0 {
		return 0
	}
	c.Experience += xp
	gained := 0
	for c.Experience >= ruleset.RequiredExperience(c.Level) {
		c.Experience -= ruleset.RequiredExperience(c.Level)
		c.LevelUp()
		gained++
	}
	return gained
}

// LevelUp advances one level: the class gain triple is added on top of the
// current attributes, derived stats are recomputed, and health is restored.
// Experience is not changed.
func (c *Character) LevelUp() {
	gain := c.rules.Resolve(c.Class).Gain
	c.Level++
	c.Strength += gain.Strength
	c.Dexterity += gain.Dexterity
	c.Intelligence += gain.Intelligence
	c.CalculateDerivedStats()
	c.Health.Fill()
}
