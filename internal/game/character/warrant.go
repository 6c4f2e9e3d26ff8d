package character

import "github.com/cory-johannsen/gauntlet/internal/game/ruleset"

// ApplyWarrant installs a warrant contribution: flat values are routed
// through the warrant layer, percent values are stored for
// CalculateDerivedStats, and attribute bonuses are routed and tracked so they
// can be subtracted exactly. Derived stats are not recomputed.
//
// Precondition: the warrant layer has been cleared with ClearWarrant.
func (c *Character) ApplyWarrant(flat, percent map[string]float64, attrs ruleset.Attributes) {
	c.WarrantFlat = cloneMap(flat)
	c.WarrantPercent = cloneMap(percent)
	c.applyStats(LayerWarrant, flat)
	c.applyStats(LayerWarrant, map[string]float64{
		"Strength":     float64(attrs.Strength),
		"Dexterity":    float64(attrs.Dexterity),
		"Intelligence": float64(attrs.Intelligence),
	})
}

// ClearWarrant removes the warrant layer. When the layer has no tracked
// attribute bonuses, as after a fresh load, attributes are rederived from the
// class and level plus the attribute bonuses the other layers still hold.
// Derived stats are not recomputed.
//
// Postcondition: WarrantFlat and WarrantPercent are empty; no warrant entry remains.
func (c *Character) ClearWarrant() {
	tracked := c.layerHasAttributes(LayerWarrant)
	c.clearLayer(LayerWarrant)
	if !tracked {
		c.rebaseAttributes()
	}
	c.WarrantFlat = map[string]float64{}
	c.WarrantPercent = map[string]float64{}
}

// RefreshLayer clears layer and applies values in its place without
// recomputing derived stats.
func (c *Character) RefreshLayer(layer Layer, values map[string]float64) {
	c.clearLayer(layer)
	c.applyStats(layer, values)
}
