package character

import (
	"math"
	"sort"

	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

// Layer names an exactly removable source of applied stats.
type Layer string

// Known layers. Any other non-empty name is also accepted.
const (
	LayerEquipment Layer = "equipment"
	LayerWarrant   Layer = "warrant"
	LayerAura      Layer = "aura"
	LayerBuff      Layer = "buff"
)

// SourceManual tags aggregate entries written by SetStatValue.
const SourceManual stats.Source = "manual"

// statAccessor binds a stat name either to a scalar field (get/set) or to one
// modifier list of the damage aggregate (kind/domain/damage). For clamped
// scalars get/set work on the unclamped value and read returns the effective
// one, so layers cleared in any order restore the same sum.
type statAccessor struct {
	get  func(c *Character) float64
	set  func(c *Character, v float64)
	read func(c *Character) float64

	list   bool
	kind   stats.Kind
	domain stats.Domain
	damage stats.DamageType
}

var attributeStats = map[string]bool{
	"Strength":     true,
	"Dexterity":    true,
	"Intelligence": true,
}

var accessors = buildAccessors()

func scalar(get func(c *Character) float64, set func(c *Character, v float64)) statAccessor {
	return statAccessor{get: get, set: set}
}

func floatField(f func(c *Character) *float64) statAccessor {
	return scalar(
		func(c *Character) float64 { return *f(c) },
		func(c *Character, v float64) { *f(c) = v },
	)
}

func intField(f func(c *Character) *int) statAccessor {
	return scalar(
		func(c *Character) float64 { return float64(*f(c)) },
		func(c *Character, v float64) { *f(c) = int(math.Round(v)) },
	)
}

func listStat(k stats.Kind, d stats.Domain, t stats.DamageType) statAccessor {
	return statAccessor{list: true, kind: k, domain: d, damage: t}
}

func buildAccessors() map[string]statAccessor {
	m := map[string]statAccessor{
		"Strength":              intField(func(c *Character) *int { return &c.Strength }),
		"Dexterity":             intField(func(c *Character) *int { return &c.Dexterity }),
		"Intelligence":          intField(func(c *Character) *int { return &c.Intelligence }),
		"MaxHealth":             floatField(func(c *Character) *float64 { return &c.Bonus.MaxHealth }),
		"MaxMana":               floatField(func(c *Character) *float64 { return &c.Bonus.MaxMana }),
		"MaxReliance":           floatField(func(c *Character) *float64 { return &c.Bonus.MaxReliance }),
		"MaxEnergyShield":       floatField(func(c *Character) *float64 { return &c.Bonus.MaxEnergyShield }),
		"Accuracy":              floatField(func(c *Character) *float64 { return &c.Bonus.Accuracy }),
		"IncreasedArmor":        floatField(func(c *Character) *float64 { return &c.Bonus.IncreasedArmor }),
		"IncreasedEvasion":      floatField(func(c *Character) *float64 { return &c.Bonus.IncreasedEvasion }),
		"IncreasedEnergyShield": floatField(func(c *Character) *float64 { return &c.Bonus.IncreasedEnergyShield }),
		"Armor":                 floatField(func(c *Character) *float64 { return &c.ItemBase.Armor }),
		"Evasion":               floatField(func(c *Character) *float64 { return &c.ItemBase.Evasion }),
		"EnergyShield":          floatField(func(c *Character) *float64 { return &c.ItemBase.EnergyShield }),
		"CritChance":            floatField(func(c *Character) *float64 { return &c.Damage.CritChance }),
		"CritMultiplier":        floatField(func(c *Character) *float64 { return &c.Damage.CritMultiplier }),
		"GuardMultiplier":       floatField(func(c *Character) *float64 { return &c.Guard.MaxMultiplier }),
		"StaggerThreshold":      floatField(func(c *Character) *float64 { return &c.Stagger.Threshold }),
		"GuardPersistence": {
			get:  func(c *Character) float64 { return c.Guard.RequestedPersistence() },
			set:  func(c *Character, v float64) { c.Guard.SetPersistence(v) },
			read: func(c *Character) float64 { return c.Guard.Persistence() },
		},

		"IncreasedAttackDamage": listStat(stats.KindIncreased, stats.Attack, stats.Untyped),
		"MoreAttackDamage":      listStat(stats.KindMore, stats.Attack, stats.Untyped),
		"IncreasedSpellDamage":  listStat(stats.KindIncreased, stats.Spell, stats.Untyped),
		"MoreSpellDamage":       listStat(stats.KindMore, stats.Spell, stats.Untyped),
	}
	for _, dt := range stats.DamageTypes {
		dt := dt
		name := dt.String()
		m[name+"Resistance"] = scalar(
			func(c *Character) float64 { return c.Resistances.Get(dt) },
			func(c *Character, v float64) {
				if v == 0 {
					delete(c.Resistances, dt)
					return
				}
				c.Resistances[dt] = v
			},
		)
		m["Added"+name+"Damage"] = listStat(stats.KindAdded, stats.Attack, dt)
		m["Increased"+name+"Damage"] = listStat(stats.KindIncreased, stats.Attack, dt)
		m["More"+name+"Damage"] = listStat(stats.KindMore, stats.Attack, dt)
		m["Added"+name+"SpellDamage"] = listStat(stats.KindAdded, stats.Spell, dt)
		m["Increased"+name+"SpellDamage"] = listStat(stats.KindIncreased, stats.Spell, dt)
		m["More"+name+"SpellDamage"] = listStat(stats.KindMore, stats.Spell, dt)
	}
	return m
}

// KnownStat reports whether name has a dedicated field or aggregate list.
func KnownStat(name string) bool {
	_, ok := accessors[name]
	return ok
}

// ApplyStat adds value to the stat called name on behalf of layer. Scalar
// stats accumulate into their field, damage stats append an entry tagged with
// the layer, and unknown names accumulate into Extra. Derived stats are not
// recomputed; call CalculateDerivedStats or use ApplyStats.
//
// Precondition: layer must be non-empty.
// Postcondition: ClearLayer(layer) reverses the application.
func (c *Character) ApplyStat(layer Layer, name string, value float64) {
	led := c.layerLedger(layer)
	acc, ok := accessors[name]
	switch {
	case !ok:
		c.Extra[name] += value
		led[name] += value
	case acc.list:
		c.Damage.Append(acc.kind, acc.domain, acc.damage, stats.Source(layer), value)
		led[name] += value
	default:
		before := acc.get(c)
		acc.set(c, before+value)
		led[name] += acc.get(c) - before
	}
}

// ApplyStats applies every entry of values in sorted name order, then
// recomputes derived stats and totals.
func (c *Character) ApplyStats(layer Layer, values map[string]float64) {
	c.applyStats(layer, values)
	c.CalculateDerivedStats()
}

func (c *Character) applyStats(layer Layer, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.ApplyStat(layer, name, values[name])
	}
}

// GetStatValue returns the current value of name. Damage stats return the
// combined list value at their exact key; unknown names read from Extra and
// return 0 when absent.
func (c *Character) GetStatValue(name string) float64 {
	acc, ok := accessors[name]
	switch {
	case !ok:
		return c.Extra[name]
	case acc.list:
		return c.Damage.ListTotal(acc.kind, acc.domain, acc.damage)
	case acc.read != nil:
		return acc.read(c)
	default:
		return acc.get(c)
	}
}

// SetStatValue overwrites name outside of any layer. Damage stats replace the
// manual entry of their list; unknown names are stored in Extra.
func (c *Character) SetStatValue(name string, value float64) {
	acc, ok := accessors[name]
	switch {
	case !ok:
		c.Extra[name] = value
	case acc.list:
		c.Damage.Replace(acc.kind, acc.domain, acc.damage, SourceManual, value)
	default:
		acc.set(c, value)
	}
}

// ClearLayer reverses everything layer applied and recomputes derived stats.
//
// Postcondition: LayerStats(layer) is empty; no aggregate entry is tagged layer.
func (c *Character) ClearLayer(layer Layer) {
	c.clearLayer(layer)
	c.CalculateDerivedStats()
}

func (c *Character) clearLayer(layer Layer) {
	for name, v := range c.ledger[layer] {
		acc, ok := accessors[name]
		switch {
		case !ok:
			c.Extra[name] -= v
			if math.Abs(c.Extra[name]) < 1e-9 {
				delete(c.Extra, name)
			}
		case acc.list:
		default:
			acc.set(c, acc.get(c)-v)
		}
	}
	delete(c.ledger, layer)
	c.Damage.RemoveSource(stats.Source(layer))
}

// LayerStats returns a copy of what layer has applied, keyed by stat name.
func (c *Character) LayerStats(layer Layer) map[string]float64 {
	return cloneMap(c.ledger[layer])
}

// Layers returns every layer with recorded applications, sorted.
func (c *Character) Layers() []Layer {
	out := make([]Layer, 0, len(c.ledger))
	for l := range c.ledger {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Character) layerLedger(layer Layer) map[string]float64 {
	led, ok := c.ledger[layer]
	if !ok {
		led = map[string]float64{}
		c.ledger[layer] = led
	}
	return led
}

func (c *Character) layerHasAttributes(layer Layer) bool {
	for name, v := range c.ledger[layer] {
		if attributeStats[name] && v != 0 {
			return true
		}
	}
	return false
}

// rebaseAttributes rederives attributes from the class and level plus the
// attribute deltas every layer ledger still records. Ledgers are kept.
func (c *Character) rebaseAttributes() {
	a := c.rules.AttributesFor(c.Class, c.Level)
	for _, led := range c.ledger {
		a.Strength += int(math.Round(led["Strength"]))
		a.Dexterity += int(math.Round(led["Dexterity"]))
		a.Intelligence += int(math.Round(led["Intelligence"]))
	}
	c.setAttributes(a)
}
