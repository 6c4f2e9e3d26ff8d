package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gauntlet/internal/game/combat"
	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

type fakeStatus struct {
	stacks map[string]int
	mult   float64
}

func (f fakeStatus) Stacks(id string) int           { return f.stacks[id] }
func (f fakeStatus) DamageTakenMultiplier() float64 { return f.mult }

func TestResist_PhysicalFloorIsOne(t *testing.T) {
	assert.Equal(t, 1.0, combat.Resist(5, stats.Physical, 10))
	assert.Equal(t, 15.0, combat.Resist(25, stats.Physical, 10))
}

func TestResist_ElementalFloorIsTenPercent(t *testing.T) {
	assert.InDelta(t, 10.0, combat.Resist(100, stats.Fire, 95), 1e-9)
	assert.InDelta(t, 10.0, combat.Resist(100, stats.Cold, 200), 1e-9)
	assert.InDelta(t, 60.0, combat.Resist(100, stats.Lightning, 40), 1e-9)
	assert.InDelta(t, 150.0, combat.Resist(100, stats.Chaos, -50), 1e-9)
}

func TestStatusMultiplier_NilProviderIsNeutral(t *testing.T) {
	assert.Equal(t, 1.0, combat.StatusMultiplier(nil))
}

func TestStatusMultiplier_BolsterCappedAtTenStacks(t *testing.T) {
	fx := fakeStatus{stacks: map[string]int{"bolster": 25}, mult: 1}
	assert.InDelta(t, 0.8, combat.StatusMultiplier(fx), 1e-9)

	fx.stacks["bolster"] = 3
	assert.InDelta(t, 0.94, combat.StatusMultiplier(fx), 1e-9)
}

func TestStatusMultiplier_NegativeMultiplierClampedToZero(t *testing.T) {
	fx := fakeStatus{mult: -0.4}
	assert.Equal(t, 0.0, combat.StatusMultiplier(fx))
}

func TestMitigate_CombinesResistanceAndStatus(t *testing.T) {
	fx := fakeStatus{stacks: map[string]int{"bolster": 5}, mult: 1.2}
	// 100 × 0.5 × 1.2 × 0.9
	assert.InDelta(t, 54.0, combat.Mitigate(100, stats.Fire, 50, fx), 1e-9)
}

func TestAbsorb_LayeredOrder(t *testing.T) {
	a := combat.Absorb(combat.Pools{Guard: 50, EnergyShield: 30, Health: 100}, 120)
	assert.Equal(t, 0.0, a.After.Guard)
	assert.Equal(t, 0.0, a.After.EnergyShield)
	assert.Equal(t, 60, a.After.Health)
	assert.Equal(t, 50.0, a.GuardSpent)
	assert.Equal(t, 30.0, a.ShieldSpent)
	assert.Equal(t, 40, a.HealthLost)
	assert.False(t, a.Defeated)
}

func TestAbsorb_GuardAbsorbsEverything(t *testing.T) {
	a := combat.Absorb(combat.Pools{Guard: 50, EnergyShield: 30, Health: 100}, 50)
	assert.Equal(t, 0.0, a.After.Guard)
	assert.Equal(t, 30.0, a.After.EnergyShield)
	assert.Equal(t, 100, a.After.Health)
}

func TestAbsorb_RoundsOnlyAtHealth(t *testing.T) {
	a := combat.Absorb(combat.Pools{Guard: 0.25, EnergyShield: 0.25, Health: 10}, 1.25)
	assert.Equal(t, 0.0, a.After.Guard)
	assert.Equal(t, 0.0, a.After.EnergyShield)
	// 0.75 left after guard and shield rounds to 1
	assert.Equal(t, 9, a.After.Health)
}

func TestAbsorb_OverkillFloorsAtZeroAndDefeats(t *testing.T) {
	a := combat.Absorb(combat.Pools{Health: 30}, 500)
	assert.Equal(t, 0, a.After.Health)
	assert.Equal(t, 30, a.HealthLost)
	assert.True(t, a.Defeated)
}

func TestProperty_Absorb_PoolsStayNonNegativeAndConserve(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := combat.Pools{
			Guard:        rapid.Float64Range(0, 200).Draw(rt, "guard"),
			EnergyShield: rapid.Float64Range(0, 200).Draw(rt, "es"),
			Health:       rapid.IntRange(0, 500).Draw(rt, "health"),
		}
		dmg := rapid.Float64Range(0, 1000).Draw(rt, "damage")
		a := combat.Absorb(p, dmg)
		if a.After.Guard < 0 || a.After.EnergyShield < 0 || a.After.Health < 0 {
			rt.Fatalf("negative pool: %+v", a.After)
		}
		if a.After.Guard > p.Guard || a.After.EnergyShield > p.EnergyShield || a.After.Health > p.Health {
			rt.Fatalf("pool grew: %+v -> %+v", p, a.After)
		}
		if a.After.EnergyShield < p.EnergyShield && a.After.Guard != 0 {
			rt.Fatalf("shield consumed before guard was empty: %+v", a.After)
		}
		if a.HealthLost > 0 && a.After.EnergyShield != 0 {
			rt.Fatalf("health consumed before shield was empty: %+v", a.After)
		}
	})
}

func TestProperty_Resist_ElementalNeverBelowTenPercent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.Float64Range(0, 10000).Draw(rt, "raw")
		res := rapid.Float64Range(-100, 1000).Draw(rt, "resistance")
		got := combat.Resist(raw, stats.Cold, res)
		if got < raw*combat.MinDamageTakenFraction-1e-9 {
			rt.Fatalf("Resist(%v, cold, %v) = %v below floor", raw, res, got)
		}
	})
}
