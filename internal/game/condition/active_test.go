package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gauntlet/internal/game/condition"
)

func bolster() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "bolster", Name: "Bolster", DurationType: condition.DurationEncounter, MaxStacks: 10}
}

func vulnerable() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "vulnerable", Name: "Vulnerable", DurationType: condition.DurationTurns, MaxStacks: 0, DamageTakenPercent: 20}
}

func tolerance() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "tolerance", Name: "Tolerance", DurationType: condition.DurationPermanent, MaxStacks: 5, DamageTakenPercent: -5}
}

func momentum() *condition.ConditionDef {
	return &condition.ConditionDef{
		ID: "momentum", Name: "Momentum", DurationType: condition.DurationTurns, MaxStacks: 5,
		Stats: map[string]float64{"AttackSpeed": 0.04, "IncreasedPhysicalDamage": 0.05},
	}
}

func TestActiveSet_Apply_Turns(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(momentum(), 2, 3))
	assert.True(t, s.Has("momentum"))
	assert.Equal(t, 2, s.Stacks("momentum"))
}

func TestActiveSet_Apply_StacksCapped(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(bolster(), 15, -1))
	assert.Equal(t, 10, s.Stacks("bolster"))
	require.NoError(t, s.Apply(bolster(), 3, -1))
	assert.Equal(t, 10, s.Stacks("bolster"))
}

func TestActiveSet_Apply_ZeroMaxStacks_AlwaysOne(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(vulnerable(), 3, 2))
	require.NoError(t, s.Apply(vulnerable(), 3, 2))
	assert.Equal(t, 1, s.Stacks("vulnerable"))
}

func TestActiveSet_Apply_NilDef(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Error(t, s.Apply(nil, 1, 1))
}

func TestActiveSet_Reapply_KeepsLongerDuration(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(momentum(), 1, 3))
	require.NoError(t, s.Apply(momentum(), 1, 1))
	s.Tick()
	s.Tick()
	assert.True(t, s.Has("momentum"))
	assert.Equal(t, []string{"momentum"}, s.Tick())
	assert.False(t, s.Has("momentum"))
}

func TestActiveSet_Remove(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(vulnerable(), 1, 2))
	s.Remove("vulnerable")
	assert.False(t, s.Has("vulnerable"))
	s.Remove("vulnerable")
}

func TestActiveSet_Tick_SkipsEncounterAndPermanent(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(bolster(), 2, -1))
	require.NoError(t, s.Apply(tolerance(), 1, -1))
	require.NoError(t, s.Apply(vulnerable(), 1, 1))
	assert.Equal(t, []string{"vulnerable"}, s.Tick())
	assert.True(t, s.Has("bolster"))
	assert.True(t, s.Has("tolerance"))
}

func TestActiveSet_EndEncounter(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(bolster(), 2, -1))
	require.NoError(t, s.Apply(tolerance(), 1, -1))
	assert.Equal(t, []string{"bolster"}, s.EndEncounter())
	assert.False(t, s.Has("bolster"))
	assert.True(t, s.Has("tolerance"))
}

func TestActiveSet_All_SortedByID(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(vulnerable(), 1, 2))
	require.NoError(t, s.Apply(bolster(), 1, -1))
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "bolster", all[0].Def.ID)
	assert.Equal(t, "vulnerable", all[1].Def.ID)
}

func TestActiveSet_NilIsNeutral(t *testing.T) {
	var s *condition.ActiveSet
	assert.Equal(t, 0, s.Stacks("bolster"))
	assert.Equal(t, 1.0, s.DamageTakenMultiplier())
	assert.Empty(t, s.StatContributions())
}

func TestDamageTakenMultiplier_SumsPerStack(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(vulnerable(), 1, 2))
	require.NoError(t, s.Apply(tolerance(), 3, -1))
	// 1 + 0.20 - 0.15
	assert.InDelta(t, 1.05, s.DamageTakenMultiplier(), 1e-9)
}

func TestDamageTakenMultiplier_FloorsAtZero(t *testing.T) {
	s := condition.NewActiveSet()
	def := &condition.ConditionDef{ID: "immune", Name: "Immune", DurationType: condition.DurationTurns, DamageTakenPercent: -250}
	require.NoError(t, s.Apply(def, 1, 1))
	assert.Equal(t, 0.0, s.DamageTakenMultiplier())
}

func TestStatContributions_ScaleWithStacks(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(momentum(), 3, 2))
	got := s.StatContributions()
	assert.InDelta(t, 0.12, got["AttackSpeed"], 1e-9)
	assert.InDelta(t, 0.15, got["IncreasedPhysicalDamage"], 1e-9)
}

func TestProperty_ActiveSet_StacksNeverExceedMax(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := condition.NewActiveSet()
		def := bolster()
		n := rapid.IntRange(1, 20).Draw(rt, "applies")
		for i := 0; i < n; i++ {
			stacks := rapid.IntRange(-3, 8).Draw(rt, "stacks")
			if err := s.Apply(def, stacks, -1); err != nil {
				rt.Fatal(err)
			}
			if got := s.Stacks(def.ID); got < 1 || got > def.MaxStacks {
				rt.Fatalf("stacks %d outside [1,%d]", got, def.MaxStacks)
			}
		}
	})
}

func TestProperty_DamageTakenMultiplier_NonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := condition.NewActiveSet()
		def := &condition.ConditionDef{
			ID: "x", Name: "X", DurationType: condition.DurationTurns, MaxStacks: 10,
			DamageTakenPercent: rapid.Float64Range(-100, 100).Draw(rt, "pct"),
		}
		if err := s.Apply(def, rapid.IntRange(1, 10).Draw(rt, "stacks"), 1); err != nil {
			rt.Fatal(err)
		}
		if m := s.DamageTakenMultiplier(); m < 0 {
			rt.Fatalf("negative multiplier %v", m)
		}
	})
}

func TestStatContributions_SumsInIDOrder(t *testing.T) {
	fractions := []float64{0.1, 0.2, 0.3, 0.7, 0.11, 0.13, 0.17}
	s := condition.NewActiveSet()
	want := 0.0
	for i, v := range fractions {
		def := &condition.ConditionDef{
			ID: string(rune('a' + i)), Name: "c", DurationType: condition.DurationEncounter, MaxStacks: 1,
			DamageTakenPercent: v, Stats: map[string]float64{"CritChance": v},
		}
		require.NoError(t, s.Apply(def, 1, -1))
		want += v
	}
	wantMult := 1.0
	for _, v := range fractions {
		wantMult += v / 100
	}
	for i := 0; i < 200; i++ {
		require.Equal(t, want, s.StatContributions()["CritChance"], "call %d", i)
		require.Equal(t, wantMult, s.DamageTakenMultiplier(), "call %d", i)
	}
}
