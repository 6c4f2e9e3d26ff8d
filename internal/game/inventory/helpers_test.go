package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
)

func testRegistry(t *testing.T) *inventory.Registry {
	t.Helper()
	r := inventory.NewRegistry()
	items := []*inventory.ItemDef{
		{ID: "iron_cap", Name: "Iron Cap", Category: inventory.CategoryHelmet, Armor: 20, Implicit: map[string]float64{"MaxHealth": 10}},
		{ID: "silk_robe", Name: "Silk Robe", Category: inventory.CategoryBodyArmour, EnergyShield: 30},
		{ID: "iron_ring", Name: "Iron Ring", Category: inventory.CategoryRing, Implicit: map[string]float64{"AddedPhysicalDamage": 2}},
		{ID: "short_sword", Name: "Short Sword", Category: inventory.CategoryWeapon, Handedness: inventory.OneHanded, Implicit: map[string]float64{"Accuracy": 15}},
		{ID: "hand_axe", Name: "Hand Axe", Category: inventory.CategoryWeapon, Handedness: inventory.OneHanded},
		{ID: "greatsword", Name: "Greatsword", Category: inventory.CategoryWeapon, Handedness: inventory.TwoHanded},
		{ID: "buckler", Name: "Buckler", Category: inventory.CategoryShield, Evasion: 40},
	}
	for _, d := range items {
		require.NoError(t, d.Validate())
		require.NoError(t, r.RegisterItem(d))
	}
	affixes := []*inventory.AffixDef{
		{ID: "heavy", Name: "Heavy", Kind: inventory.AffixPrefix, Stats: map[string]float64{"AddedPhysicalDamage": 5}},
		{ID: "burning", Name: "Burning", Kind: inventory.AffixPrefix, Stats: map[string]float64{"AddedFireDamage": 4}},
		{ID: "of_the_bear", Name: "of the Bear", Kind: inventory.AffixSuffix, Stats: map[string]float64{"Strength": 8}},
		{ID: "of_embers", Name: "of Embers", Kind: inventory.AffixSuffix, Stats: map[string]float64{"FireResistance": 12}},
	}
	for _, a := range affixes {
		require.NoError(t, r.RegisterAffix(a))
	}
	require.NoError(t, r.RegisterEffigy(&inventory.EffigyDef{ID: "ash_idol", Name: "Ash Idol", Implicit: map[string]float64{"FireResistance": 5, "Whispers": 1}}))
	return r
}

func newItem(t *testing.T, r *inventory.Registry, def string, prefixes, suffixes []string) *inventory.Item {
	t.Helper()
	it, err := r.NewItem(def, prefixes, suffixes)
	require.NoError(t, err)
	return it
}
