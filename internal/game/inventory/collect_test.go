package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
)

type fakeProvider struct {
	slots    map[inventory.Slot]*inventory.Item
	effigies []*inventory.Effigy
}

func (f fakeProvider) Equipped() map[inventory.Slot]*inventory.Item { return f.slots }
func (f fakeProvider) Effigies() []*inventory.Effigy                { return f.effigies }

func TestCollectStats_NilProviderIsEmpty(t *testing.T) {
	got := inventory.CollectStats(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollectStats_MergesItemsAndEffigiesAdditively(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	_, err := eq.Equip(inventory.SlotHelmet, newItem(t, r, "iron_cap", []string{"heavy"}, []string{"of_the_bear", "of_embers"}))
	require.NoError(t, err)
	_, err = eq.Equip(inventory.SlotRingLeft, newItem(t, r, "iron_ring", []string{"heavy", "burning"}, nil))
	require.NoError(t, err)
	_, err = eq.Equip(inventory.SlotBodyArmour, newItem(t, r, "silk_robe", nil, nil))
	require.NoError(t, err)
	ef, err := r.NewEffigy("ash_idol", nil, []string{"of_embers"})
	require.NoError(t, err)
	require.NoError(t, eq.AddEffigy(ef))

	got := inventory.CollectStats(eq)
	assert.Equal(t, map[string]float64{
		"Armor":               20,
		"EnergyShield":        30,
		"MaxHealth":           10,
		"AddedPhysicalDamage": 5 + 2 + 5,
		"AddedFireDamage":     4,
		"Strength":            8,
		"FireResistance":      12 + 5 + 12,
		"Whispers":            1,
	}, got)
}

func TestCollectStats_SkipsNilSlots(t *testing.T) {
	r := testRegistry(t)
	p := fakeProvider{
		slots: map[inventory.Slot]*inventory.Item{
			inventory.SlotHelmet: nil,
			inventory.SlotBoots:  nil,
			inventory.SlotBelt:   {Def: nil},
			inventory.SlotAmulet: newItem(t, r, "iron_ring", nil, nil),
		},
		effigies: []*inventory.Effigy{nil},
	}
	assert.Equal(t, map[string]float64{"AddedPhysicalDamage": 2}, inventory.CollectStats(p))
}

var sharedFractions = []float64{0.1, 0.2, 0.3, 0.7, 0.11, 0.13, 0.17}

func TestCollectStats_SumsInSlotOrder(t *testing.T) {
	p := fakeProvider{slots: map[inventory.Slot]*inventory.Item{}}
	want := 0.0
	for i, v := range sharedFractions {
		p.slots[inventory.Slots[i]] = &inventory.Item{Def: &inventory.ItemDef{
			ID:       string(inventory.Slots[i]),
			Implicit: map[string]float64{"IncreasedFireDamage": v, "CritChance": v},
		}}
		want += v
	}
	for i := 0; i < 200; i++ {
		got := inventory.CollectStats(p)
		require.Equal(t, want, got["IncreasedFireDamage"], "call %d", i)
		require.Equal(t, want, got["CritChance"], "call %d", i)
	}
}
