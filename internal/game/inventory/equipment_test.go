package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
)

func TestEquip_SlotMismatch(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	_, err := eq.Equip(inventory.SlotBoots, newItem(t, r, "iron_cap", nil, nil))
	assert.ErrorIs(t, err, inventory.ErrSlotMismatch)
	_, err = eq.Equip("tail", newItem(t, r, "iron_cap", nil, nil))
	assert.ErrorIs(t, err, inventory.ErrUnknownSlot)
	_, err = eq.Equip(inventory.SlotHelmet, nil)
	assert.ErrorIs(t, err, inventory.ErrNilItem)
	assert.Empty(t, eq.Equipped())
}

func TestEquip_RingsFitEitherRingSlot(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	_, err := eq.Equip(inventory.SlotRingLeft, newItem(t, r, "iron_ring", nil, nil))
	require.NoError(t, err)
	_, err = eq.Equip(inventory.SlotRingRight, newItem(t, r, "iron_ring", nil, nil))
	require.NoError(t, err)
	assert.Len(t, eq.Equipped(), 2)
}

func TestEquip_ReplacingReturnsDisplaced(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	first := newItem(t, r, "iron_cap", nil, nil)
	_, err := eq.Equip(inventory.SlotHelmet, first)
	require.NoError(t, err)
	displaced, err := eq.Equip(inventory.SlotHelmet, newItem(t, r, "iron_cap", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []*inventory.Item{first}, displaced)
}

func TestEquip_OffHandIntoEmptyMainHandGoesToMainHand(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	sword := newItem(t, r, "short_sword", nil, nil)
	_, err := eq.Equip(inventory.SlotOffHand, sword)
	require.NoError(t, err)
	assert.Equal(t, sword, eq.Get(inventory.SlotMainHand))
	assert.Nil(t, eq.Get(inventory.SlotOffHand))
}

func TestEquip_ShieldNeedsMainHand(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	_, err := eq.Equip(inventory.SlotOffHand, newItem(t, r, "buckler", nil, nil))
	assert.ErrorIs(t, err, inventory.ErrMainHandEmpty)

	_, err = eq.Equip(inventory.SlotMainHand, newItem(t, r, "hand_axe", nil, nil))
	require.NoError(t, err)
	_, err = eq.Equip(inventory.SlotOffHand, newItem(t, r, "buckler", nil, nil))
	require.NoError(t, err)
}

func TestEquip_TwoHandedClearsAndLocksOffHand(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	_, err := eq.Equip(inventory.SlotMainHand, newItem(t, r, "hand_axe", nil, nil))
	require.NoError(t, err)
	buckler := newItem(t, r, "buckler", nil, nil)
	_, err = eq.Equip(inventory.SlotOffHand, buckler)
	require.NoError(t, err)

	displaced, err := eq.Equip(inventory.SlotMainHand, newItem(t, r, "greatsword", nil, nil))
	require.NoError(t, err)
	assert.Len(t, displaced, 2)
	assert.Contains(t, displaced, buckler)
	assert.Nil(t, eq.Get(inventory.SlotOffHand))

	_, err = eq.Equip(inventory.SlotOffHand, newItem(t, r, "short_sword", nil, nil))
	assert.ErrorIs(t, err, inventory.ErrOffHandLocked)
	_, err = eq.Equip(inventory.SlotOffHand, newItem(t, r, "greatsword", nil, nil))
	assert.ErrorIs(t, err, inventory.ErrSlotMismatch)
}

func TestUnequip_MainHandPromotesOffHandWeapon(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	axe := newItem(t, r, "hand_axe", nil, nil)
	sword := newItem(t, r, "short_sword", nil, nil)
	_, err := eq.Equip(inventory.SlotMainHand, axe)
	require.NoError(t, err)
	_, err = eq.Equip(inventory.SlotOffHand, sword)
	require.NoError(t, err)

	removed := eq.Unequip(inventory.SlotMainHand)
	assert.Equal(t, []*inventory.Item{axe}, removed)
	assert.Equal(t, sword, eq.Get(inventory.SlotMainHand))
	assert.Nil(t, eq.Get(inventory.SlotOffHand))
}

func TestUnequip_MainHandRemovesShield(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	_, err := eq.Equip(inventory.SlotMainHand, newItem(t, r, "hand_axe", nil, nil))
	require.NoError(t, err)
	_, err = eq.Equip(inventory.SlotOffHand, newItem(t, r, "buckler", nil, nil))
	require.NoError(t, err)

	removed := eq.Unequip(inventory.SlotMainHand)
	assert.Len(t, removed, 2)
	assert.Empty(t, eq.Equipped())
	assert.Nil(t, eq.Unequip(inventory.SlotMainHand))
}

func TestEffigies_Limit(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	eq.MaxEffigies = 1
	ef, err := r.NewEffigy("ash_idol", nil, []string{"of_embers"})
	require.NoError(t, err)
	require.NoError(t, eq.AddEffigy(ef))
	other, err := r.NewEffigy("ash_idol", nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, eq.AddEffigy(other), inventory.ErrEffigyLimit)

	assert.Equal(t, ef, eq.RemoveEffigy(ef.InstanceID.String()))
	assert.Nil(t, eq.RemoveEffigy(ef.InstanceID.String()))
	assert.Empty(t, eq.Effigies())
}

func TestProperty_Equipment_OffHandNeverWithoutMainHand(t *testing.T) {
	r := testRegistry(t)
	defs := []string{"short_sword", "hand_axe", "greatsword", "buckler"}
	rapid.Check(t, func(rt *rapid.T) {
		eq := inventory.NewEquipment()
		steps := rapid.IntRange(1, 25).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			slot := rapid.SampledFrom([]inventory.Slot{inventory.SlotMainHand, inventory.SlotOffHand}).Draw(rt, "slot")
			if rapid.Bool().Draw(rt, "unequip") {
				eq.Unequip(slot)
			} else {
				it, err := r.NewItem(rapid.SampledFrom(defs).Draw(rt, "def"), nil, nil)
				if err != nil {
					rt.Fatal(err)
				}
				_, _ = eq.Equip(slot, it)
			}
			main, off := eq.Get(inventory.SlotMainHand), eq.Get(inventory.SlotOffHand)
			if off != nil && main == nil {
				rt.Fatalf("off hand filled with empty main hand")
			}
			if off != nil && main.Def.IsTwoHanded() {
				rt.Fatalf("off hand filled beside a two-handed weapon")
			}
		}
	})
}
