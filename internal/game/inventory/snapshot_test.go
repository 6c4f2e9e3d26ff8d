package inventory_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
)

func TestSnapshot_RoundTripKeepsInstanceIDs(t *testing.T) {
	r := testRegistry(t)
	eq := inventory.NewEquipment()
	_, err := eq.Equip(inventory.SlotMainHand, newItem(t, r, "short_sword", []string{"burning"}, []string{"of_the_bear"}))
	require.NoError(t, err)
	_, err = eq.Equip(inventory.SlotOffHand, newItem(t, r, "hand_axe", nil, nil))
	require.NoError(t, err)
	ef, err := r.NewEffigy("ash_idol", nil, nil)
	require.NoError(t, err)
	require.NoError(t, eq.AddEffigy(ef))
	stash := inventory.NewStash(4)
	require.NoError(t, stash.Add(newItem(t, r, "iron_cap", nil, nil)))

	snap := eq.Snapshot(stash)
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded inventory.Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	eq2, stash2, err := r.Restore(decoded, 4)
	require.NoError(t, err)
	assert.Equal(t, snap, eq2.Snapshot(stash2))
	assert.Equal(t, inventory.CollectStats(eq), inventory.CollectStats(eq2))
}

func TestRestore_UnknownDefFails(t *testing.T) {
	r := testRegistry(t)
	_, _, err := r.Restore(inventory.Snapshot{Slots: map[inventory.Slot]inventory.Record{
		inventory.SlotHelmet: {Def: "crown_of_nothing"},
	}}, 1)
	assert.Error(t, err)

	_, _, err = r.Restore(inventory.Snapshot{Slots: map[inventory.Slot]inventory.Record{
		inventory.SlotHelmet: {Def: "iron_cap", InstanceID: "not-a-uuid"},
	}}, 1)
	assert.Error(t, err)
}

func TestLoadLoadout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loadout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
slots:
  helmet:
    def: iron_cap
    suffixes: [of_embers]
  off_hand:
    def: short_sword
effigies:
  - def: ash_idol
`), 0644))
	snap, err := inventory.LoadLoadout(path)
	require.NoError(t, err)

	r := testRegistry(t)
	eq, stash, err := r.Restore(snap, 0)
	require.NoError(t, err)
	assert.NotNil(t, eq.Get(inventory.SlotMainHand))
	assert.Len(t, eq.Effigies(), 1)
	assert.Equal(t, 0, stash.UsedSlots())

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("slots:\n  tail:\n    def: iron_cap\n"), 0644))
	_, err = inventory.LoadLoadout(bad)
	assert.ErrorIs(t, err, inventory.ErrUnknownSlot)
}
