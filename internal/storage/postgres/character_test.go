package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gauntlet/internal/game/character"
	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
	"github.com/cory-johannsen/gauntlet/internal/game/session"
	"github.com/cory-johannsen/gauntlet/internal/game/stats"
	"github.com/cory-johannsen/gauntlet/internal/game/warrant"
	"github.com/cory-johannsen/gauntlet/internal/storage/postgres"
	"github.com/cory-johannsen/gauntlet/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func makeSnapshot(name string) session.Snapshot {
	c := character.New(nil, "templar", name, character.DefaultTuning())
	c.ApplyStats(character.LayerEquipment, map[string]float64{
		"Armor":                80,
		"FireResistance":       30,
		"AddedColdDamage":      5,
		"IncreasedSpellDamage": 0.2,
		"Thorns":               3,
	})
	c.TakeDamage(25, stats.Lightning, nil)
	return session.Snapshot{
		Character: c.Snapshot(),
		Equipment: inventory.Snapshot{
			Slots: map[inventory.Slot]inventory.Record{
				inventory.SlotMainHand: {InstanceID: uuid.NewString(), Def: "rusted_sword", Prefixes: []string{"heavy"}},
			},
		},
		Warrant: &warrant.Snapshot{
			BoardID:   "iron_oath",
			Allocated: []string{"start"},
			Points:    2,
			Flat:      map[string]float64{},
			Percent:   map[string]float64{},
		},
	}
}

func TestCharacterRepository(t *testing.T) {
	pool := testutil.NewPool(t)
	repo := postgres.NewCharacterRepository(pool)
	warrants := postgres.NewWarrantRepository(pool)
	ctx := context.Background()

	t.Run("SaveLoadRoundTrip", func(t *testing.T) {
		snap := makeSnapshot(uniqueName("Ilse"))
		require.NoError(t, repo.Save(ctx, snap))

		got, err := repo.Load(ctx, snap.Character.ID)
		require.NoError(t, err)
		assert.Equal(t, snap, got)

		restored, err := character.Restore(nil, got.Character)
		require.NoError(t, err)
		assert.Equal(t, snap.Character, restored.Snapshot())
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		snap := makeSnapshot(uniqueName("Oren"))
		require.NoError(t, repo.Save(ctx, snap))

		snap.Character.Level = 4
		snap.Character.Experience = 12
		snap.Warrant = nil
		require.NoError(t, repo.Save(ctx, snap))

		got, err := repo.Load(ctx, snap.Character.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Character.Level)
		assert.Nil(t, got.Warrant)

		_, err = warrants.Load(ctx, snap.Character.ID)
		assert.ErrorIs(t, err, postgres.ErrWarrantNotFound)
	})

	t.Run("NameTaken", func(t *testing.T) {
		name := uniqueName("Dup")
		require.NoError(t, repo.Save(ctx, makeSnapshot(name)))
		err := repo.Save(ctx, makeSnapshot(name))
		assert.ErrorIs(t, err, postgres.ErrCharacterNameTaken)
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := repo.Load(ctx, uuid.New())
		assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
	})

	t.Run("DeleteCascadesWarrant", func(t *testing.T) {
		snap := makeSnapshot(uniqueName("Gone"))
		require.NoError(t, repo.Save(ctx, snap))
		require.NoError(t, repo.Delete(ctx, snap.Character.ID))

		_, err := repo.Load(ctx, snap.Character.ID)
		assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
		_, err = warrants.Load(ctx, snap.Character.ID)
		assert.ErrorIs(t, err, postgres.ErrWarrantNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, snap.Character.ID), postgres.ErrCharacterNotFound)
	})

	t.Run("WarrantSavedIndependently", func(t *testing.T) {
		snap := makeSnapshot(uniqueName("Ward"))
		require.NoError(t, repo.Save(ctx, snap))

		next := *snap.Warrant
		next.Allocated = []string{"bulwark", "start"}
		next.Points = 1
		require.NoError(t, warrants.Save(ctx, snap.Character.ID, next))

		got, err := repo.Load(ctx, snap.Character.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Warrant)
		assert.Equal(t, next, *got.Warrant)
	})

	t.Run("List", func(t *testing.T) {
		snap := makeSnapshot(uniqueName("Listed"))
		require.NoError(t, repo.Save(ctx, snap))
		list, err := repo.List(ctx)
		require.NoError(t, err)
		var found bool
		for _, s := range list {
			if s.ID == snap.Character.ID {
				found = true
				assert.Equal(t, "templar", s.Class)
			}
		}
		assert.True(t, found)
	})

	t.Run("PropertyRoundTripPreservesPools", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			snap := makeSnapshot(uniqueName("Prop"))
			snap.Character.Health = rapid.IntRange(0, snap.Character.Health).Draw(rt, "health")
			snap.Character.Experience = rapid.IntRange(0, 99).Draw(rt, "xp")
			if err := repo.Save(ctx, snap); err != nil {
				rt.Fatalf("save: %v", err)
			}
			got, err := repo.Load(ctx, snap.Character.ID)
			if err != nil {
				rt.Fatalf("load: %v", err)
			}
			if got.Character.Health != snap.Character.Health || got.Character.Experience != snap.Character.Experience {
				rt.Fatalf("got %d/%d want %d/%d", got.Character.Health, got.Character.Experience,
					snap.Character.Health, snap.Character.Experience)
			}
		})
	})
}
