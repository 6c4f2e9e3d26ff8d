package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gauntlet/internal/game/ruleset"
)

func TestRegistry_BuiltinsPresent(t *testing.T) {
	reg := ruleset.NewRegistry()
	for _, id := range []string{"marauder", "ranger", "witch", "duelist", "templar", "shadow"} {
		c, ok := reg.Class(id)
		require.True(t, ok, id)
		assert.Equal(t, ruleset.DefaultMana, c.BaseMana)
	}
}

func TestRegistry_PrimaryGainsAreThreeOneOne(t *testing.T) {
	reg := ruleset.NewRegistry()
	assert.Equal(t, ruleset.Attributes{Strength: 3, Dexterity: 1, Intelligence: 1}, reg.Resolve("marauder").Gain)
	assert.Equal(t, ruleset.Attributes{Strength: 1, Dexterity: 3, Intelligence: 1}, reg.Resolve("ranger").Gain)
	assert.Equal(t, ruleset.Attributes{Strength: 1, Dexterity: 1, Intelligence: 3}, reg.Resolve("witch").Gain)
}

func TestRegistry_HybridGainsAreTwoTwoOne(t *testing.T) {
	reg := ruleset.NewRegistry()
	for _, id := range []string{"duelist", "templar", "shadow"} {
		g := reg.Resolve(id).Gain
		assert.Equal(t, 5, g.Strength+g.Dexterity+g.Intelligence, id)
	}
}

func TestRegistry_UnknownClassFallsBackToNeutral(t *testing.T) {
	reg := ruleset.NewRegistry()
	c := reg.Resolve("necromancer")
	require.NotNil(t, c)
	assert.Equal(t, ruleset.NeutralClassID, c.ID)
	assert.Equal(t, ruleset.Attributes{Strength: 14, Dexterity: 14, Intelligence: 14}, reg.AttributesFor("necromancer", 1))
	assert.Equal(t, ruleset.Attributes{Strength: 16, Dexterity: 16, Intelligence: 16}, reg.AttributesFor("necromancer", 3))
}

func TestClass_AttributesAt(t *testing.T) {
	reg := ruleset.NewRegistry()
	assert.Equal(t, ruleset.Attributes{Strength: 20, Dexterity: 14, Intelligence: 14}, reg.AttributesFor("marauder", 1))
	assert.Equal(t, ruleset.Attributes{Strength: 47, Dexterity: 23, Intelligence: 23}, reg.AttributesFor("marauder", 10))
	assert.Equal(t, reg.AttributesFor("marauder", 1), reg.AttributesFor("marauder", 0))
}

func TestRegistry_RegisterOverridesBuiltin(t *testing.T) {
	reg := ruleset.NewRegistry()
	reg.Register(&ruleset.Class{ID: "witch", Name: "Hag", Base: ruleset.Attributes{Intelligence: 30}})
	assert.Equal(t, "Hag", reg.Resolve("witch").Name)
	assert.Panics(t, func() { reg.Register(nil) })
	assert.Panics(t, func() { reg.Register(&ruleset.Class{}) })
}

func TestRequiredExperience(t *testing.T) {
	assert.Equal(t, 100, ruleset.RequiredExperience(1))
	assert.Equal(t, 282, ruleset.RequiredExperience(2))
	assert.Equal(t, 519, ruleset.RequiredExperience(3))
	assert.Equal(t, 800, ruleset.RequiredExperience(4))
}

func TestLoadClasses(t *testing.T) {
	dir := t.TempDir()
	content := `id: warden
name: Warden
base:
  strength: 18
  dexterity: 16
  intelligence: 14
gain:
  strength: 2
  dexterity: 2
  intelligence: 1
base_reliance: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "warden.yaml"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	classes, err := ruleset.LoadClasses(dir)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	c := classes[0]
	assert.Equal(t, "warden", c.ID)
	assert.Equal(t, 18, c.Base.Strength)
	assert.Equal(t, ruleset.DefaultMana, c.BaseMana)
	assert.Equal(t, 5, c.BaseReliance)
}

func TestLoadClasses_InvalidClass(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: NoID\n"), 0o644))
	_, err := ruleset.LoadClasses(dir)
	require.Error(t, err)
}

func TestLoadClasses_MissingDir(t *testing.T) {
	_, err := ruleset.LoadClasses(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestProperty_AttributesAt_LinearInLevel(t *testing.T) {
	reg := ruleset.NewRegistry()
	ids := []string{"marauder", "ranger", "witch", "duelist", "templar", "shadow", "unknown"}
	rapid.Check(t, func(rt *rapid.T) {
		id := rapid.SampledFrom(ids).Draw(rt, "class")
		level := rapid.IntRange(1, 99).Draw(rt, "level")
		c := reg.Resolve(id)
		next := reg.AttributesFor(id, level+1)
		cur := reg.AttributesFor(id, level)
		if next != cur.Add(c.Gain) {
			rt.Fatalf("level %d→%d: %v != %v + %v", level, level+1, next, cur, c.Gain)
		}
	})
}
