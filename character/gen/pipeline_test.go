package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/hex"
	"island-npc-engine/backend/pkg/rng"
)

func TestMercenaryMaleFixedSeed(t *testing.T) {
	p := NewPipeline(NewNameAllocator(nil))
	src := rng.New(424242)

	c := p.Generate(Template{Faction: "mercenary", Gender: "male"}, src)

	// Deterministic name for this seed: re-running the same stream through
	// a fresh allocator reproduces it.
	p2 := NewPipeline(NewNameAllocator(nil))
	c2 := p2.Generate(Template{Faction: "mercenary", Gender: "male"}, rng.New(424242))
	assert.Equal(t, c2.Name.FullName, c.Name.FullName)

	assert.GreaterOrEqual(t, c.Appearance.Age, 25)
	assert.LessOrEqual(t, c.Appearance.Age, 45)
	assert.GreaterOrEqual(t, c.Personality.Traits.Openness, 30)
	assert.LessOrEqual(t, c.Personality.Traits.Openness, 70)

	feats := c.Appearance.DistinctiveFeatures
	require.GreaterOrEqual(t, len(feats), 2)
	require.LessOrEqual(t, len(feats), 3)
	seen := map[string]bool{}
	for _, f := range feats {
		assert.False(t, seen[f], "duplicated feature %q", f)
		seen[f] = true
	}
}

func TestIdenticalStreamsIdenticalRecords(t *testing.T) {
	tpl := Template{Faction: "native", Tile: &hex.Coord{Q: 2, R: -1}}

	a := NewPipeline(NewNameAllocator(nil)).Generate(tpl, rng.New(777))
	b := NewPipeline(NewNameAllocator(nil)).Generate(tpl, rng.New(777))

	assert.Equal(t, a, b)
}

func TestUnknownFactionNormalizesToCastaway(t *testing.T) {
	p := NewPipeline(NewNameAllocator(nil))
	c := p.Generate(Template{Faction: "smuggler"}, rng.New(5))

	assert.Equal(t, models.FactionCastaway, c.Faction)
	assert.Equal(t, models.BackgroundCastaway, c.Background.Kind)
	require.NotNil(t, c.Background.Castaway)
	assert.Equal(t, models.UnknownAmnesia, c.Background.Bio.Origin)
	assert.Equal(t, models.UnknownAmnesia, c.Background.Bio.FormerLife)
}

func TestUnknownGenderPreservedOnRecord(t *testing.T) {
	p := NewPipeline(NewNameAllocator(nil))
	c := p.Generate(Template{Faction: "native", Gender: "Spirit"}, rng.New(6))

	// The raw value survives normalization onto the record even though
	// pool lookups used the female tables.
	assert.Equal(t, models.Gender("spirit"), c.Appearance.Gender)
}

func TestTemplateOverrides(t *testing.T) {
	p := NewPipeline(NewNameAllocator(nil))
	tile := hex.Coord{Q: 4, R: 4}
	c := p.Generate(Template{
		Faction: "mercenary",
		Gender:  "female",
		Age:     33,
		Role:    "sapper",
		Tile:    &tile,
	}, rng.New(8))

	assert.Equal(t, 33, c.Appearance.Age)
	assert.Equal(t, "sapper", c.Role)
	assert.Equal(t, tile, c.Location)
}

func TestBackgroundVariantMatchesFaction(t *testing.T) {
	p := NewPipeline(NewNameAllocator(nil))

	native := p.Generate(Template{Faction: "native"}, rng.New(10))
	require.NotNil(t, native.Background.Native)
	assert.Nil(t, native.Background.Mercenary)
	assert.Nil(t, native.Background.Castaway)
	assert.NotEmpty(t, native.Background.Native.Tribe)

	merc := p.Generate(Template{Faction: "mercenary"}, rng.New(10))
	require.NotNil(t, merc.Background.Mercenary)
	assert.Equal(t, models.MercenaryEmployer, merc.Background.Mercenary.Employer)
}

func TestGeneratedRecordInvariants(t *testing.T) {
	p := NewPipeline(NewNameAllocator(nil))
	src := rng.New(2024)

	for i := 0; i < 60; i++ {
		faction := []string{"castaway", "native", "mercenary"}[i%3]
		c := p.Generate(Template{Faction: faction}, src)

		assert.True(t, c.State.Alive)
		assert.NotEmpty(t, c.Name.FullName)
		assert.NotEmpty(t, c.Role)
		assert.NotEmpty(t, c.Appearance.Clothing)
		assert.NotEmpty(t, c.Skills)
		assert.Equal(t, models.PhaseEarly, c.Memory.Phase)
		require.NotNil(t, c.Relationships.Player)

		tr := c.Personality.Traits
		for _, v := range []int{tr.Openness, tr.Conscientiousness, tr.Extraversion, tr.Agreeableness, tr.Neuroticism} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
		assert.GreaterOrEqual(t, len(c.Personality.Sexuality.Interests), 2)
		assert.LessOrEqual(t, len(c.Personality.Sexuality.Interests), 4)
	}
}
