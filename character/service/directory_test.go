package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"island-npc-engine/backend/character/gen"
	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/hex"
)

func newTestDirectory(t *testing.T, cap int) *Directory {
	t.Helper()
	return NewDirectory(DirectoryConfig{Cap: cap, Seed: 1}, nil, nil)
}

func TestSpawnRejectsAtCap(t *testing.T) {
	d := newTestDirectory(t, 50)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := d.Spawn(ctx, gen.Template{})
		require.NoError(t, err)
	}
	require.Equal(t, 50, d.Count())

	_, err := d.Spawn(ctx, gen.Template{})
	assert.ErrorIs(t, err, ErrPopulationFull)
	assert.Equal(t, 50, d.Count())
}

func TestSpawnIndexesTogether(t *testing.T) {
	d := newTestDirectory(t, 10)
	tile := hex.Coord{Q: 1, R: 2}

	c, err := d.Spawn(context.Background(), gen.Template{Faction: "native", Tile: &tile})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)

	got, ok := d.Get(c.ID)
	require.True(t, ok)
	assert.Same(t, c, got)

	atTile := d.AtTile(tile)
	require.Len(t, atTile, 1)
	assert.Equal(t, c.ID, atTile[0].ID)

	byFaction := d.ByFaction(models.FactionNative)
	require.Len(t, byFaction, 1)
	assert.Equal(t, c.ID, byFaction[0].ID)
}

func TestDespawnRemovesFromAllIndices(t *testing.T) {
	d := newTestDirectory(t, 10)
	tile := hex.Coord{Q: 0, R: 0}
	c, err := d.Spawn(context.Background(), gen.Template{Faction: "mercenary", Tile: &tile})
	require.NoError(t, err)

	assert.True(t, d.Despawn(c.ID))
	_, ok := d.Get(c.ID)
	assert.False(t, ok)
	assert.Empty(t, d.AtTile(tile))
	assert.Empty(t, d.ByFaction(models.FactionMercenary))
	assert.Zero(t, d.Count())

	// Unknown id is a no-op, not an error.
	assert.False(t, d.Despawn(c.ID))
	assert.False(t, d.Despawn("never-existed"))
}

func TestDespawnLeavesDanglingRelationshipIDs(t *testing.T) {
	d := newTestDirectory(t, 10)
	ctx := context.Background()
	a, err := d.Spawn(ctx, gen.Template{})
	require.NoError(t, err)
	b, err := d.Spawn(ctx, gen.Template{})
	require.NoError(t, err)

	a.RelationshipWith(b.ID).Adjust(models.RelationshipDelta{Opinion: 30})
	require.True(t, d.Despawn(b.ID))

	// The dangling id stays; a directory miss means "no longer present".
	_, stillKnown := a.Relationships.KnownNPCs[b.ID]
	assert.True(t, stillKnown)
	_, present := d.Get(b.ID)
	assert.False(t, present)
}

func TestMarkDeadRetainsRecord(t *testing.T) {
	d := newTestDirectory(t, 10)
	c, err := d.Spawn(context.Background(), gen.Template{})
	require.NoError(t, err)

	assert.True(t, d.MarkDead(c.ID))
	got, ok := d.Get(c.ID)
	require.True(t, ok)
	assert.False(t, got.State.Alive)
	assert.Equal(t, 1, d.Count())

	assert.False(t, d.MarkDead("missing"))
}

type failingEnricher struct{}

func (failingEnricher) Enrich(context.Context, *models.Character) error {
	return errors.New("model overloaded")
}

type appendingEnricher struct{}

func (appendingEnricher) Enrich(_ context.Context, c *models.Character) error {
	c.Personality.Quirks = append(c.Personality.Quirks, "collects storm glass")
	return nil
}

func TestEnrichmentFailureDegradesGracefully(t *testing.T) {
	d := NewDirectory(DirectoryConfig{Cap: 10, Seed: 3}, failingEnricher{}, nil)
	c, err := d.Spawn(context.Background(), gen.Template{Faction: "native"})
	require.NoError(t, err)

	assert.False(t, c.Meta.AIEnriched)
	// Deterministic fields intact.
	assert.NotEmpty(t, c.Name.FullName)
	assert.NotEmpty(t, c.Background.Native.Tribe)
}

func TestEnrichmentSuccessSetsFlag(t *testing.T) {
	d := NewDirectory(DirectoryConfig{Cap: 10, Seed: 3}, appendingEnricher{}, nil)
	c, err := d.Spawn(context.Background(), gen.Template{})
	require.NoError(t, err)

	assert.True(t, c.Meta.AIEnriched)
	assert.Contains(t, c.Personality.Quirks, "collects storm glass")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	d := newTestDirectory(t, 20)
	ctx := context.Background()
	tile := hex.Coord{Q: -1, R: 3}

	a, err := d.Spawn(ctx, gen.Template{Faction: "mercenary", Tile: &tile})
	require.NoError(t, err)
	b, err := d.Spawn(ctx, gen.Template{Faction: "native"})
	require.NoError(t, err)
	_, err = d.Spawn(ctx, gen.Template{})
	require.NoError(t, err)

	a.Relationships.Player.Adjust(models.RelationshipDelta{Opinion: 25, Trust: 10})
	a.RelationshipWith(b.ID).Adjust(models.RelationshipDelta{Fear: 15})
	a.Memory.Remember("the natives helped me", 4, a.Meta.CreatedAt)
	a.Memory.Remember("someone stole my rifle", 6, a.Meta.CreatedAt)

	// Persist through JSON like the real save path does.
	raw, err := json.Marshal(d.Save())
	require.NoError(t, err)
	var save WorldSave
	require.NoError(t, json.Unmarshal(raw, &save))

	d2 := newTestDirectory(t, 20)
	require.NoError(t, d2.Load(save))

	require.Equal(t, d.Count(), d2.Count())
	a2, ok := d2.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, a.Name, a2.Name)
	assert.Equal(t, *a.Relationships.Player, *a2.Relationships.Player)
	assert.Equal(t, 15, a2.Relationships.KnownNPCs[b.ID].Fear)

	require.Len(t, a2.Memory.Events, 2)
	assert.Equal(t, "the natives helped me", a2.Memory.Events[0].Content)
	assert.Equal(t, "someone stole my rifle", a2.Memory.Events[1].Content)

	// Index membership survives.
	require.Len(t, d2.AtTile(tile), 1)
	assert.Equal(t, a.ID, d2.AtTile(tile)[0].ID)
	assert.Len(t, d2.ByFaction(models.FactionNative), 1)

	// Used-name set survives: the same names stay reserved.
	assert.Equal(t, d.Save().UsedNames, d2.Save().UsedNames)
}

func TestLoadRejectsMalformedSave(t *testing.T) {
	d := newTestDirectory(t, 5)
	_, err := d.Spawn(context.Background(), gen.Template{})
	require.NoError(t, err)
	before := d.Count()

	err = d.Load(WorldSave{Characters: []models.CharacterSnapshot{
		{Character: models.Character{ID: ""}},
	}})
	require.Error(t, err)

	dup := models.CharacterSnapshot{Character: models.Character{ID: "npc-x"}}
	err = d.Load(WorldSave{Characters: []models.CharacterSnapshot{dup, dup}})
	require.Error(t, err)

	// Failed loads leave the directory unchanged.
	assert.Equal(t, before, d.Count())
}
