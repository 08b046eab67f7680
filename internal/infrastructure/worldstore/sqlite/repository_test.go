package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/infrastructure/config"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "worlds.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func testWorld() *entities.World {
	now := time.Now().UTC().Truncate(time.Second)
	return &entities.World{
		ID:        "world-1",
		Name:      "Testlands",
		CreatedAt: now,
		Regions: []entities.Region{
			{ID: "emberfall_reaches", Name: "Emberfall Reaches", GridX: 0, GridY: 0, Biome: "ashland", CreatedAt: now},
			{ID: "gloom_marsh", Name: "Gloom Marsh", GridX: 1, GridY: 0, Biome: "swamp", CreatedAt: now},
		},
		Locations: []*entities.Entity{
			{
				ID:       "loc_ruined_forge_settlement_001",
				Kind:     entities.KindLocation,
				Name:     "Ruined Forge",
				Rarity:   entities.RarityCommon,
				Category: "settlement",
				Position: entities.Position{Region: "emberfall_reaches", X: 2, Y: 2},
				Attributes: map[string]entities.Attribute{
					"capacity": {Value: 12, Type: entities.AttributeInteger, Description: "how many people fit", Reference: "a hut fits 4"},
				},
				CreatedAt: now,
			},
		},
		NPCs: []*entities.Entity{
			{
				ID:       "npc_weary_blacksmith_villager_001",
				Kind:     entities.KindNPC,
				Name:     "Weary Blacksmith",
				Rarity:   entities.RarityRare,
				Category: "villager",
				Position: entities.Position{Region: "emberfall_reaches", X: 2, Y: 2},
				Conversation: []entities.ConversationTurn{
					{Speaker: "player", Text: "Can you reforge this?", At: now},
				},
				CreatedAt: now,
			},
		},
		Items: []*entities.Entity{
			{
				ID:        "item_bog_lantern_tool_001",
				Kind:      entities.KindItem,
				Name:      "Bog Lantern",
				Rarity:    entities.RarityCommon,
				Category:  "tool",
				ImageRef:  "assets/item_bog_lantern_tool_001.png",
				Position:  entities.Position{Region: "gloom_marsh", X: 1, Y: 4},
				CreatedAt: now,
			},
		},
	}
}

func TestRepository_RequiresPath(t *testing.T) {
	_, err := NewRepository(config.SQLiteConfig{})
	assert.Error(t, err)
}

func TestRepository_SaveAndFindWorld(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	world := testWorld()
	require.NoError(t, repo.SaveWorld(ctx, world))

	loaded, err := repo.FindWorld(ctx, "world-1")
	require.NoError(t, err)

	assert.Equal(t, "Testlands", loaded.Name)
	require.Len(t, loaded.Regions, 2)
	assert.Equal(t, "emberfall_reaches", loaded.Regions[0].ID)
	assert.Equal(t, "ashland", loaded.Regions[0].Biome)

	require.Len(t, loaded.Locations, 1)
	require.Len(t, loaded.NPCs, 1)
	require.Len(t, loaded.Items, 1)

	forge := loaded.Locations[0]
	assert.Equal(t, "Ruined Forge", forge.Name)
	assert.Equal(t, entities.Position{Region: "emberfall_reaches", X: 2, Y: 2}, forge.Position)
	require.Contains(t, forge.Attributes, "capacity")
	// JSON round-trips numeric values as float64.
	assert.EqualValues(t, 12, forge.Attributes["capacity"].Value)
	assert.Equal(t, entities.AttributeInteger, forge.Attributes["capacity"].Type)

	smith := loaded.NPCs[0]
	require.Len(t, smith.Conversation, 1)
	assert.Equal(t, "Can you reforge this?", smith.Conversation[0].Text)

	lantern := loaded.Items[0]
	assert.Equal(t, "assets/item_bog_lantern_tool_001.png", lantern.ImageRef)
	assert.Nil(t, lantern.Conversation)
}

func TestRepository_FindWorldNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindWorld(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world not found")
}

func TestRepository_SaveWorldIsUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	world := testWorld()
	require.NoError(t, repo.SaveWorld(ctx, world))

	world.Name = "Renamed"
	require.NoError(t, repo.SaveWorld(ctx, world))

	loaded, err := repo.FindWorld(ctx, "world-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Name)

	summaries, err := repo.ListWorlds(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

func TestRepository_SaveEntity(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	world := testWorld()
	require.NoError(t, repo.SaveWorld(ctx, world))

	moved := world.Items[0].Clone()
	moved.Position = entities.Position{Region: "gloom_marsh", X: 8, Y: 8}
	require.NoError(t, repo.SaveEntity(ctx, world.ID, moved))

	loaded, err := repo.FindWorld(ctx, world.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 8, loaded.Items[0].Position.X)
}

func TestRepository_ListWorlds(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := testWorld()
	require.NoError(t, repo.SaveWorld(ctx, first))

	second := testWorld()
	second.ID = "world-2"
	second.Name = "Newerlands"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.SaveWorld(ctx, second))

	summaries, err := repo.ListWorlds(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Newest first.
	assert.Equal(t, "world-2", summaries[0].ID)
	assert.Equal(t, "Newerlands", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].RegionCount)
	assert.Equal(t, 3, summaries[0].EntityCount)
	assert.NotEmpty(t, summaries[0].CreatedAt)
}

func TestRepository_DeleteWorldCascades(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	world := testWorld()
	require.NoError(t, repo.SaveWorld(ctx, world))
	require.NoError(t, repo.DeleteWorld(ctx, world.ID))

	_, err := repo.FindWorld(ctx, world.ID)
	assert.Error(t, err)

	var count int
	require.NoError(t, repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM world_entities`).Scan(&count))
	assert.Equal(t, 0, count)

	require.NoError(t, repo.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM regions`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRepository_EnsureSchemaIdempotent(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, repo.EnsureSchema(context.Background()))
}
