package integration

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/world-core/internal/domain/entities"
	embedder "github.com/ersonp/world-core/internal/infrastructure/embedder/openai"
)

// testEmbedding returns a deterministic pseudo-random vector so indexed
// entities have distinct but reproducible positions in vector space.
func testEmbedding(seed int64) []float32 {
	rng := rand.New(rand.NewSource(seed))
	vec := make([]float32, embedder.VectorSize)
	for i := range vec {
		vec[i] = rng.Float32()
	}
	return vec
}

func indexedEntity(id string, kind entities.Kind, name string) *entities.Entity {
	return &entities.Entity{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Rarity:   entities.RarityCommon,
		Category: "weapon",
		Position: entities.Position{Region: "emberfall_reaches", X: 1, Y: 1},
	}
}

func TestQdrantIntegration_IndexAndSearch(t *testing.T) {
	ctx := context.Background()

	blade := indexedEntity("item_emberfall_blade_weapon_001", entities.KindItem, "Emberfall Blade")
	bladeVec := testEmbedding(1)
	require.NoError(t, testRepo.Index(ctx, blade, bladeVec))

	watcher := indexedEntity("npc_watcher_guard_001", entities.KindNPC, "Watcher")
	require.NoError(t, testRepo.Index(ctx, watcher, testEmbedding(2)))

	// Searching with the blade's own vector must rank it first.
	hits, err := testRepo.Search(ctx, bladeVec, 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "item_emberfall_blade_weapon_001", hits[0].EntityID)
	assert.Equal(t, "Emberfall Blade", hits[0].Name)
	assert.Equal(t, "emberfall_reaches", hits[0].Region)
}

func TestQdrantIntegration_SearchByKind(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, testRepo.Index(ctx,
		indexedEntity("item_bog_lantern_tool_001", entities.KindItem, "Bog Lantern"), testEmbedding(3)))
	require.NoError(t, testRepo.Index(ctx,
		indexedEntity("npc_marsh_hermit_villager_001", entities.KindNPC, "Marsh Hermit"), testEmbedding(4)))

	hits, err := testRepo.SearchByKind(ctx, testEmbedding(3), entities.KindNPC, 10)
	require.NoError(t, err)
	for _, h := range hits {
		assert.Equal(t, entities.KindNPC, h.Kind)
	}
}

func TestQdrantIntegration_IndexBatchAndDelete(t *testing.T) {
	ctx := context.Background()

	ents := []*entities.Entity{
		indexedEntity("item_batch_a_weapon_001", entities.KindItem, "Batch A"),
		indexedEntity("item_batch_b_weapon_001", entities.KindItem, "Batch B"),
	}
	vecs := [][]float32{testEmbedding(10), testEmbedding(11)}
	require.NoError(t, testRepo.IndexBatch(ctx, ents, vecs))

	require.NoError(t, testRepo.Delete(ctx, "item_batch_a_weapon_001"))

	hits, err := testRepo.Search(ctx, vecs[0], 50)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "item_batch_a_weapon_001", h.EntityID)
	}
}

func TestQdrantIntegration_BatchLengthMismatch(t *testing.T) {
	err := testRepo.IndexBatch(context.Background(),
		[]*entities.Entity{indexedEntity("item_x_weapon_001", entities.KindItem, "X")},
		nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}
