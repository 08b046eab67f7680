package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/mocks"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/domain/services"
)

func newSearchHandler(hits []ports.EntityHit, err error) *SearchHandler {
	finder := services.NewFinder(
		&mocks.Embedder{Embedding: []float32{0.1}, Err: err},
		&mocks.VectorDB{Hits: hits},
	)
	return NewSearchHandler(finder)
}

func TestSearchHandler_HandleSearch(t *testing.T) {
	hits := []ports.EntityHit{
		{EntityID: "item_blade_weapon_001", Kind: entities.KindItem, Score: 0.9},
		{EntityID: "npc_watcher_guard_001", Kind: entities.KindNPC, Score: 0.6},
	}
	handler := newSearchHandler(hits, nil)

	result, err := handler.HandleSearch(context.Background(), "sharp things", "", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, hits, result.Hits)
}

func TestSearchHandler_HandleSearchByKind(t *testing.T) {
	hits := []ports.EntityHit{
		{EntityID: "item_blade_weapon_001", Kind: entities.KindItem, Score: 0.9},
		{EntityID: "npc_watcher_guard_001", Kind: entities.KindNPC, Score: 0.6},
	}
	handler := newSearchHandler(hits, nil)

	result, err := handler.HandleSearch(context.Background(), "watchful people", entities.KindNPC, 10)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "npc_watcher_guard_001", result.Hits[0].EntityID)
}

func TestSearchHandler_EmbeddingFailure(t *testing.T) {
	handler := newSearchHandler(nil, errors.New("backend down"))

	_, err := handler.HandleSearch(context.Background(), "anything", "", 10)
	assert.Error(t, err)
}

func TestWorldHandler(t *testing.T) {
	store := &mocks.WorldStore{}
	ctx := context.Background()

	world := &entities.World{ID: "world-1", Name: "Testlands"}
	require.NoError(t, store.SaveWorld(ctx, world))

	handler := NewWorldHandler(store)

	summaries, err := handler.HandleList(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Testlands", summaries[0].Name)

	loaded, err := handler.HandleShow(ctx, "world-1")
	require.NoError(t, err)
	assert.Equal(t, "Testlands", loaded.Name)

	require.NoError(t, handler.HandleDelete(ctx, "world-1"))
	_, err = handler.HandleShow(ctx, "world-1")
	assert.Error(t, err)
}
