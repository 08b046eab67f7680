package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/mocks"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/domain/services"
)

func testSpec() entities.WorldSpec {
	return entities.WorldSpec{
		Name:    "Testlands",
		Regions: []entities.RegionSpec{{Name: "Emberfall Reaches"}},
		Items: []entities.EntitySpec{
			{Prompt: "a fiery sword", Region: "Emberfall Reaches", X: 1, Y: 1},
			{Prompt: "a bog lantern", Region: "Emberfall Reaches", X: 2, Y: 2},
		},
	}
}

func newTestOrchestrator(gen ports.Generator) *services.Orchestrator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	synth := services.NewSynthesizer(gen, &mocks.ImageGenerator{}, services.NewTaxonomySet(), services.NewAllocator(),
		services.WithSynthLogger(logger))
	return services.NewOrchestrator(synth, services.NewRegistry(), services.WithLogger(logger))
}

func workingGenerator() *mocks.Generator {
	return &mocks.Generator{
		MetadataFunc: func(_ context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
			return &ports.Metadata{
				Name:              req.Prompt,
				Rarity:            entities.RarityCommon,
				Category:          req.Categories[0],
				VisualDescription: req.Prompt,
				Description:       "generated",
			}, nil
		},
		Attributes: map[string]entities.Attribute{},
	}
}

func TestGenerateHandler_HandleGenerate(t *testing.T) {
	store := &mocks.WorldStore{}
	vectorDB := &mocks.VectorDB{}
	finder := services.NewFinder(&mocks.Embedder{Embedding: []float32{0.1}}, vectorDB)
	handler := NewGenerateHandler(newTestOrchestrator(workingGenerator()), store, finder)

	result, err := handler.HandleGenerate(context.Background(), testSpec())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 2, result.Generated)
	assert.True(t, result.Indexed)
	assert.Equal(t, 2, vectorDB.IndexedCount())

	// The world was persisted under its generated ID.
	saved, err := store.FindWorld(context.Background(), result.World.ID)
	require.NoError(t, err)
	assert.Equal(t, "Testlands", saved.Name)
}

func TestGenerateHandler_NilFinderSkipsIndexing(t *testing.T) {
	handler := NewGenerateHandler(newTestOrchestrator(workingGenerator()), &mocks.WorldStore{}, nil)

	result, err := handler.HandleGenerate(context.Background(), testSpec())
	require.NoError(t, err)
	assert.False(t, result.Indexed)
}

func TestGenerateHandler_ReportsPartialGeneration(t *testing.T) {
	gen := workingGenerator()
	inner := gen.MetadataFunc
	gen.MetadataFunc = func(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
		if req.Prompt == "a bog lantern" {
			return nil, errors.New("backend refused")
		}
		return inner(ctx, req)
	}
	handler := NewGenerateHandler(newTestOrchestrator(gen), &mocks.WorldStore{}, nil)

	result, err := handler.HandleGenerate(context.Background(), testSpec())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 1, result.Generated)
}

func TestGenerateHandler_IndexFailureDoesNotFailGeneration(t *testing.T) {
	store := &mocks.WorldStore{}
	finder := services.NewFinder(&mocks.Embedder{Err: errors.New("embedding backend down")}, &mocks.VectorDB{})
	handler := NewGenerateHandler(newTestOrchestrator(workingGenerator()), store, finder,
		WithGenerateLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	result, err := handler.HandleGenerate(context.Background(), testSpec())
	require.NoError(t, err)

	// The world is saved and reported; only the index flag reflects the failure.
	assert.Equal(t, 2, result.Generated)
	assert.False(t, result.Indexed)

	saved, err := store.FindWorld(context.Background(), result.World.ID)
	require.NoError(t, err)
	assert.Equal(t, "Testlands", saved.Name)
}

func TestGenerateHandler_SaveFailure(t *testing.T) {
	store := &mocks.WorldStore{Err: errors.New("disk full")}
	handler := NewGenerateHandler(newTestOrchestrator(workingGenerator()), store, nil)

	_, err := handler.HandleGenerate(context.Background(), testSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving world")
}

func TestGenerateHandler_InvalidSpec(t *testing.T) {
	handler := NewGenerateHandler(newTestOrchestrator(workingGenerator()), &mocks.WorldStore{}, nil)

	_, err := handler.HandleGenerate(context.Background(), entities.WorldSpec{Name: "Empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building world")
}
