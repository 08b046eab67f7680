package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/mocks"
	"github.com/ersonp/world-core/internal/domain/ports"
)

// titleCase capitalizes each word so generated names differ from prompts.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func metadataFromPrompt(_ context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
	name := strings.TrimPrefix(req.Prompt, "a ")
	return &ports.Metadata{
		Name:              titleCase(name),
		Rarity:            entities.RarityCommon,
		Category:          req.Categories[0],
		VisualDescription: req.Prompt,
		Description:       "Generated for " + req.Prompt + ".",
		Purpose:           "testing",
	}, nil
}

func testWorldSpec() entities.WorldSpec {
	return entities.WorldSpec{
		Name:    "Testlands",
		Context: "A small world used to exercise the pipeline.",
		Regions: []entities.RegionSpec{
			{Name: "Emberfall Reaches", Biome: "ashland", GridX: 0, GridY: 0},
			{Name: "Gloom Marsh", Biome: "swamp", GridX: 1, GridY: 0},
		},
		Locations: []entities.EntitySpec{
			{Prompt: "a ruined forge", Region: "Emberfall Reaches", X: 2, Y: 2},
			{Prompt: "a sunken chapel", Region: "Gloom Marsh", X: 1, Y: 4},
		},
		NPCs: []entities.EntitySpec{
			{Prompt: "a weary blacksmith", Region: "Emberfall Reaches", X: 2, Y: 2},
		},
		Items: []entities.EntitySpec{
			{Prompt: "a fiery sword", Region: "Emberfall Reaches", X: 3, Y: 3},
			{Prompt: "a bog lantern", Region: "Gloom Marsh", X: 1, Y: 4},
		},
	}
}

func newTestOrchestrator(gen *mocks.Generator, opts ...OrchOption) (*Orchestrator, *Registry) {
	synth, _ := newTestSynthesizer(gen, &mocks.ImageGenerator{})
	registry := NewRegistry()
	opts = append([]OrchOption{WithLogger(quietLogger())}, opts...)
	return NewOrchestrator(synth, registry, opts...), registry
}

func TestOrchestrator_BuildWorld(t *testing.T) {
	gen := &mocks.Generator{
		MetadataFunc: metadataFromPrompt,
		Attributes:   swordAttributes(),
	}
	orch, registry := newTestOrchestrator(gen)

	world, err := orch.BuildWorld(context.Background(), testWorldSpec())
	require.NoError(t, err)

	assert.NotEmpty(t, world.ID)
	assert.Equal(t, "Testlands", world.Name)
	require.Len(t, world.Regions, 2)
	assert.Len(t, world.Locations, 2)
	assert.Len(t, world.NPCs, 1)
	assert.Len(t, world.Items, 2)
	assert.Equal(t, 5, world.EntityCount())

	// Every finished entity was registered.
	assert.Equal(t, 2, registry.Count(entities.KindLocation))
	assert.Equal(t, 1, registry.Count(entities.KindNPC))
	assert.Equal(t, 2, registry.Count(entities.KindItem))

	// Entities carry the region's slugged identifier, not its spec name.
	require.NotEmpty(t, world.Items)
	assert.Equal(t, "emberfall_reaches", world.Items[0].Position.Region)

	// The blacksmith and the forge share a bucket.
	view := registry.EntitiesAt("emberfall_reaches", 2, 2)
	assert.Len(t, view.Locations, 1)
	assert.Len(t, view.NPCs, 1)
}

func TestOrchestrator_RejectsInvalidSpec(t *testing.T) {
	orch, _ := newTestOrchestrator(&mocks.Generator{})

	_, err := orch.BuildWorld(context.Background(), entities.WorldSpec{Name: "Empty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid world spec")
}

func TestOrchestrator_EntityFailureDoesNotAbortBatch(t *testing.T) {
	gen := &mocks.Generator{
		Attributes: swordAttributes(),
		MetadataFunc: func(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
			if req.Prompt == "a sunken chapel" {
				return nil, errors.New("backend refused")
			}
			return metadataFromPrompt(ctx, req)
		},
	}
	orch, registry := newTestOrchestrator(gen)

	world, err := orch.BuildWorld(context.Background(), testWorldSpec())
	require.NoError(t, err)

	// The failed location is dropped; everything else survives.
	require.Len(t, world.Locations, 1)
	assert.Equal(t, "Ruined Forge", world.Locations[0].Name)
	assert.Len(t, world.NPCs, 1)
	assert.Len(t, world.Items, 2)
	assert.Equal(t, 1, registry.Count(entities.KindLocation))
}

func TestOrchestrator_RegionFailureDropsItsEntities(t *testing.T) {
	gen := &mocks.Generator{
		Attributes:   swordAttributes(),
		MetadataFunc: metadataFromPrompt,
		RegionFunc: func(_ context.Context, req ports.RegionRequest) (*ports.RegionMetadata, error) {
			if req.Spec.Name == "Gloom Marsh" {
				return nil, errors.New("backend refused")
			}
			return &ports.RegionMetadata{}, nil
		},
	}
	orch, registry := newTestOrchestrator(gen)

	world, err := orch.BuildWorld(context.Background(), testWorldSpec())
	require.NoError(t, err)

	// One region survived; the chapel and the lantern went down with the
	// marsh, the rest of the world is intact.
	require.Len(t, world.Regions, 1)
	assert.Equal(t, "emberfall_reaches", world.Regions[0].ID)
	assert.Len(t, world.Locations, 1)
	assert.Len(t, world.NPCs, 1)
	assert.Len(t, world.Items, 1)

	_, ok := registry.RegionByID("gloom_marsh")
	assert.False(t, ok)
}

func TestOrchestrator_SurvivorsKeepSpecOrder(t *testing.T) {
	spec := entities.WorldSpec{
		Name:    "Ordered",
		Regions: []entities.RegionSpec{{Name: "Plain"}},
	}
	for _, prompt := range []string{"a first", "a second", "a third", "a fourth"} {
		spec.Items = append(spec.Items, entities.EntitySpec{Prompt: prompt, Region: "Plain"})
	}

	gen := &mocks.Generator{
		Attributes: swordAttributes(),
		MetadataFunc: func(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
			if req.Prompt == "a second" {
				return nil, errors.New("backend refused")
			}
			return metadataFromPrompt(ctx, req)
		},
	}
	orch, _ := newTestOrchestrator(gen)

	world, err := orch.BuildWorld(context.Background(), spec)
	require.NoError(t, err)

	require.Len(t, world.Items, 3)
	assert.Equal(t, "First", world.Items[0].Name)
	assert.Equal(t, "Third", world.Items[1].Name)
	assert.Equal(t, "Fourth", world.Items[2].Name)
}

func TestOrchestrator_ConcurrencyCap(t *testing.T) {
	var inFlight, peak atomic.Int64

	gen := &mocks.Generator{
		Attributes: swordAttributes(),
		MetadataFunc: func(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			defer inFlight.Add(-1)
			return metadataFromPrompt(ctx, req)
		},
	}

	spec := entities.WorldSpec{
		Name:    "Crowded",
		Regions: []entities.RegionSpec{{Name: "Plain"}},
	}
	for i := 0; i < 20; i++ {
		spec.Items = append(spec.Items, entities.EntitySpec{Prompt: "a trinket", Region: "Plain"})
	}

	orch, _ := newTestOrchestrator(gen, WithMaxConcurrent(2))

	world, err := orch.BuildWorld(context.Background(), spec)
	require.NoError(t, err)
	assert.Len(t, world.Items, 20)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestOrchestrator_RulesAppliedPerKind(t *testing.T) {
	var gotCategories []string
	gen := &mocks.Generator{
		Attributes: swordAttributes(),
		MetadataFunc: func(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
			if req.Kind == entities.KindItem {
				gotCategories = req.Categories
			}
			return metadataFromPrompt(ctx, req)
		},
	}

	orch, _ := newTestOrchestrator(gen, WithRules(entities.ItemRules{
		RuleBase: entities.RuleBase{Categories: []string{"relic"}},
	}))

	spec := entities.WorldSpec{
		Name:    "Ruled",
		Regions: []entities.RegionSpec{{Name: "Plain"}},
		Items:   []entities.EntitySpec{{Prompt: "a dusty relic", Region: "Plain"}},
	}

	_, err := orch.BuildWorld(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"relic"}, gotCategories)
}
