package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ersonp/world-core/internal/application/handlers"
	"github.com/ersonp/world-core/internal/domain/services"
	"github.com/ersonp/world-core/internal/infrastructure/config"
	embedder "github.com/ersonp/world-core/internal/infrastructure/embedder/openai"
	imagegen "github.com/ersonp/world-core/internal/infrastructure/image/openai"
	llm "github.com/ersonp/world-core/internal/infrastructure/llm/openai"
	"github.com/ersonp/world-core/internal/infrastructure/vectordb/qdrant"
	"github.com/ersonp/world-core/internal/infrastructure/worldstore/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config          *config.Config
	GenerateHandler *handlers.GenerateHandler
	WorldHandler    *handlers.WorldHandler
	SearchHandler   *handlers.SearchHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	vectorRepo, err := qdrant.NewRepository(cfg.Qdrant)
	if err != nil {
		return fmt.Errorf("creating qdrant repository: %w", err)
	}
	defer vectorRepo.Close()

	gen, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}

	images, err := imagegen.NewClient(cfg.Image)
	if err != nil {
		return fmt.Errorf("creating image client: %w", err)
	}

	emb, err := embedder.NewEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	taxonomies := services.NewTaxonomySet()
	allocator := services.NewAllocator()
	registry := services.NewRegistry()

	synth := services.NewSynthesizer(gen, images, taxonomies, allocator,
		services.WithSynthLogger(logger),
		services.WithArtStyle(cfg.Generation.ArtStyle),
	)
	orchestrator := services.NewOrchestrator(synth, registry,
		services.WithLogger(logger),
		services.WithMaxConcurrent(cfg.Generation.MaxConcurrent),
		services.WithCallTimeout(time.Duration(cfg.Generation.CallTimeoutSeconds)*time.Second),
	)
	finder := services.NewFinder(emb, vectorRepo)

	return fn(&Deps{
		Config:          cfg,
		GenerateHandler: handlers.NewGenerateHandler(orchestrator, store, finder, handlers.WithGenerateLogger(logger)),
		WorldHandler:    handlers.NewWorldHandler(store),
		SearchHandler:   handlers.NewSearchHandler(finder),
	})
}
