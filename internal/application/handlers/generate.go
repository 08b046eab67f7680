// Package handlers contains application-layer operations over domain services.
package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/domain/services"
)

// GenerateHandler runs world generation end to end: orchestrate synthesis,
// persist the result, and index it for semantic search.
type GenerateHandler struct {
	orchestrator *services.Orchestrator
	store        ports.WorldStore
	finder       *services.Finder
	logger       *slog.Logger
}

// GenerateOption is a functional option for NewGenerateHandler.
type GenerateOption func(*GenerateHandler)

// WithGenerateLogger sets the logger used for non-fatal failures.
func WithGenerateLogger(l *slog.Logger) GenerateOption {
	return func(h *GenerateHandler) { h.logger = l }
}

// NewGenerateHandler creates a GenerateHandler. finder may be nil when no
// vector index is configured; generation then skips indexing.
func NewGenerateHandler(orchestrator *services.Orchestrator, store ports.WorldStore, finder *services.Finder, opts ...GenerateOption) *GenerateHandler {
	h := &GenerateHandler{
		orchestrator: orchestrator,
		store:        store,
		finder:       finder,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// GenerateResult reports what a generation run produced.
type GenerateResult struct {
	World     *entities.World `json:"world"`
	Requested int             `json:"requested"`
	Generated int             `json:"generated"`
	Indexed   bool            `json:"indexed"`
}

// HandleGenerate builds the world described by spec, saves it, and indexes
// its entities.
func (h *GenerateHandler) HandleGenerate(ctx context.Context, spec entities.WorldSpec) (*GenerateResult, error) {
	world, err := h.orchestrator.BuildWorld(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	if err := h.store.SaveWorld(ctx, world); err != nil {
		return nil, fmt.Errorf("saving world: %w", err)
	}

	result := &GenerateResult{
		World:     world,
		Requested: len(spec.Locations) + len(spec.NPCs) + len(spec.Items),
		Generated: world.EntityCount(),
	}

	if h.finder != nil {
		// The world is already saved; a broken vector index must not make a
		// successful generation look failed.
		if err := h.finder.Index(ctx, world.AllEntities()); err != nil {
			h.logger.Warn("indexing world failed; search will miss these entities",
				"world", world.ID,
				"error", err)
		} else {
			result.Indexed = true
		}
	}

	return result, nil
}
