package handlers

import (
	"context"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
)

// WorldHandler handles saved-world operations at the application layer.
type WorldHandler struct {
	store ports.WorldStore
}

// NewWorldHandler creates a WorldHandler.
func NewWorldHandler(store ports.WorldStore) *WorldHandler {
	return &WorldHandler{store: store}
}

// HandleList returns summaries of all saved worlds.
func (h *WorldHandler) HandleList(ctx context.Context) ([]ports.WorldSummary, error) {
	return h.store.ListWorlds(ctx)
}

// HandleShow loads a full world by ID.
func (h *WorldHandler) HandleShow(ctx context.Context, id string) (*entities.World, error) {
	return h.store.FindWorld(ctx, id)
}

// HandleDelete removes a saved world.
func (h *WorldHandler) HandleDelete(ctx context.Context, id string) error {
	return h.store.DeleteWorld(ctx, id)
}
