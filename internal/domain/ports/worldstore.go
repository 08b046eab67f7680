package ports

import (
	"context"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// WorldSummary is a lightweight listing row for saved worlds.
type WorldSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RegionCount int    `json:"region_count"`
	EntityCount int    `json:"entity_count"`
	CreatedAt   string `json:"created_at"`
}

// WorldStore defines the interface for persisting generated worlds.
type WorldStore interface {
	// EnsureSchema creates the store's schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// SaveWorld persists a world with all its regions and entities.
	SaveWorld(ctx context.Context, world *entities.World) error

	// FindWorld loads a world by ID, including regions and entities.
	FindWorld(ctx context.Context, id string) (*entities.World, error)

	// ListWorlds returns summaries of all saved worlds, newest first.
	ListWorlds(ctx context.Context) ([]WorldSummary, error)

	// SaveEntity upserts a single entity of an already-saved world, used
	// for in-place updates after generation (position or attribute change).
	SaveEntity(ctx context.Context, worldID string, entity *entities.Entity) error

	// DeleteWorld removes a world and everything in it.
	DeleteWorld(ctx context.Context, id string) error

	// Close releases the underlying connection.
	Close() error
}
