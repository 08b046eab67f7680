package ports

import (
	"context"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// EntityHit is one semantic-search result.
type EntityHit struct {
	EntityID string        `json:"entity_id"`
	Kind     entities.Kind `json:"kind"`
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Region   string        `json:"region"`
	Score    float32       `json:"score"`
}

// VectorDB defines the interface for the entity description index.
type VectorDB interface {
	// Index stores an entity's description embedding.
	Index(ctx context.Context, entity *entities.Entity, embedding []float32) error

	// IndexBatch stores multiple entities with their embeddings. The two
	// slices must be the same length.
	IndexBatch(ctx context.Context, ents []*entities.Entity, embeddings [][]float32) error

	// Search returns entities whose descriptions are semantically closest
	// to the query embedding.
	Search(ctx context.Context, embedding []float32, limit int) ([]EntityHit, error)

	// SearchByKind restricts Search to one entity kind.
	SearchByKind(ctx context.Context, embedding []float32, kind entities.Kind, limit int) ([]EntityHit, error)

	// Delete removes an entity from the index.
	Delete(ctx context.Context, entityID string) error
}
