package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
)

// Finder indexes entity descriptions as vectors and answers semantic
// queries against a generated world.
type Finder struct {
	embedder ports.Embedder
	vectorDB ports.VectorDB
}

// NewFinder creates a finder.
func NewFinder(embedder ports.Embedder, vectorDB ports.VectorDB) *Finder {
	return &Finder{
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// Index embeds and stores every entity in the batch.
func (f *Finder) Index(ctx context.Context, ents []*entities.Entity) error {
	if len(ents) == 0 {
		return nil
	}

	texts := make([]string, len(ents))
	for i, e := range ents {
		texts[i] = entityToText(e)
	}

	embeddings, err := f.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding entities: %w", err)
	}

	if err := f.vectorDB.IndexBatch(ctx, ents, embeddings); err != nil {
		return fmt.Errorf("indexing entities: %w", err)
	}
	return nil
}

// Search returns the entities closest to the free-text query.
func (f *Finder) Search(ctx context.Context, query string, limit int) ([]ports.EntityHit, error) {
	embedding, err := f.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := f.vectorDB.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching entities: %w", err)
	}
	return hits, nil
}

// SearchByKind restricts Search to one entity kind.
func (f *Finder) SearchByKind(ctx context.Context, query string, kind entities.Kind, limit int) ([]ports.EntityHit, error) {
	embedding, err := f.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := f.vectorDB.SearchByKind(ctx, embedding, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("searching entities by kind: %w", err)
	}
	return hits, nil
}

// entityToText converts an entity to searchable text for embedding.
func entityToText(e *entities.Entity) string {
	parts := []string{
		e.Name,
		e.Category,
		e.VisualDescription,
		e.Description,
	}
	if e.Purpose != "" {
		parts = append(parts, e.Purpose)
	}
	return strings.Join(parts, " ")
}
