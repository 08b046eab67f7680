package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
)

// VectorDB is an in-memory mock implementation of ports.VectorDB.
type VectorDB struct {
	Hits []ports.EntityHit
	Err  error

	mu      sync.Mutex
	indexed map[string]*entities.Entity
}

// Index stores the entity in memory.
func (m *VectorDB) Index(_ context.Context, entity *entities.Entity, _ []float32) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexed == nil {
		m.indexed = make(map[string]*entities.Entity)
	}
	m.indexed[entity.ID] = entity
	return nil
}

// IndexBatch stores all entities in memory.
func (m *VectorDB) IndexBatch(ctx context.Context, ents []*entities.Entity, embeddings [][]float32) error {
	for i, e := range ents {
		var emb []float32
		if i < len(embeddings) {
			emb = embeddings[i]
		}
		if err := m.Index(ctx, e, emb); err != nil {
			return err
		}
	}
	return nil
}

// Search returns the configured hits or error.
func (m *VectorDB) Search(_ context.Context, _ []float32, _ int) ([]ports.EntityHit, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Hits, nil
}

// SearchByKind returns only the configured hits of the requested kind.
func (m *VectorDB) SearchByKind(_ context.Context, _ []float32, kind entities.Kind, _ int) ([]ports.EntityHit, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []ports.EntityHit
	for _, h := range m.Hits {
		if h.Kind == kind {
			out = append(out, h)
		}
	}
	return out, nil
}

// Delete removes an entity from memory.
func (m *VectorDB) Delete(_ context.Context, entityID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexed, entityID)
	return nil
}

// IndexedCount returns how many entities have been indexed.
func (m *VectorDB) IndexedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indexed)
}
