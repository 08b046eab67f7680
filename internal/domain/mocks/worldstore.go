package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
)

// WorldStore is an in-memory mock implementation of ports.WorldStore.
type WorldStore struct {
	Err error

	mu     sync.Mutex
	worlds map[string]*entities.World
}

// EnsureSchema is a no-op.
func (m *WorldStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// SaveWorld stores the world in memory.
func (m *WorldStore) SaveWorld(_ context.Context, world *entities.World) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.worlds == nil {
		m.worlds = make(map[string]*entities.World)
	}
	m.worlds[world.ID] = world
	return nil
}

// FindWorld returns a stored world by ID.
func (m *WorldStore) FindWorld(_ context.Context, id string) (*entities.World, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.worlds[id]
	if !ok {
		return nil, fmt.Errorf("world not found: %s", id)
	}
	return w, nil
}

// ListWorlds summarizes all stored worlds.
func (m *WorldStore) ListWorlds(_ context.Context) ([]ports.WorldSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.WorldSummary, 0, len(m.worlds))
	for _, w := range m.worlds {
		out = append(out, ports.WorldSummary{
			ID:          w.ID,
			Name:        w.Name,
			RegionCount: len(w.Regions),
			EntityCount: w.EntityCount(),
		})
	}
	return out, nil
}

// SaveEntity replaces the matching entity inside a stored world.
func (m *WorldStore) SaveEntity(_ context.Context, worldID string, entity *entities.Entity) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.worlds[worldID]
	if !ok {
		return fmt.Errorf("world not found: %s", worldID)
	}
	for _, list := range [][]*entities.Entity{w.Locations, w.NPCs, w.Items} {
		for i, e := range list {
			if e.ID == entity.ID {
				list[i] = entity
				return nil
			}
		}
	}
	return fmt.Errorf("entity not found: %s", entity.ID)
}

// DeleteWorld removes a stored world.
func (m *WorldStore) DeleteWorld(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.worlds, id)
	return nil
}

// Close is a no-op.
func (m *WorldStore) Close() error {
	return nil
}
