package entities

import "time"

// World is the assembled output of one orchestrator run. Failed syntheses
// are filtered out before assembly, so a World is always internally valid
// even when it is smaller than its spec asked for.
type World struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Regions   []Region  `json:"regions"`
	Locations []*Entity `json:"locations"`
	NPCs      []*Entity `json:"npcs"`
	Items     []*Entity `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// EntityCount returns the total number of placed entities across all kinds.
func (w *World) EntityCount() int {
	return len(w.Locations) + len(w.NPCs) + len(w.Items)
}

// AllEntities returns every placed entity in the world, locations first,
// then NPCs, then items.
func (w *World) AllEntities() []*Entity {
	all := make([]*Entity, 0, w.EntityCount())
	all = append(all, w.Locations...)
	all = append(all, w.NPCs...)
	all = append(all, w.Items...)
	return all
}
