package entities

import "time"

// Region is a coarse area of the world map. Regions have no attribute
// taxonomy and are never placed inside spatial buckets; they are the buckets'
// outermost key.
type Region struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	GridX       int       `json:"grid_x"`
	GridY       int       `json:"grid_y"`
	Theme       string    `json:"theme"`
	Biome       string    `json:"biome"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
