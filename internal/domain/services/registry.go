package services

import (
	"fmt"
	"sync"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// bucketKey addresses one spatial bucket.
type bucketKey struct {
	region string
	x      int
	y      int
}

// bucket holds the entities present at one (region, x, y), split by kind.
type bucket struct {
	byKind map[entities.Kind]map[string]*entities.Entity
}

func newBucket() *bucket {
	return &bucket{byKind: make(map[entities.Kind]map[string]*entities.Entity)}
}

// BucketView is the read result for one spatial bucket. Unpopulated buckets
// return empty slices, never an error.
type BucketView struct {
	Items     []*entities.Entity
	NPCs      []*entities.Entity
	Locations []*entities.Entity
}

// Registry indexes finished entities by world position while keeping flat
// per-kind registries in sync. The bucket map and the flat registries are
// always mutated together under one lock, so no reader can observe them in
// a mutually inconsistent state.
//
// Regions live in a flat list only; they are bucket keys, not bucket
// contents.
type Registry struct {
	mu      sync.RWMutex
	buckets map[bucketKey]*bucket
	flat    map[entities.Kind]map[string]*entities.Entity

	regions     map[string]*entities.Region
	regionOrder []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		buckets: make(map[bucketKey]*bucket),
		flat: map[entities.Kind]map[string]*entities.Entity{
			entities.KindItem:     make(map[string]*entities.Entity),
			entities.KindNPC:      make(map[string]*entities.Entity),
			entities.KindLocation: make(map[string]*entities.Entity),
		},
		regions: make(map[string]*entities.Region),
	}
}

// Add inserts a new entity into its kind's flat registry and into the
// bucket keyed by its position, creating the bucket if absent. Adding an
// identifier that already exists is a programmer error.
func (r *Registry) Add(entity *entities.Entity) error {
	if entity.Position.Region == "" {
		return fmt.Errorf("entity %s has no region", entity.ID)
	}
	if !entity.Kind.Valid() {
		return fmt.Errorf("entity %s has unknown kind %q", entity.ID, entity.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.flat[entity.Kind][entity.ID]; exists {
		return fmt.Errorf("entity %s already registered", entity.ID)
	}

	stored := entity.Clone()
	r.flat[entity.Kind][entity.ID] = stored
	r.bucketFor(stored.Position, true).insert(stored)
	return nil
}

// Remove deletes an entity from the flat registry and from the bucket that
// holds it. The bucket is found through the flat copy's position, so the
// two structures can never diverge.
func (r *Registry) Remove(id string, kind entities.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.flat[kind][id]
	if !ok {
		return fmt.Errorf("entity %s not found", id)
	}

	delete(r.flat[kind], id)
	r.removeFromBucket(stored)
	return nil
}

// Update overwrites the flat entry and, if the position changed, moves the
// entity from its old bucket to its new one. The whole move is one atomic
// step under the registry lock: no reader can see the entity in zero or two
// buckets.
func (r *Registry) Update(entity *entities.Entity) error {
	if entity.Position.Region == "" {
		return fmt.Errorf("entity %s has no region", entity.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.flat[entity.Kind][entity.ID]
	if !ok {
		return fmt.Errorf("entity %s not found", entity.ID)
	}

	stored := entity.Clone()
	r.flat[entity.Kind][entity.ID] = stored

	oldKey := keyFor(prev.Position)
	newKey := keyFor(stored.Position)
	if oldKey == newKey {
		// Same bucket: replace the stored pointer in place.
		r.buckets[oldKey].insert(stored)
		return nil
	}

	r.removeFromBucket(prev)
	r.bucketFor(stored.Position, true).insert(stored)
	return nil
}

// EntitiesAt returns the entities present at one (region, x, y), split by
// kind. An unpopulated bucket yields empty slices.
func (r *Registry) EntitiesAt(region string, x, y int) BucketView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := BucketView{
		Items:     []*entities.Entity{},
		NPCs:      []*entities.Entity{},
		Locations: []*entities.Entity{},
	}

	b, ok := r.buckets[bucketKey{region: region, x: x, y: y}]
	if !ok {
		return view
	}

	for _, e := range b.byKind[entities.KindItem] {
		view.Items = append(view.Items, e.Clone())
	}
	for _, e := range b.byKind[entities.KindNPC] {
		view.NPCs = append(view.NPCs, e.Clone())
	}
	for _, e := range b.byKind[entities.KindLocation] {
		view.Locations = append(view.Locations, e.Clone())
	}
	return view
}

// ByID looks up an entity in its kind's flat registry.
func (r *Registry) ByID(id string, kind entities.Kind) (*entities.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.flat[kind][id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// All returns every registered entity of a kind.
func (r *Registry) All(kind entities.Kind) []*entities.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Entity, 0, len(r.flat[kind]))
	for _, e := range r.flat[kind] {
		out = append(out, e.Clone())
	}
	return out
}

// Count returns the number of registered entities of a kind.
func (r *Registry) Count(kind entities.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.flat[kind])
}

// AddRegion registers a region. Regions are flat-only.
func (r *Registry) AddRegion(region *entities.Region) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.regions[region.ID]; exists {
		return fmt.Errorf("region %s already registered", region.ID)
	}
	cp := *region
	r.regions[region.ID] = &cp
	r.regionOrder = append(r.regionOrder, region.ID)
	return nil
}

// UpdateRegion overwrites an existing region's metadata.
func (r *Registry) UpdateRegion(region *entities.Region) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.regions[region.ID]; !ok {
		return fmt.Errorf("region %s not found", region.ID)
	}
	cp := *region
	r.regions[region.ID] = &cp
	return nil
}

// RegionByID looks up a region by identifier.
func (r *Registry) RegionByID(id string) (*entities.Region, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	region, ok := r.regions[id]
	if !ok {
		return nil, false
	}
	cp := *region
	return &cp, true
}

// RegionAt looks up a region by its coarse world-map grid coordinates.
func (r *Registry) RegionAt(gridX, gridY int) (*entities.Region, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.regionOrder {
		region := r.regions[id]
		if region.GridX == gridX && region.GridY == gridY {
			cp := *region
			return &cp, true
		}
	}
	return nil, false
}

// Regions returns all registered regions in insertion order.
func (r *Registry) Regions() []entities.Region {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Region, 0, len(r.regionOrder))
	for _, id := range r.regionOrder {
		out = append(out, *r.regions[id])
	}
	return out
}

// bucketFor returns the bucket for a position, creating it when create is
// set. Caller must hold the write lock.
func (r *Registry) bucketFor(pos entities.Position, create bool) *bucket {
	key := keyFor(pos)
	b, ok := r.buckets[key]
	if !ok && create {
		b = newBucket()
		r.buckets[key] = b
	}
	return b
}

// removeFromBucket deletes an entity from the bucket its stored position
// points at, dropping the bucket once empty. Caller must hold the write
// lock.
func (r *Registry) removeFromBucket(stored *entities.Entity) {
	key := keyFor(stored.Position)
	b, ok := r.buckets[key]
	if !ok {
		return
	}
	if set := b.byKind[stored.Kind]; set != nil {
		delete(set, stored.ID)
		if len(set) == 0 {
			delete(b.byKind, stored.Kind)
		}
	}
	if len(b.byKind) == 0 {
		delete(r.buckets, key)
	}
}

func (b *bucket) insert(e *entities.Entity) {
	set := b.byKind[e.Kind]
	if set == nil {
		set = make(map[string]*entities.Entity)
		b.byKind[e.Kind] = set
	}
	set[e.ID] = e
}

func keyFor(pos entities.Position) bucketKey {
	return bucketKey{region: pos.Region, x: pos.X, y: pos.Y}
}
