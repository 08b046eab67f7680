// Package services contains domain business logic.
package services

import (
	"sync"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// Taxonomy is the growing library of attribute definitions for one entity
// kind, bucketed by category. It is append-only: definitions are never
// edited or removed once inserted, so historical generations stay
// reproducible against any snapshot.
//
// Merge is serialized by a mutex so that two entities of the same category
// discovering the same attribute concurrently still append it exactly once.
type Taxonomy struct {
	kind entities.Kind

	mu         sync.RWMutex
	categories map[string]*entities.CategoryDefinition
	order      []string // category insertion order
}

// NewTaxonomy creates an empty taxonomy for the given kind.
func NewTaxonomy(kind entities.Kind) *Taxonomy {
	return &Taxonomy{
		kind:       kind,
		categories: make(map[string]*entities.CategoryDefinition),
	}
}

// Kind returns the entity kind this taxonomy belongs to.
func (t *Taxonomy) Kind() entities.Kind {
	return t.kind
}

// Lookup returns the attribute definitions for a category plus the common
// category, in insertion order (category first, then common). Unknown
// categories contribute nothing rather than failing.
func (t *Taxonomy) Lookup(category string) []entities.AttributeDefinition {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var defs []entities.AttributeDefinition
	if cat, ok := t.categories[category]; ok {
		defs = append(defs, cat.Attributes...)
	}
	if category != entities.CommonCategory {
		if common, ok := t.categories[entities.CommonCategory]; ok {
			defs = append(defs, common.Attributes...)
		}
	}
	return defs
}

// Merge appends each definition not already present (by name) in the given
// category, creating the category if it does not exist. Definitions already
// present are left untouched, which makes Merge idempotent.
func (t *Taxonomy) Merge(category string, defs []entities.AttributeDefinition) {
	if len(defs) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cat, ok := t.categories[category]
	if !ok {
		cat = &entities.CategoryDefinition{Name: category}
		t.categories[category] = cat
		t.order = append(t.order, category)
	}

	known := make(map[string]bool, len(cat.Attributes))
	for _, d := range cat.Attributes {
		known[d.Name] = true
	}

	for _, d := range defs {
		if d.Name == "" || known[d.Name] {
			continue
		}
		cat.Attributes = append(cat.Attributes, d)
		known[d.Name] = true
	}
}

// Categories returns known category names in insertion order, excluding the
// common category. Falls back to the kind's hardcoded defaults when the
// taxonomy has no real categories yet, so the metadata stage always has a
// non-empty enum to offer the backend.
func (t *Taxonomy) Categories() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var names []string
	for _, name := range t.order {
		if name != entities.CommonCategory {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return entities.DefaultCategories(t.kind)
	}
	return names
}

// Has reports whether a category exists in the taxonomy.
func (t *Taxonomy) Has(category string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.categories[category]
	return ok
}

// Snapshot returns a deep copy of every category in insertion order, for
// display and persistence.
func (t *Taxonomy) Snapshot() []entities.CategoryDefinition {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]entities.CategoryDefinition, 0, len(t.order))
	for _, name := range t.order {
		cat := t.categories[name]
		cp := entities.CategoryDefinition{
			Name:       cat.Name,
			Attributes: make([]entities.AttributeDefinition, len(cat.Attributes)),
		}
		copy(cp.Attributes, cat.Attributes)
		out = append(out, cp)
	}
	return out
}

// TaxonomySet bundles the three per-kind taxonomies that a synthesizer
// works against.
type TaxonomySet struct {
	taxonomies map[entities.Kind]*Taxonomy
}

// NewTaxonomySet creates one empty taxonomy per entity kind.
func NewTaxonomySet() *TaxonomySet {
	return &TaxonomySet{
		taxonomies: map[entities.Kind]*Taxonomy{
			entities.KindItem:     NewTaxonomy(entities.KindItem),
			entities.KindNPC:      NewTaxonomy(entities.KindNPC),
			entities.KindLocation: NewTaxonomy(entities.KindLocation),
		},
	}
}

// For returns the taxonomy for a kind.
func (s *TaxonomySet) For(kind entities.Kind) *Taxonomy {
	return s.taxonomies[kind]
}
