package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/ersonp/world-core/internal/domain/entities"
)

var (
	// reSlugStrip matches characters that aren't alphanumeric, underscore,
	// or space (spaces are converted to underscores afterwards).
	reSlugStrip = regexp.MustCompile(`[^a-z0-9_ ]`)
	// reSlugUnderscores collapses consecutive underscores.
	reSlugUnderscores = regexp.MustCompile(`_+`)
)

// Slug converts a display name or category into its identifier form:
// lower-cased, non-alphanumeric stripped, spaces to underscores.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reSlugStrip.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "_")
	s = reSlugUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// counterKey scopes an allocator counter to one (kind, category) pair.
type counterKey struct {
	kind     entities.Kind
	category string
}

// Allocator produces unique, human-legible, monotonically increasing entity
// identifiers. It is an explicit service object rather than package state so
// tests can construct isolated allocators.
type Allocator struct {
	mu       sync.Mutex
	counters map[counterKey]int
}

// NewAllocator creates an allocator with all counters at zero.
func NewAllocator() *Allocator {
	return &Allocator{
		counters: make(map[counterKey]int),
	}
}

// Next returns the next identifier for the (kind, category) pair:
//
//	<kindTag>_<slug(displayName)>_<slug(category)>_<counter %03d>
//
// For a fixed pair no two calls ever return the same identifier, regardless
// of display-name collisions: uniqueness comes from the counter alone.
func (a *Allocator) Next(kind entities.Kind, category, displayName string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := counterKey{kind: kind, category: category}
	a.counters[key]++
	return fmt.Sprintf("%s_%s_%s_%03d", kind.Tag(), Slug(displayName), Slug(category), a.counters[key])
}

// Reset zeroes every counter. Test use only.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters = make(map[counterKey]int)
}
