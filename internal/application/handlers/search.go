package handlers

import (
	"context"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/domain/services"
)

// SearchHandler handles semantic entity search at the application layer.
type SearchHandler struct {
	finder *services.Finder
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(finder *services.Finder) *SearchHandler {
	return &SearchHandler{finder: finder}
}

// SearchResult contains the result of a semantic search.
type SearchResult struct {
	Hits  []ports.EntityHit `json:"hits"`
	Total int               `json:"total"`
}

// HandleSearch searches all entity kinds. When kind is non-empty the search
// is restricted to that kind.
func (h *SearchHandler) HandleSearch(ctx context.Context, query string, kind entities.Kind, limit int) (*SearchResult, error) {
	var (
		hits []ports.EntityHit
		err  error
	)
	if kind != "" {
		hits, err = h.finder.SearchByKind(ctx, query, kind, limit)
	} else {
		hits, err = h.finder.Search(ctx, query, limit)
	}
	if err != nil {
		return nil, err
	}

	return &SearchResult{Hits: hits, Total: len(hits)}, nil
}
