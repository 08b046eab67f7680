package ports

import (
	"context"
	"errors"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// ErrImageBlocked reports that the backend refused the prompt with an
// explicit content-safety block. Callers should treat it as recoverable:
// retry with a softened prompt or accept a placeholder, rather than fail
// the way a network or decode error would.
var ErrImageBlocked = errors.New("image generation blocked by content safety filter")

// ImageRequest describes the asset to render for an entity.
type ImageRequest struct {
	EntityID string
	Subject  string // the entity's visual description
	Category string
	Rarity   entities.Rarity
	Style    string // art-style parameter from the generation rules
}

// ImageGenerator defines the interface for image generation. Generate
// returns a reference (file path or URI) to the stored asset.
type ImageGenerator interface {
	Generate(ctx context.Context, req ImageRequest) (string, error)
}
