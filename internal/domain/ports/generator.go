// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// MetadataRequest carries everything the metadata stage needs: the user
// prompt, the narrative summarized from ambient world context (may be
// empty), the category enum to constrain generation, and the kind's rules.
type MetadataRequest struct {
	Kind       entities.Kind
	Prompt     string
	Narrative  string
	Categories []string
	Rules      entities.Rules
}

// Metadata is the structured output of the metadata stage.
type Metadata struct {
	Name              string          `json:"name"`
	Rarity            entities.Rarity `json:"rarity"`
	VisualDescription string          `json:"visual_description"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Purpose           string          `json:"purpose"`
}

// AttributeRequest asks the backend to value the known attribute definitions
// and propose any new ones it judges necessary.
type AttributeRequest struct {
	Kind      entities.Kind
	Prompt    string
	Narrative string
	Metadata  Metadata
	// Known is the union of the category's and the common category's
	// definitions, presented to the backend as a calibration reference.
	Known []entities.AttributeDefinition
}

// RegionRequest asks for lightweight region metadata. Regions skip the
// attribute and image stages entirely.
type RegionRequest struct {
	Spec    entities.RegionSpec
	Context string
}

// RegionMetadata is the generated descriptive metadata for a region.
type RegionMetadata struct {
	Name        string `json:"name"`
	Theme       string `json:"theme"`
	Biome       string `json:"biome"`
	Description string `json:"description"`
}

// Generator defines the interface for structured text generation. All
// methods are JSON-in/JSON-out against the backend; the concrete request
// and response shapes are an infrastructure concern.
type Generator interface {
	// SummarizeContext condenses ambient world context into a short
	// narrative used to steer later stages.
	SummarizeContext(ctx context.Context, worldContext string) (string, error)

	// GenerateMetadata produces schema-constrained entity metadata.
	GenerateMetadata(ctx context.Context, req MetadataRequest) (*Metadata, error)

	// GenerateAttributes values known attribute definitions and may return
	// additional attributes not present in req.Known.
	GenerateAttributes(ctx context.Context, req AttributeRequest) (map[string]entities.Attribute, error)

	// GenerateRegion produces descriptive metadata for one region.
	GenerateRegion(ctx context.Context, req RegionRequest) (*RegionMetadata, error)
}
