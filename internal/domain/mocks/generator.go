// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
)

// Generator is a mock implementation of ports.Generator. Fixed return
// values can be set directly; per-call behavior can be overridden with the
// corresponding Func field.
type Generator struct {
	// SummarizeContext return values
	Narrative    string
	NarrativeErr error

	// GenerateMetadata return values
	Metadata    *ports.Metadata
	MetadataErr error
	// MetadataFunc, when set, overrides the fixed return values.
	MetadataFunc func(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error)

	// GenerateAttributes return values
	Attributes    map[string]entities.Attribute
	AttributesErr error
	// AttributesFunc, when set, overrides the fixed return values.
	AttributesFunc func(ctx context.Context, req ports.AttributeRequest) (map[string]entities.Attribute, error)

	// GenerateRegion return values
	Region    *ports.RegionMetadata
	RegionErr error
	// RegionFunc, when set, overrides the fixed return values.
	RegionFunc func(ctx context.Context, req ports.RegionRequest) (*ports.RegionMetadata, error)
}

// SummarizeContext returns the configured narrative or error.
func (m *Generator) SummarizeContext(_ context.Context, _ string) (string, error) {
	if m.NarrativeErr != nil {
		return "", m.NarrativeErr
	}
	return m.Narrative, nil
}

// GenerateMetadata returns the configured metadata or error.
func (m *Generator) GenerateMetadata(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
	if m.MetadataFunc != nil {
		return m.MetadataFunc(ctx, req)
	}
	if m.MetadataErr != nil {
		return nil, m.MetadataErr
	}
	return m.Metadata, nil
}

// GenerateAttributes returns the configured attributes or error.
func (m *Generator) GenerateAttributes(ctx context.Context, req ports.AttributeRequest) (map[string]entities.Attribute, error) {
	if m.AttributesFunc != nil {
		return m.AttributesFunc(ctx, req)
	}
	if m.AttributesErr != nil {
		return nil, m.AttributesErr
	}
	return m.Attributes, nil
}

// GenerateRegion returns the configured region metadata or error.
func (m *Generator) GenerateRegion(ctx context.Context, req ports.RegionRequest) (*ports.RegionMetadata, error) {
	if m.RegionFunc != nil {
		return m.RegionFunc(ctx, req)
	}
	if m.RegionErr != nil {
		return nil, m.RegionErr
	}
	if m.Region != nil {
		return m.Region, nil
	}
	return &ports.RegionMetadata{}, nil
}
