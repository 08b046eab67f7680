package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/world-core/internal/domain/ports"
)

// ImageGenerator is a mock implementation of ports.ImageGenerator. Safe for
// concurrent use; the synthesizer calls it in parallel with the attribute
// stage.
type ImageGenerator struct {
	Ref string
	Err error
	// GenerateFunc, when set, overrides the fixed return values.
	GenerateFunc func(ctx context.Context, req ports.ImageRequest) (string, error)

	mu       sync.Mutex
	requests []ports.ImageRequest
}

// Requests returns a copy of every request received, in call order.
func (m *ImageGenerator) Requests() []ports.ImageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.ImageRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate returns the configured ref or error.
func (m *ImageGenerator) Generate(ctx context.Context, req ports.ImageRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Ref != "" {
		return m.Ref, nil
	}
	return "assets/" + req.EntityID + ".png", nil
}
