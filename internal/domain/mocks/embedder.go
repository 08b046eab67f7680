package mocks

import "context"

// Embedder is a mock implementation of ports.Embedder. It returns a fixed
// embedding per text unless an error is configured.
type Embedder struct {
	Embedding []float32
	Err       error
}

// Embed returns the configured embedding or error.
func (m *Embedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Embedding, nil
}

// EmbedBatch returns one configured embedding per input text.
func (m *Embedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.Embedding
	}
	return out, nil
}
