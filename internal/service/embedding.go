package service

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
)

// Embedder maps an ordered batch of texts to fixed-dimension vectors,
// preserving order. All vectors produced within one process share the same
// dimensionality. An empty batch returns no vectors and makes no
// downstream call.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// StubEmbedder produces deterministic pseudo-random unit vectors from a
// content hash of each text. It stands in for the provider when no API key
// is configured, so local ingestion and retrieval stay exercisable.
type StubEmbedder struct {
	dimensions int
}

// NewStubEmbedder creates a StubEmbedder with the given dimensionality.
func NewStubEmbedder(dimensions int) *StubEmbedder {
	return &StubEmbedder{dimensions: dimensions}
}

func (e *StubEmbedder) Dimensions() int {
	return e.dimensions
}

// EmbedTexts generates one vector per input text. The same text always
// yields the same vector, within a process and across processes: the seed
// is a content hash, not a map-order or address-derived value.
func (e *StubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embed(text)
	}
	return embeddings, nil
}

func (e *StubEmbedder) embed(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float64, e.dimensions)
	var sumSquares float64
	for i := range vec {
		vec[i] = rng.NormFloat64()
		sumSquares += vec[i] * vec[i]
	}

	norm := math.Sqrt(sumSquares)
	out := make([]float32, e.dimensions)
	if norm == 0 {
		return out
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
