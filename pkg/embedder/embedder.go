// Package embedder maps batches of text to fixed-dimension vectors.
package embedder

import (
	"context"
	"math"
)

// Embedder turns texts into vectors, one per text and in input order.
// A single call to Embed is a single batch against the provider.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelInfo() string
}

// Validate checks a provider response against the request it answers:
// one vector per input, all of them sharing the same non-zero length.
func Validate(provider string, inputs int, vectors [][]float32) error {
	if len(vectors) != inputs {
		return newProviderError(provider, ErrTypeCount, nil,
			"expected %d embeddings, got %d", inputs, len(vectors))
	}
	if inputs == 0 {
		return nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return newProviderError(provider, ErrTypeMalformed, nil, "embedding 0 is empty")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return newProviderError(provider, ErrTypeDimension, nil,
				"embedding %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return nil
}

// HashEmbedder is a deterministic offline embedder built from character
// codes. It needs no network and is useful for tests and dry runs; its
// vectors carry no semantic meaning.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates an offline embedder producing vectors of the given dimension.
func NewHashEmbedder(dimension int) *HashEmbedder {
	return &HashEmbedder{dim: dimension}
}

// Embed generates one vector per text.
func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.dim <= 0 {
		return nil, newProviderError(e.ModelInfo(), ErrTypeConfiguration, nil,
			"dimension must be positive, got %d", e.dim)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, newProviderError(e.ModelInfo(), ErrTypeCanceled, err, "call canceled before text %d", i)
		}

		vec := make([]float32, e.dim)
		for j, char := range text {
			vec[j%e.dim] += float32(char) / 1000.0
		}
		l2normalize(vec)
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Dimension returns the embedding dimension
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// ModelInfo returns model information
func (e *HashEmbedder) ModelInfo() string {
	return "hash-embedder-v1"
}

// l2normalize normalizes a vector to unit length
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
