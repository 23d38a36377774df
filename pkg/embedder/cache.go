package embedder

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// CachedEmbedder keeps recently embedded texts in an LRU so repeated queries
// do not reach the provider. Misses of one call are forwarded as one batch.
type CachedEmbedder struct {
	inner  Embedder
	cache  *lru.Cache[string, []float32]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedEmbedder wraps inner with an LRU holding up to size vectors.
func NewCachedEmbedder(inner Embedder, size int) (*CachedEmbedder, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("creating embedding cache: %w", err)
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

func (c *CachedEmbedder) key(text string) string {
	return c.inner.ModelInfo() + "\x00" + text
}

// Embed returns cached vectors where present and embeds the rest.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		if v, ok := c.cache.Get(c.key(text)); ok {
			out[i] = clone(v)
			c.hits.Add(1)
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}
	c.misses.Add(uint64(len(missTexts)))

	vecs, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if err := Validate(c.inner.ModelInfo(), len(missTexts), vecs); err != nil {
		return nil, err
	}

	for j, i := range missIdx {
		c.cache.Add(c.key(missTexts[j]), clone(vecs[j]))
		out[i] = vecs[j]
	}

	// Cached and fresh vectors must agree on dimension too.
	if err := Validate(c.inner.ModelInfo(), len(texts), out); err != nil {
		return nil, err
	}
	return out, nil
}

// ModelInfo returns the wrapped embedder's model information.
func (c *CachedEmbedder) ModelInfo() string {
	return c.inner.ModelInfo()
}

// Stats returns hit and miss counts since creation.
func (c *CachedEmbedder) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.cache.Len(),
	}
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
