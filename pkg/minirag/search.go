package minirag

import (
	"math"
	"sort"
	"sync"
)

// VectorIndex is an append-only flat index searched by exhaustive L2 scan.
// The position of a vector is the order in which it was added across all
// Add calls. The dimension is fixed by the first vector ever added.
type VectorIndex struct {
	mu         sync.RWMutex
	embeddings [][]float32
	dimension  int
}

// NewVectorIndex returns an empty index with no dimension established.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Add appends vectors in order. The whole batch is checked before anything
// is stored, so a mismatched vector leaves the index untouched.
func (idx *VectorIndex) Add(vectors [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	dim := idx.dimension
	for i, v := range vectors {
		if dim == 0 && len(v) > 0 {
			dim = len(v)
		}
		if len(v) != dim || len(v) == 0 {
			return &DimensionMismatchError{Op: "add", Position: i, Expected: dim, Got: len(v)}
		}
	}

	for _, v := range vectors {
		stored := make([]float32, len(v))
		copy(stored, v)
		idx.embeddings = append(idx.embeddings, stored)
	}
	idx.dimension = dim
	return nil
}

// Search returns the min(k, Len()) stored vectors nearest to query by
// Euclidean distance, closest first, ties broken by lower position.
// An empty index yields an empty result.
func (idx *VectorIndex) Search(query []float32, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.embeddings) == 0 {
		return []Neighbor{}, nil
	}
	if len(query) != idx.dimension {
		return nil, &DimensionMismatchError{Op: "search", Position: -1, Expected: idx.dimension, Got: len(query)}
	}

	type scored struct {
		index int
		sq    float64
	}
	results := make([]scored, len(idx.embeddings))
	for i, v := range idx.embeddings {
		results[i] = scored{index: i, sq: squaredL2(query, v)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].sq != results[j].sq {
			return results[i].sq < results[j].sq
		}
		return results[i].index < results[j].index
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]Neighbor, k)
	for i := range out {
		out[i] = Neighbor{
			Index:    results[i].index,
			Distance: float32(math.Sqrt(results[i].sq)),
		}
	}
	return out, nil
}

// Len returns the number of stored vectors.
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.embeddings)
}

// Dimension returns the established dimension, or 0 for an empty index.
func (idx *VectorIndex) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Vectors returns a copy of the stored vectors in position order.
func (idx *VectorIndex) Vectors() [][]float32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([][]float32, len(idx.embeddings))
	for i, v := range idx.embeddings {
		out[i] = make([]float32, len(v))
		copy(out[i], v)
	}
	return out
}

// L2Distance computes the Euclidean distance between two vectors of equal length.
func L2Distance(a, b []float32) float32 {
	return float32(math.Sqrt(squaredL2(a, b)))
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
