package minirag

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// NewEmbeddingData captures an index and its chunks for persistence.
func NewEmbeddingData(idx *VectorIndex, chunks []Chunk, modelInfo string) (*EmbeddingData, error) {
	if idx.Len() != len(chunks) {
		return nil, fmt.Errorf("index holds %d vectors for %d chunks", idx.Len(), len(chunks))
	}
	return &EmbeddingData{
		Chunks:     chunks,
		Embeddings: idx.Vectors(),
		ModelInfo:  modelInfo,
		Dimension:  idx.Dimension(),
	}, nil
}

// LoadIndex creates a VectorIndex from EmbeddingData
func LoadIndex(data *EmbeddingData) (*VectorIndex, error) {
	if len(data.Chunks) != len(data.Embeddings) {
		return nil, fmt.Errorf("snapshot has %d chunks but %d embeddings", len(data.Chunks), len(data.Embeddings))
	}
	for i, c := range data.Chunks {
		if c.Index != i {
			return nil, fmt.Errorf("snapshot chunk %d carries index %d", i, c.Index)
		}
	}

	idx := NewVectorIndex()
	if err := idx.Add(data.Embeddings); err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if idx.Len() > 0 && idx.Dimension() != data.Dimension {
		return nil, &DimensionMismatchError{Op: "load", Position: -1, Expected: data.Dimension, Got: idx.Dimension()}
	}
	return idx, nil
}

// WriteSnapshot gob-encodes data to w.
func WriteSnapshot(w io.Writer, data *EmbeddingData) error {
	if err := gob.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*EmbeddingData, error) {
	var data EmbeddingData
	if err := gob.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &data, nil
}

// SaveSnapshot writes data to path via a temporary file and a rename.
func SaveSnapshot(path string, data *EmbeddingData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := WriteSnapshot(file, data); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	// Atomic rename
	return os.Rename(tmp, path)
}

// LoadSnapshot reads a snapshot file and rebuilds its index.
func LoadSnapshot(path string) (*VectorIndex, *EmbeddingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err := ReadSnapshot(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	idx, err := LoadIndex(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, data, nil
}
