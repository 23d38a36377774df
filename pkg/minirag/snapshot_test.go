package minirag

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	emb := &stubEmbedder{query: [][]float32{{1.5, 0, 0, 0}}}
	ctx := context.Background()
	idx, chunks, err := BuildIndex(ctx, emb, document(43), 20, 3)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	data, err := NewEmbeddingData(idx, chunks, emb.ModelInfo())
	if err != nil {
		t.Fatalf("NewEmbeddingData: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "index.gob")
	if err := SaveSnapshot(path, data); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("Temporary file left behind")
	}

	loaded, got, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got.ModelInfo != "stub" || got.Dimension != 4 || loaded.Len() != 3 {
		t.Errorf("Unexpected snapshot: model=%s dim=%d len=%d", got.ModelInfo, got.Dimension, loaded.Len())
	}

	matches, err := Query(ctx, emb, loaded, got.Chunks, "q", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if matches[0].ChunkIndex != 1 || matches[1].ChunkIndex != 2 {
		t.Errorf("Loaded index answers differently: %+v", matches)
	}
}

func TestLoadIndex_Inconsistent(t *testing.T) {
	tests := []struct {
		name string
		data EmbeddingData
	}{
		{
			name: "count",
			data: EmbeddingData{
				Chunks:     []Chunk{{Index: 0, Text: "a"}},
				Embeddings: [][]float32{{1}, {2}},
				Dimension:  1,
			},
		},
		{
			name: "chunk order",
			data: EmbeddingData{
				Chunks:     []Chunk{{Index: 1, Text: "a"}},
				Embeddings: [][]float32{{1}},
				Dimension:  1,
			},
		},
		{
			name: "dimension",
			data: EmbeddingData{
				Chunks:     []Chunk{{Index: 0, Text: "a"}},
				Embeddings: [][]float32{{1, 2}},
				Dimension:  3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadIndex(&tt.data); err == nil {
				t.Fatal("Expected error")
			}
		})
	}
}

func TestReadSnapshot_Garbage(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewReader([]byte("not a gob stream")))
	if err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	_, _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.gob"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected not-exist error, got %v", err)
	}
}
