package minirag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/perbu/wordrag/pkg/chunker"
	"github.com/perbu/wordrag/pkg/embedder"
)

// stubEmbedder returns [i, 0, 0, 0] for the i-th text of a multi-text batch
// and the fixed query vector for single-text batches.
type stubEmbedder struct {
	query [][]float32
	calls [][]string
	err   error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	if s.err != nil {
		return nil, s.err
	}
	if len(texts) == 1 && s.query != nil {
		return s.query, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 0, 0, 0}
	}
	return out, nil
}

func (s *stubEmbedder) ModelInfo() string { return "stub" }

func document(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(w, " ")
}

func TestEndToEnd(t *testing.T) {
	emb := &stubEmbedder{query: [][]float32{{1.5, 0, 0, 0}}}
	ctx := context.Background()

	idx, chunks, err := BuildIndex(ctx, emb, document(43), 20, 3)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if len(chunks) != 3 || idx.Len() != 3 {
		t.Fatalf("Expected 3 chunks and vectors, got %d and %d", len(chunks), idx.Len())
	}
	if len(emb.calls) != 1 || len(emb.calls[0]) != 3 {
		t.Errorf("Expected chunks embedded in one batch, got %d calls", len(emb.calls))
	}

	matches, err := Query(ctx, emb, idx, chunks, "tell me about word20", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(emb.calls) != 2 || len(emb.calls[1]) != 1 {
		t.Errorf("Expected query embedded as a single-item batch")
	}

	wantIdx := []int{1, 2}
	if len(matches) != len(wantIdx) {
		t.Fatalf("Expected %d matches, got %d", len(wantIdx), len(matches))
	}
	for i, m := range matches {
		if m.ChunkIndex != wantIdx[i] {
			t.Errorf("rank %d: expected chunk %d, got %d", i, wantIdx[i], m.ChunkIndex)
		}
		if !approx(m.Distance, 0.5) {
			t.Errorf("rank %d: expected distance 0.5, got %f", i, m.Distance)
		}
		if m.ChunkText != chunks[m.ChunkIndex].Text {
			t.Errorf("rank %d: chunk text not resolved", i)
		}
	}
}

func TestBuildIndex_ConfigurationErrorBeforeProvider(t *testing.T) {
	emb := &stubEmbedder{}
	_, _, err := BuildIndex(context.Background(), emb, document(10), 5, 5)

	var cfgErr *chunker.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}
	if len(emb.calls) != 0 {
		t.Errorf("Provider called despite invalid configuration")
	}
}

func TestBuildIndex_EmptyDocument(t *testing.T) {
	emb := &stubEmbedder{}
	idx, chunks, err := BuildIndex(context.Background(), emb, "  \n ", 20, 3)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if idx.Len() != 0 || len(chunks) != 0 || len(emb.calls) != 0 {
		t.Errorf("Expected empty index without provider call")
	}

	matches, err := Query(context.Background(), emb, idx, chunks, "anything", 3)
	if err != nil {
		t.Fatalf("Query on empty index: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no matches, got %d", len(matches))
	}
}

func TestBuildIndex_ProviderError(t *testing.T) {
	perr := &embedder.ProviderError{Type: embedder.ErrTypeTransport, Message: "connection refused"}
	_, _, err := BuildIndex(context.Background(), &stubEmbedder{err: perr}, document(30), 20, 3)

	var got *embedder.ProviderError
	if !errors.As(err, &got) || got != perr {
		t.Fatalf("Expected the provider error to propagate, got %v", err)
	}
}

type shortEmbedder struct{}

func (shortEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return [][]float32{{1, 2}}, nil
}

func (shortEmbedder) ModelInfo() string { return "short" }

func TestBuildIndex_CountViolation(t *testing.T) {
	_, _, err := BuildIndex(context.Background(), shortEmbedder{}, document(43), 20, 3)
	if !errors.Is(err, &embedder.ProviderError{Type: embedder.ErrTypeCount}) {
		t.Fatalf("Expected count violation, got %v", err)
	}
}

func TestQuery_DimensionMismatch(t *testing.T) {
	emb := &stubEmbedder{query: [][]float32{{1, 0}}}
	ctx := context.Background()
	idx, chunks, err := BuildIndex(ctx, emb, document(43), 20, 3)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	_, err = Query(ctx, emb, idx, chunks, "q", 1)
	var dimErr *DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Expected DimensionMismatchError, got %v", err)
	}
}

func TestQuery_ChunkMappingBroken(t *testing.T) {
	emb := &stubEmbedder{query: [][]float32{{2, 0, 0, 0}}}
	ctx := context.Background()
	idx, chunks, err := BuildIndex(ctx, emb, document(43), 20, 3)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	if _, err := Query(ctx, emb, idx, chunks[:2], "q", 1); err == nil {
		t.Fatal("Expected error for a result without a chunk")
	}
}

func TestPipeline_Chunk(t *testing.T) {
	p := NewPipeline(&stubEmbedder{}, chunker.Config{Size: 4, Overlap: 1}, nil)
	chunks, err := p.Chunk("a b c d e f g")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	want := []string{"a b c d", "d e f g"}
	if len(chunks) != len(want) {
		t.Fatalf("Expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i || c.Text != want[i] {
			t.Errorf("chunk %d: got %+v", i, c)
		}
	}
}
