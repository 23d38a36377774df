package minirag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/perbu/wordrag/pkg/chunker"
	"github.com/perbu/wordrag/pkg/embedder"
)

// Pipeline chunks documents, embeds them and answers queries against the
// resulting index. It holds no index itself; callers keep the index and
// its chunks together.
type Pipeline struct {
	emb      embedder.Embedder
	chunking chunker.Config
	log      *slog.Logger
}

// NewPipeline creates a pipeline. A nil logger discards output.
func NewPipeline(emb embedder.Embedder, chunking chunker.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{emb: emb, chunking: chunking, log: log.With("component", "pipeline")}
}

// Embedder returns the embedder used for documents and queries.
func (p *Pipeline) Embedder() embedder.Embedder {
	return p.emb
}

// Chunk splits text with the pipeline's chunking configuration.
func (p *Pipeline) Chunk(text string) ([]Chunk, error) {
	texts, err := p.chunking.Split(text)
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = Chunk{Index: i, Text: t}
	}
	return chunks, nil
}

// Build chunks text, embeds every chunk in a single batch and adds the
// vectors to a new index. Chunking errors surface before any provider call.
func (p *Pipeline) Build(ctx context.Context, text string) (*VectorIndex, []Chunk, error) {
	chunks, err := p.Chunk(text)
	if err != nil {
		return nil, nil, err
	}

	idx := NewVectorIndex()
	if len(chunks) == 0 {
		p.log.Info("document is empty, built empty index")
		return idx, chunks, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	start := time.Now()
	vectors, err := p.emb.Embed(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if err := embedder.Validate(p.emb.ModelInfo(), len(texts), vectors); err != nil {
		return nil, nil, err
	}

	if err := idx.Add(vectors); err != nil {
		return nil, nil, fmt.Errorf("indexing chunks: %w", err)
	}
	if idx.Len() != len(chunks) {
		return nil, nil, fmt.Errorf("index holds %d vectors for %d chunks", idx.Len(), len(chunks))
	}

	p.log.Info("built index",
		"chunks", len(chunks),
		"dimension", idx.Dimension(),
		"model", p.emb.ModelInfo(),
		"elapsed", time.Since(start))
	return idx, chunks, nil
}

// Query embeds text as a single-item batch and returns the k chunks
// nearest to it. An empty index answers with no matches and no provider call.
func (p *Pipeline) Query(ctx context.Context, idx *VectorIndex, chunks []Chunk, text string, k int) ([]Match, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if idx.Len() == 0 {
		return []Match{}, nil
	}

	vectors, err := p.emb.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if err := embedder.Validate(p.emb.ModelInfo(), 1, vectors); err != nil {
		return nil, err
	}

	neighbors, err := idx.Search(vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	matches := make([]Match, len(neighbors))
	for i, n := range neighbors {
		if n.Index < 0 || n.Index >= len(chunks) {
			return nil, fmt.Errorf("index position %d has no chunk (%d chunks)", n.Index, len(chunks))
		}
		matches[i] = Match{
			ChunkIndex: n.Index,
			ChunkText:  chunks[n.Index].Text,
			Distance:   n.Distance,
		}
	}

	p.log.Debug("answered query", "k", k, "matches", len(matches))
	return matches, nil
}

// BuildIndex is Build with an explicit chunk size and overlap.
func BuildIndex(ctx context.Context, emb embedder.Embedder, text string, size, overlap int) (*VectorIndex, []Chunk, error) {
	return NewPipeline(emb, chunker.Config{Size: size, Overlap: overlap}, nil).Build(ctx, text)
}

// Query answers text against idx using emb for the query embedding.
func Query(ctx context.Context, emb embedder.Embedder, idx *VectorIndex, chunks []Chunk, text string, k int) ([]Match, error) {
	return NewPipeline(emb, chunker.DefaultConfig(), nil).Query(ctx, idx, chunks, text, k)
}
