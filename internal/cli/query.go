package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/perbu/wordrag/pkg/embedder"
	"github.com/perbu/wordrag/pkg/minirag"
	"github.com/spf13/cobra"
)

var (
	queryTopK  int
	queryIndex string
	queryDoc   string
)

func newQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [text...]",
		Short: "Find the chunks nearest to a query",
		Long: `Embed a query and return the k nearest chunks by Euclidean distance.

The index is read from a snapshot written by "wordrag index", or built on the
fly from --doc. Without query arguments, one query per line is read from stdin.

Examples:
  wordrag query "tell me about his early life"
  wordrag query --doc bio.txt -k 3 "acquisition"
  cat questions.txt | wordrag query --index bio.gob`,
		RunE: runQuery,
	}

	addChunkFlags(cmd)
	cmd.Flags().IntVarP(&queryTopK, "top", "k", 0, "number of results (default from config)")
	cmd.Flags().StringVar(&queryIndex, "index", "", "snapshot path (default from config)")
	cmd.Flags().StringVar(&queryDoc, "doc", "", "build the index from this document instead of a snapshot")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	applyChunkFlags(cmd)

	k := globalConfig.Search.TopK
	if cmd.Flag("top").Changed {
		k = queryTopK
	}
	if k <= 0 {
		return minirag.ErrInvalidK
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	emb, err := newEmbedder(globalConfig.Embedding, globalLogger)
	if err != nil {
		return err
	}
	p := minirag.NewPipeline(emb, globalConfig.Chunking, globalLogger)

	idx, chunks, err := openIndex(ctx, p)
	if err != nil {
		return err
	}

	queries := []string{strings.Join(args, " ")}
	if len(args) == 0 {
		queries, err = readQueries(cmd)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, q := range queries {
		matches, err := p.Query(ctx, idx, chunks, q, k)
		if err != nil {
			return err
		}
		if err := renderMatches(out, outputFmt, q, matches); err != nil {
			return err
		}
	}

	if cached, ok := emb.(*embedder.CachedEmbedder); ok {
		stats := cached.Stats()
		globalLogger.Debug("query cache", "hits", stats.Hits, "misses", stats.Misses, "size", stats.Size)
	}
	return nil
}

// openIndex builds the index from --doc, or loads the configured snapshot.
func openIndex(ctx context.Context, p *minirag.Pipeline) (*minirag.VectorIndex, []minirag.Chunk, error) {
	if queryDoc != "" {
		text, _, err := readDocument(queryDoc)
		if err != nil {
			return nil, nil, err
		}
		return p.Build(ctx, text)
	}

	path := globalConfig.Index.Path
	if queryIndex != "" {
		path = queryIndex
	}

	idx, data, err := minirag.LoadSnapshot(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading index (run 'wordrag index' first or pass --doc): %w", err)
	}
	if model := p.Embedder().ModelInfo(); data.ModelInfo != model {
		return nil, nil, fmt.Errorf("index %s was built with %s, but queries would use %s", path, data.ModelInfo, model)
	}

	globalLogger.Debug("loaded index", "path", path, "chunks", len(data.Chunks), "dimension", data.Dimension)
	return idx, data.Chunks, nil
}

func readQueries(cmd *cobra.Command) ([]string, error) {
	var queries []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			queries = append(queries, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no query given")
	}
	return queries, nil
}
