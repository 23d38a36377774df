package cli

import (
	"context"
	"fmt"

	"github.com/perbu/wordrag/pkg/minirag"
	"github.com/spf13/cobra"
)

var indexOutPath string

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Build an index for a document and save it",
		Long: `Chunk a document, embed all chunks in one provider request and write the
resulting index and chunks to a snapshot file.

Examples:
  wordrag index bio.txt
  wordrag index --chunk-size 50 --overlap 5 --out bio.gob ./docs`,
		Args: cobra.ExactArgs(1),
		RunE: runIndex,
	}

	addChunkFlags(cmd)
	cmd.Flags().StringVar(&indexOutPath, "out", "", "snapshot path (default from config)")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	applyChunkFlags(cmd)
	if err := globalConfig.Chunking.Validate(); err != nil {
		return err
	}

	out := globalConfig.Index.Path
	if indexOutPath != "" {
		out = indexOutPath
	}

	text, paths, err := readDocument(args[0])
	if err != nil {
		return err
	}
	globalLogger.Debug("loaded documents", "paths", paths, "bytes", len(text))

	emb, err := newEmbedder(globalConfig.Embedding, globalLogger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p := minirag.NewPipeline(emb, globalConfig.Chunking, globalLogger)
	idx, chunks, err := p.Build(ctx, text)
	if err != nil {
		return err
	}

	data, err := minirag.NewEmbeddingData(idx, chunks, emb.ModelInfo())
	if err != nil {
		return err
	}
	if err := minirag.SaveSnapshot(out, data); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}

	globalLogger.Info("saved index", "path", out, "chunks", len(chunks), "dimension", data.Dimension)
	return renderIndexSummary(cmd.OutOrStdout(), outputFmt, out, data)
}
