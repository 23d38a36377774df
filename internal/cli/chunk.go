package cli

import (
	"os"
	"path/filepath"

	"github.com/perbu/wordrag/pkg/loader"
	"github.com/perbu/wordrag/pkg/minirag"
	"github.com/spf13/cobra"
)

var (
	chunkSize    int
	chunkOverlap int
)

func newChunkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunk <path>",
		Short: "Split a document into word-window chunks",
		Long: `Split a document, or every .md/.txt file below a directory, into
overlapping word windows and print them. No embedding provider is contacted.`,
		Args: cobra.ExactArgs(1),
		RunE: runChunk,
	}

	addChunkFlags(cmd)
	return cmd
}

func addChunkFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "words per chunk (default from config)")
	cmd.Flags().IntVar(&chunkOverlap, "overlap", 0, "words shared by adjacent chunks (default from config)")
}

// applyChunkFlags overrides the configured chunking with explicitly set flags.
func applyChunkFlags(cmd *cobra.Command) {
	if cmd.Flag("chunk-size").Changed {
		globalConfig.Chunking.Size = chunkSize
	}
	if cmd.Flag("overlap").Changed {
		globalConfig.Chunking.Overlap = chunkOverlap
	}
}

// readDocument loads a file or directory from the local filesystem.
func readDocument(path string) (string, []string, error) {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	return loader.Load(os.DirFS(dir), name)
}

func runChunk(cmd *cobra.Command, args []string) error {
	applyChunkFlags(cmd)

	text, _, err := readDocument(args[0])
	if err != nil {
		return err
	}

	p := minirag.NewPipeline(nil, globalConfig.Chunking, globalLogger)
	chunks, err := p.Chunk(text)
	if err != nil {
		return err
	}

	return renderChunks(cmd.OutOrStdout(), outputFmt, chunks)
}
