package cli

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/perbu/wordrag/internal/config"
	"github.com/perbu/wordrag/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	outputFmt string

	globalConfig *config.Config
	globalLogger *slog.Logger
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordrag",
		Short: "Semantic search over word-window chunks of a document",
		Long: `wordrag splits a document into overlapping word windows, embeds each window
through an OpenAI-compatible embeddings endpoint and answers queries with the
nearest chunks by Euclidean distance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json)")

	rootCmd.AddCommand(newChunkCommand())
	rootCmd.AddCommand(newIndexCommand())
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// setup loads configuration and builds the logger for a command run.
func setup(cmd *cobra.Command) error {
	if outputFmt != "text" && outputFmt != "json" {
		return fmt.Errorf("invalid output format: %s (must be text or json)", outputFmt)
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	globalConfig = cfg
	globalLogger = log
	return nil
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "dev" || version == "" {
				version = "development"
			}
			if commit == "none" || commit == "" {
				commit = "local-build"
			}
			if date == "unknown" || date == "" {
				date = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wordrag %s (%s) built on %s\n", version, commit, date)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
