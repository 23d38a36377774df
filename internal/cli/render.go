package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/perbu/wordrag/pkg/minirag"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#60A5FA"})
	rankStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"})
	distanceStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"})
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	textStyle     = lipgloss.NewStyle().PaddingLeft(2).Width(80)
)

type queryOutput struct {
	Query   string          `json:"query"`
	Matches []minirag.Match `json:"matches"`
}

type chunkOutput struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Words int    `json:"words"`
}

type indexOutput struct {
	Path      string `json:"path"`
	Chunks    int    `json:"chunks"`
	Dimension int    `json:"dimension"`
	Model     string `json:"model"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderMatches(w io.Writer, format, query string, matches []minirag.Match) error {
	if format == "json" {
		return writeJSON(w, queryOutput{Query: query, Matches: matches})
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Query: %s", query)))
	if len(matches) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No results found"))
		return nil
	}

	for rank, m := range matches {
		fmt.Fprintf(w, "%s %s %s\n",
			rankStyle.Render(fmt.Sprintf("#%d", rank+1)),
			mutedStyle.Render(fmt.Sprintf("chunk %d", m.ChunkIndex)),
			distanceStyle.Render(fmt.Sprintf("distance %.4f", m.Distance)))
		fmt.Fprintln(w, textStyle.Render(m.ChunkText))
	}
	fmt.Fprintln(w)
	return nil
}

func renderChunks(w io.Writer, format string, chunks []minirag.Chunk) error {
	if format == "json" {
		out := make([]chunkOutput, len(chunks))
		for i, c := range chunks {
			out[i] = chunkOutput{Index: c.Index, Text: c.Text, Words: countWords(c.Text)}
		}
		return writeJSON(w, out)
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d chunks", len(chunks))))
	for _, c := range chunks {
		fmt.Fprintf(w, "%s %s\n",
			rankStyle.Render(fmt.Sprintf("[%d]", c.Index)),
			mutedStyle.Render(fmt.Sprintf("%d words", countWords(c.Text))))
		fmt.Fprintln(w, textStyle.Render(c.Text))
	}
	return nil
}

func renderIndexSummary(w io.Writer, format, path string, data *minirag.EmbeddingData) error {
	out := indexOutput{
		Path:      path,
		Chunks:    len(data.Chunks),
		Dimension: data.Dimension,
		Model:     data.ModelInfo,
	}
	if format == "json" {
		return writeJSON(w, out)
	}

	fmt.Fprintln(w, headerStyle.Render("Index saved"))
	fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("path:     "), out.Path)
	fmt.Fprintf(w, "  %s %d\n", mutedStyle.Render("chunks:   "), out.Chunks)
	fmt.Fprintf(w, "  %s %d\n", mutedStyle.Render("dimension:"), out.Dimension)
	fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("model:    "), out.Model)
	return nil
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
