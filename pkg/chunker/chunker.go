// Package chunker splits text into overlapping fixed-size word windows.
package chunker

import (
	"fmt"
	"strings"
)

// Defaults used when no chunking configuration is given.
const (
	DefaultSize    = 20
	DefaultOverlap = 3
)

// ConfigurationError reports invalid chunking parameters.
type ConfigurationError struct {
	Field   string
	Value   int
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid chunking configuration: %s=%d: %s", e.Field, e.Value, e.Message)
}

// Config holds the window size and overlap, both counted in words.
type Config struct {
	Size    int `yaml:"size" json:"size"`
	Overlap int `yaml:"overlap" json:"overlap"`
}

// DefaultConfig returns the 20/3 window used for short prose documents.
func DefaultConfig() Config {
	return Config{Size: DefaultSize, Overlap: DefaultOverlap}
}

// Validate checks that the window advances on every step.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return &ConfigurationError{Field: "size", Value: c.Size, Message: "must be positive"}
	}
	if c.Overlap < 0 {
		return &ConfigurationError{Field: "overlap", Value: c.Overlap, Message: "must not be negative"}
	}
	if c.Overlap >= c.Size {
		return &ConfigurationError{
			Field:   "overlap",
			Value:   c.Overlap,
			Message: fmt.Sprintf("must be smaller than size (%d)", c.Size),
		}
	}
	return nil
}

// Split breaks text into windows of size words, each starting size-overlap
// words after the previous one. The last window may be shorter than size.
// Only word tokens survive: chunks are the window's words joined by single spaces.
func Split(text string, size, overlap int) ([]string, error) {
	return Config{Size: size, Overlap: overlap}.Split(text)
}

// Split is Split with the receiver's parameters.
func (c Config) Split(text string) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}, nil
	}

	step := c.Size - c.Overlap
	chunks := make([]string, 0, Count(len(words), c.Size, c.Overlap))
	for start := 0; ; start += step {
		end := min(start+c.Size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}

	return chunks, nil
}

// Count returns how many chunks Split produces for n words.
// Parameters are assumed valid.
func Count(n, size, overlap int) int {
	if n <= 0 {
		return 0
	}
	step := size - overlap
	rest := max(n-overlap, 0)
	count := (rest + step - 1) / step
	return max(count, 1)
}
