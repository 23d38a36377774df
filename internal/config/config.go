package config

import (
	"fmt"
	"time"

	"github.com/perbu/wordrag/pkg/chunker"
)

// Config holds the complete application configuration
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding" json:"embedding"`
	Chunking  chunker.Config  `yaml:"chunking" json:"chunking"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	Index     IndexConfig     `yaml:"index" json:"index"`
	Log       LogConfig       `yaml:"log" json:"log"`
}

// EmbeddingConfig configures the embedding provider
type EmbeddingConfig struct {
	Provider  string        `yaml:"provider" json:"provider"`     // openai|hash
	BaseURL   string        `yaml:"base_url" json:"base_url"`     // OpenAI-compatible endpoint, empty for api.openai.com
	Model     string        `yaml:"model" json:"model"`           // model name
	APIKey    string        `yaml:"api_key" json:"-"`             // bearer token
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // per request, 0 disables
	CacheSize int           `yaml:"cache_size" json:"cache_size"` // query embedding LRU entries, 0 disables
	Dimension int           `yaml:"dimension" json:"dimension"`   // vector size for the hash provider
}

// SearchConfig configures query behavior
type SearchConfig struct {
	TopK int `yaml:"top_k" json:"top_k"`
}

// IndexConfig configures where built indexes are stored
type IndexConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug|info|warn|error
	Format string `yaml:"format" json:"format"` // text|json
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			Timeout:   30 * time.Second,
			CacheSize: 256,
			Dimension: 256,
		},
		Chunking: chunker.DefaultConfig(),
		Search: SearchConfig{
			TopK: 2,
		},
		Index: IndexConfig{
			Path: "embeddings/index.gob",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := c.validateEmbeddingConfig(); err != nil {
		return err
	}
	if err := c.Chunking.Validate(); err != nil {
		return err
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be positive, got %d", c.Search.TopK)
	}
	if c.Index.Path == "" {
		return fmt.Errorf("index.path must not be empty")
	}
	return c.validateLogConfig()
}

func (c *Config) validateEmbeddingConfig() error {
	switch c.Embedding.Provider {
	case "openai":
		if c.Embedding.Model == "" {
			return fmt.Errorf("embedding.model must be set for the openai provider")
		}
	case "hash":
		if c.Embedding.Dimension <= 0 {
			return fmt.Errorf("embedding.dimension must be positive for the hash provider")
		}
	default:
		return fmt.Errorf("invalid embedding provider: %s (must be one of: openai, hash)", c.Embedding.Provider)
	}
	if c.Embedding.Timeout < 0 {
		return fmt.Errorf("embedding.timeout must be non-negative")
	}
	if c.Embedding.CacheSize < 0 {
		return fmt.Errorf("embedding.cache_size must be non-negative")
	}
	return nil
}

func (c *Config) validateLogConfig() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}
	return nil
}
