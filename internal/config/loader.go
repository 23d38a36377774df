package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.wordrag.yaml",               // Project-specific config (highest priority)
	"~/.config/wordrag/config.yaml", // User config
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFiles    []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// WithEnvFiles sets the dotenv files read before environment overrides are
// applied. With none set, ./.env is read if present.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables, including those from .env
// 3. ./.wordrag.yaml
// 4. ~/.config/wordrag/config.yaml
// 5. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	// Existing environment variables take precedence over .env entries
	if err := godotenv.Load(l.envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file over the existing config. Keys absent
// from the file keep their current values.
func (l *Loader) loadFromFile(config *Config, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"WORDRAG_EMBEDDING_PROVIDER":   func(v string) error { config.Embedding.Provider = v; return nil },
		"WORDRAG_EMBEDDING_BASE_URL":   func(v string) error { config.Embedding.BaseURL = v; return nil },
		"WORDRAG_EMBEDDING_MODEL":      func(v string) error { config.Embedding.Model = v; return nil },
		"WORDRAG_EMBEDDING_API_KEY":    func(v string) error { config.Embedding.APIKey = v; return nil },
		"WORDRAG_EMBEDDING_TIMEOUT":    func(v string) error { return parseDuration(v, &config.Embedding.Timeout) },
		"WORDRAG_EMBEDDING_CACHE_SIZE": func(v string) error { return parseInt(v, &config.Embedding.CacheSize) },
		"WORDRAG_EMBEDDING_DIMENSION":  func(v string) error { return parseInt(v, &config.Embedding.Dimension) },

		"WORDRAG_CHUNKING_SIZE":    func(v string) error { return parseInt(v, &config.Chunking.Size) },
		"WORDRAG_CHUNKING_OVERLAP": func(v string) error { return parseInt(v, &config.Chunking.Overlap) },

		"WORDRAG_SEARCH_TOP_K": func(v string) error { return parseInt(v, &config.Search.TopK) },
		"WORDRAG_INDEX_PATH":   func(v string) error { config.Index.Path = v; return nil },

		"WORDRAG_LOG_LEVEL":  func(v string) error { config.Log.Level = strings.ToLower(v); return nil },
		"WORDRAG_LOG_FORMAT": func(v string) error { config.Log.Format = strings.ToLower(v); return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	if config.Embedding.APIKey == "" {
		config.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseDuration(v string, dst *time.Duration) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
