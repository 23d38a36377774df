package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func newTestLoader(t *testing.T, paths ...string) *Loader {
	t.Helper()
	return &Loader{configPaths: paths, envFiles: []string{filepath.Join(t.TempDir(), "absent.env")}}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"bad provider", func(c *Config) { c.Embedding.Provider = "cohere" }, "invalid embedding provider"},
		{"hash without dimension", func(c *Config) { c.Embedding.Provider = "hash"; c.Embedding.Dimension = 0 }, "dimension"},
		{"openai without model", func(c *Config) { c.Embedding.Model = "" }, "model"},
		{"negative timeout", func(c *Config) { c.Embedding.Timeout = -time.Second }, "timeout"},
		{"negative cache", func(c *Config) { c.Embedding.CacheSize = -1 }, "cache_size"},
		{"overlap too large", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }, "overlap"},
		{"zero top_k", func(c *Config) { c.Search.TopK = 0 }, "top_k"},
		{"empty index path", func(c *Config) { c.Index.Path = "" }, "index.path"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestLoadConfig_CustomFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "wordrag.yaml", `
embedding:
  provider: hash
  dimension: 32
  timeout: 5s
chunking:
  size: 10
  overlap: 2
search:
  top_k: 4
`)

	cfg, err := newTestLoader(t).LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Embedding.Provider != "hash" || cfg.Embedding.Dimension != 32 {
		t.Errorf("Unexpected embedding config: %+v", cfg.Embedding)
	}
	if cfg.Embedding.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Embedding.Timeout)
	}
	if cfg.Chunking.Size != 10 || cfg.Chunking.Overlap != 2 || cfg.Search.TopK != 4 {
		t.Errorf("Unexpected chunking/search config: %+v %+v", cfg.Chunking, cfg.Search)
	}
	// Untouched keys keep their defaults
	if cfg.Index.Path != "embeddings/index.gob" || cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("Defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_SearchPathsPriority(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", "search:\n  top_k: 7\n")
	user := writeFile(t, dir, "user.yaml", "search:\n  top_k: 3\nlog:\n  level: debug\n")

	cfg, err := newTestLoader(t, project, user, filepath.Join(dir, "missing.yaml")).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Search.TopK != 7 {
		t.Errorf("Expected project file to win, got top_k=%d", cfg.Search.TopK)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected user file value to survive, got %s", cfg.Log.Level)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WORDRAG_CHUNKING_SIZE", "50")
	t.Setenv("WORDRAG_CHUNKING_OVERLAP", "5")
	t.Setenv("WORDRAG_LOG_LEVEL", "WARN")
	t.Setenv("WORDRAG_EMBEDDING_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := newTestLoader(t).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Chunking.Size != 50 || cfg.Chunking.Overlap != 5 {
		t.Errorf("Env overrides not applied: %+v", cfg.Chunking)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected warn, got %s", cfg.Log.Level)
	}
	if cfg.Embedding.APIKey != "sk-from-env" {
		t.Errorf("Expected OPENAI_API_KEY fallback")
	}
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("WORDRAG_SEARCH_TOP_K", "many")
	if _, err := newTestLoader(t).LoadConfig(""); err == nil {
		t.Fatal("Expected error for non-numeric top_k")
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	const key = "WORDRAG_EMBEDDING_BASE_URL"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in environment", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := writeFile(t, t.TempDir(), ".env", key+"=http://localhost:9999/v1\n")
	loader := newTestLoader(t).WithEnvFiles(envFile)

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Embedding.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("Expected base URL from .env, got %q", cfg.Embedding.BaseURL)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"wrong extension", writeFile(t, dir, "config.json", "{}")},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "search: [unclosed")},
		{"invalid values", writeFile(t, dir, "invalid.yaml", "chunking:\n  size: 3\n  overlap: 3\n")},
		{"missing file", filepath.Join(dir, "nope.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newTestLoader(t).LoadConfig(tt.path); err == nil {
				t.Fatal("Expected error")
			}
		})
	}
}
