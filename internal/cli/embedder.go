package cli

import (
	"fmt"
	"log/slog"

	"github.com/perbu/wordrag/internal/config"
	"github.com/perbu/wordrag/pkg/embedder"
)

// newEmbedder builds the configured provider, wrapped in an LRU when a
// cache size is set.
func newEmbedder(cfg config.EmbeddingConfig, log *slog.Logger) (embedder.Embedder, error) {
	var emb embedder.Embedder

	switch cfg.Provider {
	case "openai":
		oe, err := embedder.NewOpenAIEmbedder(embedder.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
			Logger:  log,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set OPENAI_API_KEY in the environment or .env)", err)
		}
		emb = oe
	case "hash":
		emb = embedder.NewHashEmbedder(cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	if cfg.CacheSize > 0 {
		cached, err := embedder.NewCachedEmbedder(emb, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		emb = cached
	}

	log.Debug("embedder ready", "provider", cfg.Provider, "model", emb.ModelInfo(), "cache_size", cfg.CacheSize)
	return emb, nil
}
