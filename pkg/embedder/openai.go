package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// OpenAIConfig describes an OpenAI-compatible embeddings endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty means the public OpenAI API
	Model   string
	Timeout time.Duration // per call; zero leaves the deadline to the caller's context
	Logger  *slog.Logger
}

// OpenAIEmbedder uses an OpenAI-compatible API for embeddings
type OpenAIEmbedder struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
}

// NewOpenAIEmbedder creates an OpenAI embedder
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, newProviderError("openai", ErrTypeConfiguration, nil, "API key not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     cfg.Logger.With("component", "embedder", "model", cfg.Model),
	}, nil
}

// Embed sends all texts to the provider in one request and returns the
// vectors in input order. Failures are not retried.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		perr := classify(e.ModelInfo(), err)
		e.log.Error("embedding request failed", "inputs", len(texts), "type", string(perr.Type), "status", perr.StatusCode)
		return nil, perr
	}

	vectors, err := e.ordered(resp.Data, len(texts))
	if err != nil {
		return nil, err
	}
	if err := Validate(e.ModelInfo(), len(texts), vectors); err != nil {
		return nil, err
	}

	e.log.Debug("embedded batch",
		"inputs", len(texts),
		"dimension", len(vectors[0]),
		"elapsed", time.Since(start))
	return vectors, nil
}

// ordered places each returned embedding at the input position named by its
// index field. Providers that leave every index at zero are taken in response order.
func (e *OpenAIEmbedder) ordered(data []openai.Embedding, inputs int) ([][]float32, error) {
	if len(data) != inputs {
		return nil, newProviderError(e.ModelInfo(), ErrTypeCount, nil,
			"expected %d embeddings, got %d", inputs, len(data))
	}

	positional := true
	for _, d := range data {
		if d.Index != 0 {
			positional = false
			break
		}
	}

	vectors := make([][]float32, inputs)
	for i, d := range data {
		pos := i
		if !positional {
			pos = d.Index
		}
		if pos < 0 || pos >= inputs {
			return nil, newProviderError(e.ModelInfo(), ErrTypeMalformed, nil,
				"embedding index %d out of range [0,%d)", d.Index, inputs)
		}
		if vectors[pos] != nil {
			return nil, newProviderError(e.ModelInfo(), ErrTypeMalformed, nil,
				"duplicate embedding index %d", d.Index)
		}

		v := make([]float32, len(d.Embedding))
		for j := range d.Embedding {
			v[j] = float32(d.Embedding[j])
		}
		vectors[pos] = v
	}
	return vectors, nil
}

// ModelInfo returns model information
func (e *OpenAIEmbedder) ModelInfo() string {
	return "openai-" + e.model
}

// classify converts a go-openai client error into a ProviderError.
func classify(provider string, err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		perr := newProviderError(provider, ErrTypeStatus, err, "provider rejected request")
		perr.StatusCode = apiErr.HTTPStatusCode
		return perr
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		perr := newProviderError(provider, ErrTypeStatus, err, "provider returned failure status")
		perr.StatusCode = reqErr.HTTPStatusCode
		return perr
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return newProviderError(provider, ErrTypeMalformed, err, "could not decode embeddings response")
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newProviderError(provider, ErrTypeCanceled, err, "request canceled or timed out")
	}

	return newProviderError(provider, ErrTypeTransport, err, "request failed")
}
