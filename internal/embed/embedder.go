// Package embed selects and wraps the configured embedding provider.
package embed

import (
	"context"
	"errors"
	"fmt"

	"tomekeeper/backend/internal/adapter/gemini"
	"tomekeeper/backend/internal/adapter/openai"
	"tomekeeper/backend/internal/config"
)

// ErrUnsupportedProvider is returned for provider names outside the
// closed set this build knows about.
var ErrUnsupportedProvider = errors.New("unsupported embedding provider")

// Embedder converts chunk text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingError wraps a provider failure. It aborts the document run
// that triggered it.
type EmbeddingError struct {
	Provider string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed (%s): %v", e.Provider, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// NewEmbedder builds the provider named in the config.
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "gemini":
		inner, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		return &wrapped{provider: "gemini", inner: inner}, nil
	case "openai":
		inner, err := openai.NewEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		return &wrapped{provider: "openai", inner: inner}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.EmbeddingProvider)
	}
}

// wrapped tags provider failures with the typed error callers need to
// classify the abort.
type wrapped struct {
	provider string
	inner    Embedder
}

func (w *wrapped) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := w.inner.Embed(ctx, text)
	if err != nil {
		return nil, &EmbeddingError{Provider: w.provider, Err: err}
	}
	if len(vec) == 0 {
		return nil, &EmbeddingError{Provider: w.provider, Err: errors.New("empty embedding received")}
	}
	return vec, nil
}
