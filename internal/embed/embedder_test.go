package embed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"tomekeeper/backend/internal/config"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

func TestNewEmbedder_UnsupportedProvider(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: "acme"}
	_, err := NewEmbedder(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestWrapped_TagsProviderFailure(t *testing.T) {
	w := &wrapped{provider: "gemini", inner: &stubEmbedder{err: errors.New("503")}}

	_, err := w.Embed(context.Background(), "text")

	var embErr *EmbeddingError
	assert.ErrorAs(t, err, &embErr)
	assert.Equal(t, "gemini", embErr.Provider)
}

func TestWrapped_RejectsEmptyVector(t *testing.T) {
	w := &wrapped{provider: "gemini", inner: &stubEmbedder{vec: nil}}

	_, err := w.Embed(context.Background(), "text")

	var embErr *EmbeddingError
	assert.ErrorAs(t, err, &embErr)
}

func TestWrapped_PassesVectorThrough(t *testing.T) {
	w := &wrapped{provider: "openai", inner: &stubEmbedder{vec: []float32{0.1, 0.2}}}

	vec, err := w.Embed(context.Background(), "text")
	assert.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
}
