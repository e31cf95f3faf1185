package kb_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomekeeper/backend/features/kb"
)

type handlerRepo struct {
	kb.Repository
	bases map[int64]*kb.KnowledgeBase
}

func (m *handlerRepo) Save(_ context.Context, k *kb.KnowledgeBase) error {
	k.ID = int64(len(m.bases) + 1)
	m.bases[k.ID] = k
	return nil
}

func (m *handlerRepo) Get(_ context.Context, id int64) (*kb.KnowledgeBase, error) {
	k, ok := m.bases[id]
	if !ok {
		return nil, kb.ErrNotFound
	}
	return k, nil
}

func (m *handlerRepo) List(_ context.Context) ([]kb.KnowledgeBase, error) {
	var out []kb.KnowledgeBase
	for _, k := range m.bases {
		out = append(out, *k)
	}
	return out, nil
}

func (m *handlerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.bases[id]; !ok {
		return kb.ErrNotFound
	}
	delete(m.bases, id)
	return nil
}

func newHandler() (*kb.Handler, *handlerRepo) {
	repo := &handlerRepo{bases: map[int64]*kb.KnowledgeBase{}}
	return kb.NewHandler(kb.NewService(repo, &mockVectorStore{})), repo
}

func TestHandlerCreate(t *testing.T) {
	handler, _ := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/kb", strings.NewReader(`{"name":"Research"}`))
	w := httptest.NewRecorder()
	handler.Create(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data kb.KnowledgeBase `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Research", resp.Data.Name)
	assert.NotZero(t, resp.Data.ID)
}

func TestHandlerCreateValidation(t *testing.T) {
	handler, _ := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/kb", strings.NewReader(`{"name":""}`))
	w := httptest.NewRecorder()
	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandlerGetNotFound(t *testing.T) {
	handler, _ := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/kb/99", nil)
	req.SetPathValue("id", "99")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerDelete(t *testing.T) {
	handler, repo := newHandler()
	repo.bases[1] = &kb.KnowledgeBase{ID: 1, Name: "Research"}

	req := httptest.NewRequest(http.MethodDelete, "/api/kb/1", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.bases)
}

func TestHandlerGetInvalidID(t *testing.T) {
	handler, _ := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/kb/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()
	handler.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
