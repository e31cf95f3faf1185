package kb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomekeeper/backend/features/kb"
)

type mockRepo struct {
	kb.Repository
	saved     *kb.KnowledgeBase
	deleteErr error
	deletedID int64
}

func (m *mockRepo) Save(_ context.Context, k *kb.KnowledgeBase) error {
	k.ID = 7
	m.saved = k
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

type mockVectorStore struct {
	ensured []string
	dropped []string
	dropErr error
}

func (m *mockVectorStore) EnsureCollection(collection string) {
	m.ensured = append(m.ensured, collection)
}

func (m *mockVectorStore) DropCollection(_ context.Context, collection string) error {
	m.dropped = append(m.dropped, collection)
	return m.dropErr
}

func TestServiceCreate(t *testing.T) {
	repo := &mockRepo{}
	vectors := &mockVectorStore{}
	service := kb.NewService(repo, vectors)

	k := &kb.KnowledgeBase{Name: "  Research  "}
	require.NoError(t, service.Create(context.Background(), k))

	assert.Equal(t, "Research", k.Name)
	assert.Equal(t, []string{"Kb7"}, vectors.ensured)
}

func TestServiceCreateEmptyName(t *testing.T) {
	service := kb.NewService(&mockRepo{}, &mockVectorStore{})

	err := service.Create(context.Background(), &kb.KnowledgeBase{Name: "   "})
	assert.ErrorIs(t, err, kb.ErrValidation)
}

func TestServiceDelete(t *testing.T) {
	repo := &mockRepo{}
	vectors := &mockVectorStore{}
	service := kb.NewService(repo, vectors)

	require.NoError(t, service.Delete(context.Background(), 7))
	assert.Equal(t, int64(7), repo.deletedID)
	assert.Equal(t, []string{"Kb7"}, vectors.dropped)
}

func TestServiceDeleteNotFound(t *testing.T) {
	repo := &mockRepo{deleteErr: kb.ErrNotFound}
	vectors := &mockVectorStore{}
	service := kb.NewService(repo, vectors)

	assert.ErrorIs(t, service.Delete(context.Background(), 99), kb.ErrNotFound)
	assert.Empty(t, vectors.dropped)
}

func TestServiceDeleteDropFailureIsNotFatal(t *testing.T) {
	repo := &mockRepo{}
	vectors := &mockVectorStore{dropErr: errors.New("weaviate down")}
	service := kb.NewService(repo, vectors)

	assert.NoError(t, service.Delete(context.Background(), 7))
}
