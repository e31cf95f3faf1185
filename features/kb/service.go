package kb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tomekeeper/backend/internal/middleware"
	"tomekeeper/backend/internal/vector"
)

type VectorStore interface {
	EnsureCollection(collection string)
	DropCollection(ctx context.Context, collection string) error
}

type Service struct {
	repo    Repository
	vectors VectorStore
}

func NewService(repo Repository, vectors VectorStore) *Service {
	return &Service{repo: repo, vectors: vectors}
}

// Create stores the knowledge base and registers its vector collection.
// The collection is only provisioned once the first document is
// processed.
func (s *Service) Create(ctx context.Context, k *KnowledgeBase) error {
	k.Name = strings.TrimSpace(k.Name)
	if k.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	if err := s.repo.Save(ctx, k); err != nil {
		return err
	}
	s.vectors.EnsureCollection(vector.CollectionName(k.ID))

	slog.InfoContext(ctx, "knowledge base created", "id", k.ID, "name", k.Name, "correlationId", middleware.GetCorrelationID(ctx))
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*KnowledgeBase, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]KnowledgeBase, error) {
	return s.repo.List(ctx)
}

// Delete removes the knowledge base. Documents and chunks go with it via
// cascade, and the vector collection is dropped.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.vectors.DropCollection(ctx, vector.CollectionName(id)); err != nil {
		// rows are gone; the orphaned collection is only a storage leak
		slog.ErrorContext(ctx, "failed to drop vector collection", "kbId", id, "error", err)
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
