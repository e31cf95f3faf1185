package kb

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("knowledge base not found")
	ErrValidation = errors.New("validation failed")
)

type KnowledgeBase struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	Save(ctx context.Context, k *KnowledgeBase) error
	Get(ctx context.Context, id int64) (*KnowledgeBase, error)
	List(ctx context.Context) ([]KnowledgeBase, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
