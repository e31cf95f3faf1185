package document

import (
	"context"
	"errors"
	"time"
)

// Document lifecycle. Transitions run UPLOADED -> PROCESSING ->
// PROCESSED or FAILED, only the runner moves a document past UPLOADED.
const (
	StatusUploaded   = "UPLOADED"
	StatusProcessing = "PROCESSING"
	StatusProcessed  = "PROCESSED"
	StatusFailed     = "FAILED"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateName = errors.New("a document with this name already exists in the knowledge base")
	ErrInvalidStatus = errors.New("document status does not allow this operation")
)

type Document struct {
	ID              int64     `json:"id"`
	KnowledgeBaseID int64     `json:"kb_id"`
	FileName        string    `json:"file_name"`
	FileType        string    `json:"file_type"`
	FilePath        string    `json:"-"`
	Status          string    `json:"status"`
	TaskID          string    `json:"task_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Chunk struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	VectorID   string    `json:"vector_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Repository interface {
	Save(ctx context.Context, d *Document) error
	Get(ctx context.Context, id int64) (*Document, error)
	ListByKB(ctx context.Context, kbID int64) ([]Document, error)
	ExistsByName(ctx context.Context, kbID int64, fileName string) (bool, error)
	SetStatus(ctx context.Context, id int64, status string) error
	SetTaskID(ctx context.Context, id int64, taskID string) error
	Delete(ctx context.Context, id int64) error

	InsertChunk(ctx context.Context, c *Chunk) error
	ListChunks(ctx context.Context, documentID int64) ([]Chunk, error)

	CountDocuments(ctx context.Context) (int, error)
	CountChunks(ctx context.Context) (int, error)
}
