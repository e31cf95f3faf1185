package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tomekeeper/backend/internal/middleware"
	"tomekeeper/backend/internal/processor"
	"tomekeeper/backend/internal/taskq"
	"tomekeeper/backend/internal/vector"
)

type TaskQueue interface {
	Enqueue(ctx context.Context, documentID int64, filePath string) (*taskq.Task, error)
	Status(ctx context.Context, id string) (*taskq.Task, error)
}

type KnowledgeBaseChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type VectorStore interface {
	DeleteDocument(ctx context.Context, collection string, documentID int64) error
}

type Service struct {
	repo      Repository
	kbs       KnowledgeBaseChecker
	queue     TaskQueue
	vectors   VectorStore
	uploadDir string
}

func NewService(repo Repository, kbs KnowledgeBaseChecker, queue TaskQueue, vectors VectorStore, uploadDir string) *Service {
	return &Service{repo: repo, kbs: kbs, queue: queue, vectors: vectors, uploadDir: uploadDir}
}

// StatusResponse pairs a document with its latest processing task, if a
// run was ever started.
type StatusResponse struct {
	Document *Document   `json:"document"`
	Task     *taskq.Task `json:"task,omitempty"`
}

// Upload validates and stores a new file. All validation happens before
// anything touches disk or the database, a rejected upload leaves no
// trace.
func (s *Service) Upload(ctx context.Context, kbID int64, fileName string, src io.Reader) (*Document, error) {
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !processor.ExtensionAllowed(fileName) {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrValidation, ext)
	}

	exists, err := s.kbs.Exists(ctx, kbID)
	if err != nil {
		return nil, fmt.Errorf("check knowledge base: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: knowledge base %d", ErrNotFound, kbID)
	}

	duplicate, err := s.repo.ExistsByName(ctx, kbID, fileName)
	if err != nil {
		return nil, fmt.Errorf("check duplicate name: %w", err)
	}
	if duplicate {
		return nil, ErrDuplicateName
	}

	dir := filepath.Join(s.uploadDir, strconv.FormatInt(kbID, 10))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	path := filepath.Clean(filepath.Join(dir, fileName))

	dst, err := os.Create(path) // #nosec G304 -- path is uploadDir + kb id + sanitized basename
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close file: %w", err)
	}

	d := &Document{
		KnowledgeBaseID: kbID,
		FileName:        fileName,
		FileType:        strings.TrimPrefix(ext, "."),
		FilePath:        path,
		Status:          StatusUploaded,
	}
	if err := s.repo.Save(ctx, d); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("save document: %w", err)
	}

	slog.InfoContext(ctx, "document uploaded", "documentId", d.ID, "kbId", kbID, "fileName", fileName, "correlationId", middleware.GetCorrelationID(ctx))
	return d, nil
}

// Process enqueues a run for an UPLOADED document. Anything already in
// flight or finished is rejected, there is no implicit reset.
func (s *Service) Process(ctx context.Context, id int64) (*taskq.Task, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != StatusUploaded {
		return nil, fmt.Errorf("%w: document is %s", ErrInvalidStatus, d.Status)
	}

	task, err := s.queue.Enqueue(ctx, d.ID, d.FilePath)
	if err != nil {
		return nil, fmt.Errorf("enqueue processing: %w", err)
	}
	if err := s.repo.SetTaskID(ctx, d.ID, task.ID); err != nil {
		return nil, fmt.Errorf("record task handle: %w", err)
	}

	slog.InfoContext(ctx, "document processing enqueued", "documentId", d.ID, "taskId", task.ID, "correlationId", middleware.GetCorrelationID(ctx))
	return task, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, kbID int64) ([]Document, error) {
	return s.repo.ListByKB(ctx, kbID)
}

func (s *Service) Chunks(ctx context.Context, id int64) ([]Chunk, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListChunks(ctx, id)
}

// Status reports lifecycle state plus run progress when a task exists.
func (s *Service) Status(ctx context.Context, id int64) (*StatusResponse, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &StatusResponse{Document: d}
	if d.TaskID != "" {
		task, err := s.queue.Status(ctx, d.TaskID)
		if err != nil {
			slog.WarnContext(ctx, "task lookup failed", "documentId", id, "taskId", d.TaskID, "error", err)
		} else {
			resp.Task = task
		}
	}
	return resp, nil
}

// Delete removes the document's vectors, rows and stored file. Vector
// removal goes first so a failure never leaves dangling chunk ids in
// the index.
func (s *Service) Delete(ctx context.Context, id int64) error {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	collection := vector.CollectionName(d.KnowledgeBaseID)
	if err := s.vectors.DeleteDocument(ctx, collection, d.ID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := os.Remove(d.FilePath); err != nil && !os.IsNotExist(err) {
		slog.WarnContext(ctx, "failed to remove stored file", "documentId", id, "path", d.FilePath, "error", err)
	}
	return nil
}
