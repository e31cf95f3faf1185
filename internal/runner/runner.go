// Package runner drives a document through its processing lifecycle:
// PROCESSING while chunks are embedded and persisted, then PROCESSED or
// FAILED.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"

	"tomekeeper/backend/features/document"
	"tomekeeper/backend/internal/middleware"
	"tomekeeper/backend/internal/processor"
	"tomekeeper/backend/internal/taskq"
	"tomekeeper/backend/internal/vector"
)

type DocumentStore interface {
	Get(ctx context.Context, id int64) (*document.Document, error)
	SetStatus(ctx context.Context, id int64, status string) error
	InsertChunk(ctx context.Context, c *document.Chunk) error
}

type TaskTracker interface {
	MarkRunning(ctx context.Context, id string) error
	SetProgress(ctx context.Context, id string, current, total int) error
	MarkSucceeded(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, message string) error
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	EnsureCollection(collection string)
	AddVector(ctx context.Context, collection, id string, vec []float32, payload vector.Payload) error
}

type Consumer struct {
	docs       DocumentStore
	tasks      TaskTracker
	dispatcher *processor.Dispatcher
	embedder   Embedder
	vectors    VectorStore
}

func NewConsumer(docs DocumentStore, tasks TaskTracker, dispatcher *processor.Dispatcher, embedder Embedder, vectors VectorStore) *Consumer {
	return &Consumer{
		docs:       docs,
		tasks:      tasks,
		dispatcher: dispatcher,
		embedder:   embedder,
		vectors:    vectors,
	}
}

// HandleMessage runs one document job to completion. Failures are
// terminal: the document goes to FAILED with the error recorded on the
// task, and the message is never requeued. Retry is a caller decision,
// made by re-enqueueing after an explicit reset.
func (c *Consumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var msg taskq.Message
	if err := json.Unmarshal(m.Body, &msg); err != nil {
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	ctx := context.Background()
	if msg.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, msg.CorrelationID)
	}

	// A document run can outlive nsqd's msg_timeout (the video pipeline
	// alone allows minutes of summarization). Keep touching the message
	// so nsqd does not redeliver it mid-run.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.Touch()
			}
		}
	}()

	if err := c.process(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "document processing failed", "documentId", msg.DocumentID, "taskId", msg.TaskID, "error", err)
		if statusErr := c.docs.SetStatus(ctx, msg.DocumentID, document.StatusFailed); statusErr != nil {
			slog.ErrorContext(ctx, "failed to mark document failed", "documentId", msg.DocumentID, "error", statusErr)
		}
		if taskErr := c.tasks.MarkFailed(ctx, msg.TaskID, err.Error()); taskErr != nil {
			slog.ErrorContext(ctx, "failed to record task error", "taskId", msg.TaskID, "error", taskErr)
		}
	}
	return nil
}

func (c *Consumer) process(ctx context.Context, msg taskq.Message) error {
	doc, err := c.docs.Get(ctx, msg.DocumentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	// NSQ delivers at least once. A redelivered message must not
	// restart a run that already moved the document past UPLOADED.
	if doc.Status != document.StatusUploaded {
		slog.InfoContext(ctx, "ignoring duplicate delivery", "documentId", doc.ID, "status", doc.Status, "taskId", msg.TaskID)
		return nil
	}

	if err := c.tasks.MarkRunning(ctx, msg.TaskID); err != nil {
		return fmt.Errorf("mark task running: %w", err)
	}
	if err := c.docs.SetStatus(ctx, doc.ID, document.StatusProcessing); err != nil {
		return fmt.Errorf("mark document processing: %w", err)
	}

	slog.InfoContext(ctx, "processing document", "documentId", doc.ID, "fileName", doc.FileName, "taskId", msg.TaskID)

	proc := c.dispatcher.Select(doc.FilePath)
	chunks, err := proc.Process(ctx, doc.FilePath)
	if err != nil {
		return err
	}

	collection := vector.CollectionName(doc.KnowledgeBaseID)
	c.vectors.EnsureCollection(collection)

	total := len(chunks)
	if err := c.tasks.SetProgress(ctx, msg.TaskID, 0, total); err != nil {
		slog.WarnContext(ctx, "failed to report progress", "taskId", msg.TaskID, "error", err)
	}

	// chunks commit one at a time in emission order; a failure leaves
	// everything already committed in place
	for i, chunk := range chunks {
		vec, err := c.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}

		row := &document.Chunk{
			DocumentID: doc.ID,
			ChunkIndex: chunk.Index,
			Content:    chunk.Content,
			VectorID:   uuid.NewString(),
		}
		if err := c.docs.InsertChunk(ctx, row); err != nil {
			return fmt.Errorf("persist chunk %d: %w", chunk.Index, err)
		}

		payload := vector.Payload{
			ChunkID:    row.ID,
			DocumentID: doc.ID,
			Content:    chunk.Content,
			Metadata:   chunk.Metadata,
		}
		if err := c.vectors.AddVector(ctx, collection, row.VectorID, vec, payload); err != nil {
			return fmt.Errorf("index chunk %d: %w", chunk.Index, err)
		}

		if err := c.tasks.SetProgress(ctx, msg.TaskID, i+1, total); err != nil {
			slog.WarnContext(ctx, "failed to report progress", "taskId", msg.TaskID, "error", err)
		}
	}

	if err := c.docs.SetStatus(ctx, doc.ID, document.StatusProcessed); err != nil {
		return fmt.Errorf("mark document processed: %w", err)
	}
	if err := c.tasks.MarkSucceeded(ctx, msg.TaskID); err != nil {
		return fmt.Errorf("mark task succeeded: %w", err)
	}

	slog.InfoContext(ctx, "document processed", "documentId", doc.ID, "chunks", total, "taskId", msg.TaskID)
	return nil
}
