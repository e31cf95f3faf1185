package taskq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tomekeeper/backend/internal/config"
	"tomekeeper/backend/internal/middleware"
)

type EventPublisher interface {
	Publish(topic string, body []byte) error
}

// Queue hands processing work to the runner over NSQ, recording a task
// row first so the caller gets a handle to poll.
type Queue struct {
	repo Repository
	pub  EventPublisher
}

func NewQueue(repo Repository, pub EventPublisher) *Queue {
	return &Queue{repo: repo, pub: pub}
}

// Enqueue creates a queued task for the document and publishes the
// processing message. A publish failure marks the task failed so it is
// never left dangling in queued.
func (q *Queue) Enqueue(ctx context.Context, documentID int64, filePath string) (*Task, error) {
	task := &Task{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		State:      StateQueued,
	}
	if err := q.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	msg := Message{
		TaskID:        task.ID,
		DocumentID:    documentID,
		FilePath:      filePath,
		CorrelationID: middleware.GetCorrelationID(ctx),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal task message: %w", err)
	}

	if err := q.pub.Publish(config.TopicIngestDocument, body); err != nil {
		if markErr := q.repo.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark task failed after publish error", "taskId", task.ID, "error", markErr)
		}
		return nil, fmt.Errorf("publish task: %w", err)
	}
	return task, nil
}

// Status returns the current state of a task.
func (q *Queue) Status(ctx context.Context, id string) (*Task, error) {
	return q.repo.Get(ctx, id)
}
