// Package taskq enqueues document processing work onto NSQ and tracks
// each run's state in the ingest_tasks table.
package taskq

import "time"

const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

type Task struct {
	ID         string    `json:"id"`
	DocumentID int64     `json:"document_id"`
	State      string    `json:"state"`
	Current    int       `json:"current"`
	Total      int       `json:"total"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Message is the NSQ payload for one processing run.
type Message struct {
	TaskID        string `json:"task_id"`
	DocumentID    int64  `json:"document_id"`
	FilePath      string `json:"file_path"`
	CorrelationID string `json:"correlation_id"`
}
