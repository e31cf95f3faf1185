package taskq

import (
	"context"
	"database/sql"
)

type Repository interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	MarkRunning(ctx context.Context, id string) error
	SetProgress(ctx context.Context, id string, current, total int) error
	MarkSucceeded(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, message string) error
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, task *Task) error {
	query := `INSERT INTO ingest_tasks (id, document_id, state) VALUES ($1, $2, $3) RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, task.ID, task.DocumentID, task.State).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*Task, error) {
	t := &Task{}
	var errText sql.NullString
	query := `SELECT id, document_id, state, current, total, error, created_at, updated_at FROM ingest_tasks WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.DocumentID, &t.State, &t.Current, &t.Total, &errText, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Error = errText.String
	return t, nil
}

func (r *PostgresRepo) MarkRunning(ctx context.Context, id string) error {
	query := `UPDATE ingest_tasks SET state = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, StateRunning)
	return err
}

func (r *PostgresRepo) SetProgress(ctx context.Context, id string, current, total int) error {
	query := `UPDATE ingest_tasks SET current = $2, total = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, current, total)
	return err
}

func (r *PostgresRepo) MarkSucceeded(ctx context.Context, id string) error {
	query := `UPDATE ingest_tasks SET state = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, StateSucceeded)
	return err
}

func (r *PostgresRepo) MarkFailed(ctx context.Context, id, message string) error {
	query := `UPDATE ingest_tasks SET state = $2, error = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, StateFailed, message)
	return err
}
