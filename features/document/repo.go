package document

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Save(ctx context.Context, d *Document) error {
	query := `INSERT INTO documents (kb_id, file_name, file_type, file_path, status) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, d.KnowledgeBaseID, d.FileName, d.FileType, d.FilePath, d.Status).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (*Document, error) {
	d := &Document{}
	var taskID sql.NullString
	query := `SELECT id, kb_id, file_name, file_type, file_path, status, task_id, created_at, updated_at FROM documents WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.KnowledgeBaseID, &d.FileName, &d.FileType, &d.FilePath, &d.Status, &taskID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.TaskID = taskID.String
	return d, nil
}

func (r *PostgresRepo) ListByKB(ctx context.Context, kbID int64) ([]Document, error) {
	query := `SELECT id, kb_id, file_name, file_type, file_path, status, task_id, created_at, updated_at FROM documents WHERE kb_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, kbID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var taskID sql.NullString
		if err := rows.Scan(&d.ID, &d.KnowledgeBaseID, &d.FileName, &d.FileType, &d.FilePath, &d.Status, &taskID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.TaskID = taskID.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *PostgresRepo) ExistsByName(ctx context.Context, kbID int64, fileName string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM documents WHERE kb_id = $1 AND file_name = $2)`
	err := r.db.QueryRowContext(ctx, query, kbID, fileName).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) SetStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE documents SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func (r *PostgresRepo) SetTaskID(ctx context.Context, id int64, taskID string) error {
	query := `UPDATE documents SET task_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, taskID, id)
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) InsertChunk(ctx context.Context, c *Chunk) error {
	query := `INSERT INTO document_chunks (document_id, chunk_index, content, vector_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, c.DocumentID, c.ChunkIndex, c.Content, c.VectorID).Scan(&c.ID, &c.CreatedAt)
}

func (r *PostgresRepo) ListChunks(ctx context.Context, documentID int64) ([]Chunk, error) {
	query := `SELECT id, document_id, chunk_index, content, vector_id, created_at FROM document_chunks WHERE document_id = $1 ORDER BY chunk_index ASC`
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.ChunkIndex, &c.Content, &c.VectorID, &c.CreatedAt); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (r *PostgresRepo) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

func (r *PostgresRepo) CountChunks(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count)
	return count, err
}
