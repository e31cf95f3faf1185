package kb

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

func (r *PostgresRepo) Save(ctx context.Context, k *KnowledgeBase) error {
	query := `INSERT INTO knowledge_bases (name, description) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, k.Name, k.Description).Scan(&k.ID, &k.CreatedAt, &k.UpdatedAt)
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (*KnowledgeBase, error) {
	k := &KnowledgeBase{}
	query := `SELECT id, name, description, created_at, updated_at FROM knowledge_bases WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&k.ID, &k.Name, &k.Description, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]KnowledgeBase, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM knowledge_bases ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bases []KnowledgeBase
	for rows.Next() {
		var k KnowledgeBase
		if err := rows.Scan(&k.ID, &k.Name, &k.Description, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		bases = append(bases, k)
	}
	return bases, rows.Err()
}

func (r *PostgresRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM knowledge_bases WHERE id = $1)`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM knowledge_bases WHERE id = $1`
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

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM knowledge_bases`
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}
