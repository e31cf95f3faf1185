package kb_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"tomekeeper/backend/features/kb"
)

func TestPostgresRepo_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kb.NewPostgresRepo(db)
	now := time.Now()

	k := &kb.KnowledgeBase{Name: "Research", Description: "papers"}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO knowledge_bases (name, description) VALUES ($1, $2) RETURNING id, created_at, updated_at")).
		WithArgs("Research", "papers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	err = repo.Save(context.Background(), k)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), k.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kb.NewPostgresRepo(db)
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, created_at, updated_at FROM knowledge_bases WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
				AddRow(int64(7), "Research", "papers", now, now))

		k, err := repo.Get(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, "Research", k.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, created_at, updated_at FROM knowledge_bases WHERE id = $1")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}))

		_, err := repo.Get(context.Background(), 99)
		assert.ErrorIs(t, err, kb.ErrNotFound)
	})
}

func TestPostgresRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kb.NewPostgresRepo(db)

	t.Run("Deleted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM knowledge_bases WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 7))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM knowledge_bases WHERE id = $1")).
			WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 99), kb.ErrNotFound)
	})
}

func TestPostgresRepo_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kb.NewPostgresRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM knowledge_bases WHERE id = $1)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 7)
	assert.NoError(t, err)
	assert.True(t, exists)
}
