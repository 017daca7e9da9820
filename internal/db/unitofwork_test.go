package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/stageplan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func putBlob(ctx context.Context, tx db.DBTX, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv_blobs (key, value, updated_at) VALUES (?, ?, '2025-01-01T00:00:00Z')`, key, []byte(value))
	return err
}

func blobExists(t *testing.T, database *sql.DB, key string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM kv_blobs WHERE key = ?`, key).Scan(&n))
	return n == 1
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return putBlob(ctx, tx, "projects", "[]")
	})
	require.NoError(t, err)
	assert.True(t, blobExists(t, database, "projects"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putBlob(ctx, tx, "projects", "[]"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, blobExists(t, database, "projects"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = putBlob(ctx, tx, "projects", "[]")
			panic("boom")
		})
	})
	assert.False(t, blobExists(t, database, "projects"))
}

func TestWithinTx_SecondWriteFailureUndoesFirst(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putBlob(ctx, tx, "a", "1"); err != nil {
			return err
		}
		// Duplicate primary key.
		return putBlob(ctx, tx, "a", "2")
	})
	require.Error(t, err)
	assert.False(t, blobExists(t, database, "a"))
}
