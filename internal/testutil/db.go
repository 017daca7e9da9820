package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/stageplan/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory database that is closed at test end.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW returns the production unit of work over database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// FailingWriteUoW runs callbacks in a real transaction but makes the FailOn-th
// write (1-based, counted per transaction) return Err. Reads are untouched,
// so rollback of earlier writes in the same transaction can be asserted.
type FailingWriteUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWrites{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failingWrites struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.writes.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
