package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order and never edited once released. The
// database's PRAGMA user_version holds how many have run.
var migrations = []string{
	// One row per persisted document. The project collection is a single
	// row that is always written whole; size is kept so listings skip value.
	`CREATE TABLE IF NOT EXISTS kv_blobs (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL,
		size       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_kv_blobs_updated ON kv_blobs(updated_at)`,
}

// SchemaVersion reports the number of migrations applied to db.
func SchemaVersion(db DBTX) (int, error) {
	var v int
	if err := db.QueryRowContext(context.Background(), `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Migrate applies pending migrations, each in its own transaction together
// with the version bump.
func Migrate(db *sql.DB) error {
	applied, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	uow := NewSQLiteUnitOfWork(db)
	for i := applied; i < len(migrations); i++ {
		err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
			if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
				return err
			}
			// PRAGMA takes no bind parameters.
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
