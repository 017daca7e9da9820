package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/stageplan/internal/db"
)

// SQLiteBlobRepo reads and writes documents in the kv_blobs table.
type SQLiteBlobRepo struct {
	db  db.DBTX
	now func() time.Time
}

// NewSQLiteBlobRepo creates a new SQLiteBlobRepo. conn may be a *sql.DB or a
// transaction handed out by a UnitOfWork.
func NewSQLiteBlobRepo(conn db.DBTX) *SQLiteBlobRepo {
	return &SQLiteBlobRepo{db: conn, now: time.Now}
}

func (r *SQLiteBlobRepo) Get(ctx context.Context, key string) (*Blob, error) {
	var (
		b         Blob
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM kv_blobs WHERE key = ?`, key,
	).Scan(&b.Key, &b.Value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	if b.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *SQLiteBlobRepo) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	query := `INSERT INTO kv_blobs (key, value, updated_at, size) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at, size = excluded.size`
	if _, err := r.db.ExecContext(ctx, query, key, value, formatTimestamp(r.now()), len(value)); err != nil {
		return fmt.Errorf("writing blob %s: %w", key, err)
	}
	return nil
}
