package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/stageplan/internal/db"
)

// ProjectsKey is the kv_blobs key holding the project collection.
const ProjectsKey = "projects"

// BlobPersister stores one document under a fixed key. Each save keeps the
// value it replaces under key+".prev" in the same transaction.
type BlobPersister struct {
	conn db.DBTX
	uow  db.UnitOfWork
	key  string
}

// NewBlobPersister creates a persister for key. Reads go through conn and
// writes through uow.
func NewBlobPersister(conn db.DBTX, uow db.UnitOfWork, key string) *BlobPersister {
	return &BlobPersister{conn: conn, uow: uow, key: key}
}

// Load returns the stored document, or nil when nothing was saved yet.
func (p *BlobPersister) Load(ctx context.Context) ([]byte, error) {
	b, err := NewSQLiteBlobRepo(p.conn).Get(ctx, p.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}

// Save replaces the document.
func (p *BlobPersister) Save(ctx context.Context, data []byte) error {
	return p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteBlobRepo(tx)
		prev, err := repo.Get(ctx, p.key)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return err
		default:
			if err := repo.Put(ctx, previousKey(p.key), prev.Value); err != nil {
				return err
			}
		}
		return repo.Put(ctx, p.key, data)
	})
}

// Previous returns the document as it was before the last save, or nil when
// there has been at most one save.
func (p *BlobPersister) Previous(ctx context.Context) ([]byte, error) {
	b, err := NewSQLiteBlobRepo(p.conn).Get(ctx, previousKey(p.key))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}
