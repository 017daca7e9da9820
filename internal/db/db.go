package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// filePragmas apply to on-disk databases. Another CLI invocation may hold the
// write lock briefly, hence the busy timeout.
var filePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// OpenDB opens the SQLite database at path, creating parent directories, and
// migrates it. MemoryPath yields an in-memory database pinned to a single
// connection so every query sees the same data.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	} else {
		for _, pragma := range filePragmas {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
