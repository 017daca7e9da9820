package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no blob exists under the requested key.
var ErrNotFound = errors.New("blob not found")

// Blob is one stored document.
type Blob struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}
