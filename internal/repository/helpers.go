package repository

import (
	"fmt"
	"time"
)

// parseTimestamp parses an RFC3339 column value.
func parseTimestamp(column, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// formatTimestamp converts t to the UTC text form stored in SQLite.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// previousKey names the slot holding the value a key had before its last write.
func previousKey(key string) string {
	return key + ".prev"
}
