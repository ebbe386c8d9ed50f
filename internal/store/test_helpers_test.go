package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/lexid"
)

// fixedNow is the created_at stamp used by createTestStore.
var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithNow(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record for an explicit identifier.
func createTestRecord(ts int64, jitter, workerID int32, label string) Record {
	return Record{
		ID:    lexid.FromFields(ts, jitter, workerID),
		Label: label,
	}
}
