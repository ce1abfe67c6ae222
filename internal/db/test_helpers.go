package db

import (
	"path/filepath"
	"testing"
)

// NewTestDB opens a migrated database in a temporary directory.
func NewTestDB(t testing.TB) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "roadline_test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
