package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an in-memory database with the full catalog schema
// applied, closed automatically when the test finishes. Tests that need real
// lock contention between connections should open a file-backed database
// instead.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("creating test database schema: %v", err)
	}

	return database
}
