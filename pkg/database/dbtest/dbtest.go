// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"worktracker.service/pkg/database"
)

// NewSQLite returns a migrated database in the test's temp dir. It is closed
// when the test ends.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db, database.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
