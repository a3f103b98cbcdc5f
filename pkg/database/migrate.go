package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

func (d Dialect) gooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Migrate applies every pending migration for the dialect.
func Migrate(db *sql.DB, d Dialect) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations/"+string(d)); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrationVersion reports the currently applied schema version.
func MigrationVersion(db *sql.DB, d Dialect) (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}
