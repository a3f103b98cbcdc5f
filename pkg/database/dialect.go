package database

import (
	"database/sql"
	"fmt"
	"regexp"

	"worktracker.service/internal/config"
)

// Dialect identifies the SQL flavour a *sql.DB speaks. Queries are written
// with Postgres placeholders ($1, $2, ...) and rebound where needed.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var positional = regexp.MustCompile(`\$(\d+)`)

// Rebind rewrites $N placeholders into the form the dialect expects.
func (d Dialect) Rebind(query string) string {
	if d == SQLite {
		return positional.ReplaceAllString(query, "?$1")
	}
	return query
}

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg config.Config) (*sql.DB, Dialect, error) {
	switch cfg.DBDriver {
	case string(Postgres):
		db, err := NewInstrumentedConnection(cfg)
		return db, Postgres, err
	case string(SQLite):
		db, err := NewSQLiteConnection(cfg.SQLitePath)
		return db, SQLite, err
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenPlain is Open without query tracing, for the background workers.
func OpenPlain(cfg config.Config) (*sql.DB, Dialect, error) {
	if cfg.DBDriver == string(Postgres) {
		db, err := NewConnection(cfg)
		return db, Postgres, err
	}
	return Open(cfg)
}
