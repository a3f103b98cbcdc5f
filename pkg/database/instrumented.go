package database

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"worktracker.service/internal/config"
)

// NewInstrumentedConnection creates a PostgreSQL connection with OpenTelemetry instrumentation.
// otelsql wraps the driver so every query gets its own span.
func NewInstrumentedConnection(cfg config.Config) (*sql.DB, error) {
	db, err := otelsql.Open("pgx", cfg.PostgresDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return db, nil
}
