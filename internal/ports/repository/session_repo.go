package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"worktracker.service/internal/core/model"
	"worktracker.service/pkg/database"
)

const sessionColumns = `id, job_id, job_title, worker_name, start_time, end_time, duration, description, created_at`

type WorkSessionRepo struct {
	DB      *sql.DB
	dialect database.Dialect
}

func NewWorkSessionRepository(db *sql.DB, dialect database.Dialect) *WorkSessionRepo {
	return &WorkSessionRepo{DB: db, dialect: dialect}
}

func scanWorkSession(row rowScanner) (*model.WorkSession, error) {
	var (
		s                     model.WorkSession
		jobID                 sql.NullString
		start, end, createdAt timeValue
	)
	if err := row.Scan(&s.ID, &jobID, &s.JobTitle, &s.WorkerName, &start, &end, &s.Duration, &s.Description, &createdAt); err != nil {
		return nil, err
	}
	s.JobID = jobID.String
	s.StartTime, s.EndTime, s.CreatedAt = start.Time, end.Time, createdAt.Time
	return &s, nil
}

// CreateWorkSession records a finished session. The job reference is stored
// as given and is not checked against the jobs table.
func (r *WorkSessionRepo) CreateWorkSession(ctx context.Context, session model.WorkSession) (*model.WorkSession, error) {
	session.ID = uuid.NewString()
	session.CreatedAt = timestamp()
	session.StartTime = session.StartTime.UTC()
	session.EndTime = session.EndTime.UTC()

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("app.workerName", session.WorkerName),
		attribute.String("app.workSessionId", session.ID),
	)

	jobID := sql.NullString{String: session.JobID, Valid: validID(session.JobID)}

	query := `INSERT INTO work_sessions (id, job_id, job_title, worker_name, start_time, end_time, duration, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, r.dialect.Rebind(query),
		session.ID, jobID, session.JobTitle, session.WorkerName,
		session.StartTime, session.EndTime, session.Duration, session.Description, session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if !jobID.Valid {
		session.JobID = ""
	}
	return &session, nil
}

func (r *WorkSessionRepo) GetWorkSession(ctx context.Context, id string) (*model.WorkSession, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+sessionColumns+` FROM work_sessions WHERE id = $1`), id)
	s, err := scanWorkSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// ListRecentWorkSessions returns up to limit sessions, newest first.
func (r *WorkSessionRepo) ListRecentWorkSessions(ctx context.Context, limit int) ([]model.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListWorkSessionsSince returns sessions that started at or after since.
func (r *WorkSessionRepo) ListWorkSessionsSince(ctx context.Context, since time.Time) ([]model.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE start_time >= $1 ORDER BY start_time ASC`
	return r.list(ctx, query, since.UTC())
}

func (r *WorkSessionRepo) list(ctx context.Context, query string, args ...any) ([]model.WorkSession, error) {
	rows, err := r.DB.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []model.WorkSession{}
	for rows.Next() {
		s, err := scanWorkSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}
