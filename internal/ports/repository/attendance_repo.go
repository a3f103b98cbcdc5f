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

const attendanceColumns = `id, worker_name, date, check_in_time, check_out_time, is_late_check_in, is_early_check_out, created_at, updated_at`

type AttendanceRepo struct {
	DB      *sql.DB
	dialect database.Dialect
}

func NewAttendanceRepository(db *sql.DB, dialect database.Dialect) *AttendanceRepo {
	return &AttendanceRepo{DB: db, dialect: dialect}
}

func scanAttendance(row rowScanner) (*model.AttendanceRecord, error) {
	var (
		a                    model.AttendanceRecord
		date                 timeValue
		checkIn, checkOut    timeValue
		createdAt, updatedAt timeValue
	)
	err := row.Scan(&a.ID, &a.WorkerName, &date, &checkIn, &checkOut,
		&a.IsLateCheckIn, &a.IsEarlyCheckOut, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	y, m, d := date.Time.Date()
	a.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	a.CheckInTime, a.CheckOutTime = checkIn.ptr(), checkOut.ptr()
	a.CreatedAt, a.UpdatedAt = createdAt.Time, updatedAt.Time
	return &a, nil
}

func (r *AttendanceRepo) queryOne(ctx context.Context, query string, args ...any) (*model.AttendanceRecord, error) {
	a, err := scanAttendance(r.DB.QueryRowContext(ctx, r.dialect.Rebind(query), args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// GetAttendanceForWorkerAndDate returns nil without error when the worker has
// no record for day.
func (r *AttendanceRepo) GetAttendanceForWorkerAndDate(ctx context.Context, workerName string, day time.Time) (*model.AttendanceRecord, error) {
	a, err := r.queryOne(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE worker_name = $1 AND date = $2`,
		workerName, dayString(day))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return a, err
}

func (r *AttendanceRepo) GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return r.queryOne(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id)
}

// UpsertAttendanceCheckIn creates the day's record or overwrites the check-in
// of an open one. A record that already has a check-out is left alone and
// ErrCheckedOut is returned.
func (r *AttendanceRepo) UpsertAttendanceCheckIn(ctx context.Context, workerName string, day, checkIn time.Time, late bool) (*model.AttendanceRecord, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("app.workerName", workerName),
		attribute.String("app.attendanceDate", dayString(day)),
	)

	now := timestamp()
	query := `INSERT INTO attendance (id, worker_name, date, check_in_time, is_late_check_in, is_early_check_out, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
              ON CONFLICT (worker_name, date) DO UPDATE
              SET check_in_time = EXCLUDED.check_in_time,
                  is_late_check_in = EXCLUDED.is_late_check_in,
                  updated_at = EXCLUDED.updated_at
              WHERE attendance.check_out_time IS NULL
              RETURNING ` + attendanceColumns

	a, err := r.queryOne(ctx, query, uuid.NewString(), workerName, dayString(day), checkIn.UTC(), late, now)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrCheckedOut
	}
	return a, err
}

// UpdateAttendanceCheckOut closes the record.
func (r *AttendanceRepo) UpdateAttendanceCheckOut(ctx context.Context, id string, checkOut time.Time, early bool) (*model.AttendanceRecord, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.attendanceId", id))

	query := `UPDATE attendance SET check_out_time = $1, is_early_check_out = $2, updated_at = $3
              WHERE id = $4
              RETURNING ` + attendanceColumns
	return r.queryOne(ctx, query, checkOut.UTC(), early, timestamp(), id)
}

// UpdateAttendanceTimes overwrites both times as given (nil clears). The
// punctuality flags are not touched.
func (r *AttendanceRepo) UpdateAttendanceTimes(ctx context.Context, id string, checkIn, checkOut *time.Time) (*model.AttendanceRecord, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.attendanceId", id))

	query := `UPDATE attendance SET check_in_time = $1, check_out_time = $2, updated_at = $3
              WHERE id = $4
              RETURNING ` + attendanceColumns
	return r.queryOne(ctx, query, nullTime(checkIn), nullTime(checkOut), timestamp(), id)
}

// ListRecentAttendance returns up to limit records, most recent day first.
func (r *AttendanceRepo) ListRecentAttendance(ctx context.Context, limit int) ([]model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance ORDER BY date DESC, created_at DESC LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, r.dialect.Rebind(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []model.AttendanceRecord{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
