package repository

import (
	"context"
	"errors"
	"time"

	"worktracker.service/internal/core/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrCheckedOut is returned when a check-in targets a day that is already closed.
	ErrCheckedOut = errors.New("attendance already checked out")
)

// JobRepository is the persistence contract for jobs.
type JobRepository interface {
	ListJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
	CreateJob(ctx context.Context, job model.Job) (*model.Job, error)
	UpdateJob(ctx context.Context, id string, patch model.JobPatch) error
	DeleteJob(ctx context.Context, id string) error
	// UpdateOrdering writes display order and priority for every job given,
	// all or nothing.
	UpdateOrdering(ctx context.Context, jobs []model.Job) error
}

// WorkSessionRepository stores completed work sessions. Sessions are never
// updated or deleted once written.
type WorkSessionRepository interface {
	CreateWorkSession(ctx context.Context, session model.WorkSession) (*model.WorkSession, error)
	GetWorkSession(ctx context.Context, id string) (*model.WorkSession, error)
	ListRecentWorkSessions(ctx context.Context, limit int) ([]model.WorkSession, error)
	ListWorkSessionsSince(ctx context.Context, since time.Time) ([]model.WorkSession, error)
}

// AttendanceRepository is the persistence contract for attendance records.
type AttendanceRepository interface {
	GetAttendanceForWorkerAndDate(ctx context.Context, workerName string, day time.Time) (*model.AttendanceRecord, error)
	GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error)
	UpsertAttendanceCheckIn(ctx context.Context, workerName string, day, checkIn time.Time, late bool) (*model.AttendanceRecord, error)
	UpdateAttendanceCheckOut(ctx context.Context, id string, checkOut time.Time, early bool) (*model.AttendanceRecord, error)
	UpdateAttendanceTimes(ctx context.Context, id string, checkIn, checkOut *time.Time) (*model.AttendanceRecord, error)
	ListRecentAttendance(ctx context.Context, limit int) ([]model.AttendanceRecord, error)
}
