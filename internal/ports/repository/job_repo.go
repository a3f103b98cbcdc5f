package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"worktracker.service/internal/core/model"
	"worktracker.service/pkg/database"
)

const jobColumns = `id, title, description, estimated_time, status, priority, assigned_days, category, display_order, created_at, updated_at`

// JobRepo is the SQL implementation of JobRepository.
type JobRepo struct {
	DB      *sql.DB
	dialect database.Dialect
}

// NewJobRepository create new instance
func NewJobRepository(db *sql.DB, dialect database.Dialect) *JobRepo {
	return &JobRepo{DB: db, dialect: dialect}
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		j                    model.Job
		days                 string
		createdAt, updatedAt timeValue
	)
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.EstimatedTime, &j.Status, &j.Priority,
		&days, &j.Category, &j.DisplayOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(days), &j.AssignedDays); err != nil {
		return nil, fmt.Errorf("decode assigned_days of job %s: %w", j.ID, err)
	}
	if j.AssignedDays == nil {
		j.AssignedDays = []string{}
	}
	j.CreatedAt, j.UpdatedAt = createdAt.Time, updatedAt.Time
	return &j, nil
}

func encodeDays(days []string) (string, error) {
	if days == nil {
		days = []string{}
	}
	b, err := json.Marshal(days)
	return string(b), err
}

// ListJobs returns jobs ordered by display order, newest first on ties.
func (r *JobRepo) ListJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs`

	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY display_order ASC, created_at DESC"

	rows, err := r.DB.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// GetJob fetches a single job.
func (r *JobRepo) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	row := r.DB.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+jobColumns+` FROM jobs WHERE id = $1`), id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return j, err
}

// CreateJob inserts a job at the end of its category. Id, timestamps and
// display order are assigned here.
func (r *JobRepo) CreateJob(ctx context.Context, job model.Job) (*model.Job, error) {
	days, err := encodeDays(job.AssignedDays)
	if err != nil {
		return nil, err
	}

	job.ID = uuid.NewString()
	job.CreatedAt = timestamp()
	job.UpdatedAt = job.CreatedAt
	if job.AssignedDays == nil {
		job.AssignedDays = []string{}
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.jobId", job.ID))

	query := `INSERT INTO jobs (id, title, description, estimated_time, status, priority, assigned_days, category, display_order, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
                      (SELECT COALESCE(MAX(display_order), -1) + 1 FROM jobs WHERE category = $8),
                      $9, $9)
              RETURNING display_order`

	err = r.DB.QueryRowContext(ctx, r.dialect.Rebind(query),
		job.ID, job.Title, job.Description, job.EstimatedTime, string(job.Status), string(job.Priority),
		days, string(job.Category), job.CreatedAt,
	).Scan(&job.DisplayOrder)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob writes only the fields set in patch.
func (r *JobRepo) UpdateJob(ctx context.Context, id string, patch model.JobPatch) error {
	if !validID(id) {
		return ErrNotFound
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.jobId", id))

	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.EstimatedTime != nil {
		set("estimated_time", *patch.EstimatedTime)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.AssignedDays != nil {
		days, err := encodeDays(*patch.AssignedDays)
		if err != nil {
			return err
		}
		set("assigned_days", days)
	}
	if patch.Category != nil {
		set("category", string(*patch.Category))
	}
	if patch.DisplayOrder != nil {
		set("display_order", *patch.DisplayOrder)
	}
	set("updated_at", timestamp())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := r.DB.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

// DeleteJob removes a job. Work sessions that reference it are kept.
func (r *JobRepo) DeleteJob(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM jobs WHERE id = $1`), id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

// UpdateOrdering rewrites display_order and priority for every job in one
// transaction, so a failure leaves the category as it was.
func (r *JobRepo) UpdateOrdering(ctx context.Context, jobs []model.Job) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := r.dialect.Rebind(`UPDATE jobs SET display_order = $1, priority = $2, updated_at = $3 WHERE id = $4`)
	now := timestamp()
	for _, j := range jobs {
		if !validID(j.ID) {
			return fmt.Errorf("job %s: %w", j.ID, ErrNotFound)
		}
		res, err := tx.ExecContext(ctx, query, j.DisplayOrder, string(j.Priority), now, j.ID)
		if err != nil {
			return fmt.Errorf("update order of job %s: %w", j.ID, err)
		}
		if err := requireOneRow(res); err != nil {
			return fmt.Errorf("job %s: %w", j.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit: %w", err)
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
