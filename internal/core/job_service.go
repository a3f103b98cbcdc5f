package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"worktracker.service/internal/core/duration"
	"worktracker.service/internal/core/model"
	"worktracker.service/internal/core/ranking"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/pkg/metrics"
)

type JobService struct {
	repo    repository.JobRepository
	metrics *metrics.Metrics
}

func NewJobService(repo repository.JobRepository, m *metrics.Metrics) *JobService {
	return &JobService{repo: repo, metrics: m}
}

// CreateJobInput is what a parent fills in on the job form. EstimatedTime is
// either whole minutes ("90") or duration text ("1h 30m").
type CreateJobInput struct {
	Title         string
	Description   string
	EstimatedTime string
	Priority      model.Priority
	Category      model.Category
	AssignedDays  []string
}

// UpdateJobInput is a partial edit; nil fields are left as they are.
type UpdateJobInput struct {
	Title         *string
	Description   *string
	EstimatedTime *string
	Status        *model.JobStatus
	Priority      *model.Priority
	AssignedDays  *[]string
	Category      *model.Category
	DisplayOrder  *int
}

// JobListFilter narrows List. Day keeps only jobs available on that weekday.
type JobListFilter struct {
	Status   model.JobStatus
	Category model.Category
	Day      string
}

// ReorderResult is the category as it stands after a reorder request.
type ReorderResult struct {
	// Applied is false for a no-op and for a failed write.
	Applied bool
	// Reconciled is set when the write failed and Jobs was re-read from storage.
	Reconciled bool
	Jobs       []model.Job
}

func parseEstimate(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, invalid("estimated time is required")
	}
	if n, err := strconv.Atoi(text); err == nil {
		if n < 0 {
			return 0, invalid("estimated time must not be negative")
		}
		return n, nil
	}
	return duration.ParseMinutes(text), nil
}

func normalizeDays(days []string) ([]string, error) {
	out := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if !model.IsWeekday(d) {
			return nil, invalid("unknown weekday %q", d)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *JobService) Create(ctx context.Context, in CreateJobInput) (*model.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	minutes, err := parseEstimate(in.EstimatedTime)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("unknown priority %q", priority)
	}
	category := in.Category
	if category == "" {
		category = model.CategoryActive
	}
	if !category.Valid() {
		return nil, invalid("unknown category %q", category)
	}
	days, err := normalizeDays(in.AssignedDays)
	if err != nil {
		return nil, err
	}

	job, err := s.repo.CreateJob(ctx, model.Job{
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		EstimatedTime: minutes,
		Status:        model.StatusPending,
		Priority:      priority,
		AssignedDays:  days,
		Category:      category,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("title", title).Msg("failed to create job")
		return nil, fmt.Errorf("create job: %w", err)
	}

	log.Ctx(ctx).Info().Str("job_id", job.ID).Str("category", string(job.Category)).Msg("job created")
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, filter JobListFilter) ([]model.Job, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown status %q", filter.Status)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, invalid("unknown category %q", filter.Category)
	}
	day := strings.ToLower(strings.TrimSpace(filter.Day))
	if day != "" && !model.IsWeekday(day) {
		return nil, invalid("unknown weekday %q", filter.Day)
	}

	jobs, err := s.repo.ListJobs(ctx, model.JobFilter{Status: filter.Status, Category: filter.Category})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list jobs")
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if day == "" {
		return jobs, nil
	}

	available := jobs[:0]
	for _, j := range jobs {
		if j.AvailableOn(day) {
			available = append(available, j)
		}
	}
	return available, nil
}

// Update applies a partial edit. A status change must follow the job
// lifecycle; nothing leaves completed.
func (s *JobService) Update(ctx context.Context, id string, in UpdateJobInput) (*model.Job, error) {
	var patch model.JobPatch

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, invalid("title is required")
		}
		patch.Title = &title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		patch.Description = &desc
	}
	if in.EstimatedTime != nil {
		minutes, err := parseEstimate(*in.EstimatedTime)
		if err != nil {
			return nil, err
		}
		patch.EstimatedTime = &minutes
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalid("unknown status %q", *in.Status)
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, invalid("unknown priority %q", *in.Priority)
		}
		patch.Priority = in.Priority
	}
	if in.AssignedDays != nil {
		days, err := normalizeDays(*in.AssignedDays)
		if err != nil {
			return nil, err
		}
		patch.AssignedDays = &days
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, invalid("unknown category %q", *in.Category)
		}
		patch.Category = in.Category
	}
	if in.DisplayOrder != nil {
		if *in.DisplayOrder < 0 {
			return nil, invalid("display order must not be negative")
		}
		patch.DisplayOrder = in.DisplayOrder
	}

	if in.Status != nil {
		current, err := s.repo.GetJob(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get job %s: %w", id, err)
		}
		if !current.Status.CanTransitionTo(*in.Status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, *in.Status)
		}
		patch.Status = in.Status
	}

	if err := s.repo.UpdateJob(ctx, id, patch); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Ctx(ctx).Error().Err(err).Str("job_id", id).Msg("failed to update job")
		}
		return nil, fmt.Errorf("update job %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteJob(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Ctx(ctx).Error().Err(err).Str("job_id", id).Msg("failed to delete job")
		}
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	log.Ctx(ctx).Info().Str("job_id", id).Msg("job deleted")
	return nil
}

// ToggleCategory moves a job to the other list. Display order and priority
// are left exactly as they were, on this job and on every other.
func (s *JobService) ToggleCategory(ctx context.Context, id string, target model.Category) (*model.Job, error) {
	if !target.Valid() {
		return nil, invalid("unknown category %q", target)
	}
	if err := s.repo.UpdateJob(ctx, id, model.JobPatch{Category: &target}); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Ctx(ctx).Error().Err(err).Str("job_id", id).Msg("failed to change job category")
		}
		return nil, fmt.Errorf("change category of job %s: %w", id, err)
	}
	s.metrics.ObserveCategoryToggle()
	return s.Get(ctx, id)
}

// Reorder moves movedID to the slot currently held by overID and rebalances
// the category. Equal ids, or jobs from different categories, are a no-op
// that writes nothing.
func (s *JobService) Reorder(ctx context.Context, movedID, overID string) (ReorderResult, error) {
	if movedID == overID {
		s.metrics.ObserveReorder("noop")
		return ReorderResult{}, nil
	}

	moved, err := s.Get(ctx, movedID)
	if err != nil {
		return ReorderResult{}, err
	}
	over, err := s.Get(ctx, overID)
	if err != nil {
		return ReorderResult{}, err
	}
	if moved.Category != over.Category {
		s.metrics.ObserveReorder("noop")
		return ReorderResult{}, nil
	}

	jobs, err := s.repo.ListJobs(ctx, model.JobFilter{Category: moved.Category})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list category for reorder")
		return ReorderResult{}, fmt.Errorf("list jobs: %w", err)
	}

	proposed, ok := ranking.Reorder(jobs, movedID, overID)
	if !ok {
		s.metrics.ObserveReorder("noop")
		return ReorderResult{Jobs: jobs}, nil
	}
	return s.applyOrdering(ctx, moved.Category, proposed)
}

// MoveTo moves movedID to index within its category and rebalances it.
func (s *JobService) MoveTo(ctx context.Context, movedID string, index int) (ReorderResult, error) {
	moved, err := s.Get(ctx, movedID)
	if err != nil {
		return ReorderResult{}, err
	}

	jobs, err := s.repo.ListJobs(ctx, model.JobFilter{Category: moved.Category})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list category for reorder")
		return ReorderResult{}, fmt.Errorf("list jobs: %w", err)
	}

	proposed, ok := ranking.MoveToIndex(jobs, movedID, index)
	if !ok {
		return ReorderResult{}, invalid("position %d is outside a list of %d jobs", index, len(jobs))
	}
	return s.applyOrdering(ctx, moved.Category, proposed)
}

// applyOrdering writes the proposed order. When the write fails the category
// is re-read so the caller gets the state storage actually holds along with
// the error.
func (s *JobService) applyOrdering(ctx context.Context, category model.Category, proposed []model.Job) (ReorderResult, error) {
	err := s.repo.UpdateOrdering(ctx, proposed)
	if err == nil {
		s.metrics.ObserveReorder("applied")
		log.Ctx(ctx).Info().Str("category", string(category)).Int("jobs", len(proposed)).Msg("job order saved")
		return ReorderResult{Applied: true, Jobs: proposed}, nil
	}

	log.Ctx(ctx).Error().Err(err).Str("category", string(category)).Msg("failed to save job order, re-reading category")
	s.metrics.ObserveReorder("reconciled")

	writeErr := fmt.Errorf("save job order: %w", err)
	fresh, readErr := s.repo.ListJobs(ctx, model.JobFilter{Category: category})
	if readErr != nil {
		log.Ctx(ctx).Error().Err(readErr).Str("category", string(category)).Msg("failed to re-read category")
		return ReorderResult{}, errors.Join(writeErr, fmt.Errorf("re-read category: %w", readErr))
	}
	return ReorderResult{Reconciled: true, Jobs: fresh}, writeErr
}
