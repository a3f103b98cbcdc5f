package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"worktracker.service/internal/core/model"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/internal/ports/sessions"
	"worktracker.service/pkg/metrics"
)

const (
	DefaultRecentSessions = 10
	maxListLimit          = 200
)

// SessionService runs the worker's start job / complete job flow.
type SessionService struct {
	jobs     repository.JobRepository
	sessions repository.WorkSessionRepository
	active   sessions.Store
	producer messaging.EventProducer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewSessionService(
	jobs repository.JobRepository,
	sessionRepo repository.WorkSessionRepository,
	active sessions.Store,
	producer messaging.EventProducer,
	m *metrics.Metrics,
) *SessionService {
	return &SessionService{
		jobs:     jobs,
		sessions: sessionRepo,
		active:   active,
		producer: producer,
		metrics:  m,
		now:      time.Now,
	}
}

func workerName(w model.Worker) (string, error) {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return "", invalid("worker name is required")
	}
	return name, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// StartJob opens a session for the worker on jobID and marks the job in
// progress. A worker has at most one open session.
func (s *SessionService) StartJob(ctx context.Context, worker model.Worker, jobID string) (*model.ActiveSession, error) {
	name, err := workerName(worker)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	if !job.Status.CanTransitionTo(model.StatusInProgress) {
		return nil, fmt.Errorf("%w: job %q is %s", ErrInvalidTransition, job.Title, job.Status)
	}

	active := model.ActiveSession{
		WorkerName: name,
		JobID:      job.ID,
		JobTitle:   job.Title,
		StartTime:  s.now().UTC(),
	}
	if err := s.active.Start(ctx, active); err != nil {
		if errors.Is(err, sessions.ErrExists) {
			return nil, ErrSessionInProgress
		}
		log.Ctx(ctx).Error().Err(err).Str("worker", name).Msg("failed to store active session")
		return nil, fmt.Errorf("start session: %w", err)
	}

	if job.Status != model.StatusInProgress {
		status := model.StatusInProgress
		if err := s.jobs.UpdateJob(ctx, job.ID, model.JobPatch{Status: &status}); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("job_id", job.ID).Msg("failed to mark job in progress, dropping session")
			if clearErr := s.active.Clear(ctx, name); clearErr != nil {
				log.Ctx(ctx).Error().Err(clearErr).Str("worker", name).Msg("failed to clear active session")
			}
			return nil, fmt.Errorf("update job %s: %w", job.ID, err)
		}
	}

	log.Ctx(ctx).Info().Str("worker", name).Str("job_id", job.ID).Msg("work session started")
	return &active, nil
}

// CompleteJob closes the worker's open session, records it and marks the job
// completed. The description is required.
func (s *SessionService) CompleteJob(ctx context.Context, worker model.Worker, description string) (*model.WorkSession, error) {
	name, err := workerName(worker)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, invalid("a description of the work is required")
	}

	active, err := s.active.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	if active == nil {
		return nil, ErrNoActiveSession
	}

	end := s.now().UTC()
	minutes := int(math.Round(end.Sub(active.StartTime).Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	session, err := s.sessions.CreateWorkSession(ctx, model.WorkSession{
		JobID:       active.JobID,
		JobTitle:    active.JobTitle,
		WorkerName:  name,
		StartTime:   active.StartTime,
		EndTime:     end,
		Duration:    minutes,
		Description: description,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("worker", name).Msg("failed to record work session")
		return nil, fmt.Errorf("create work session: %w", err)
	}

	status := model.StatusCompleted
	if err := s.jobs.UpdateJob(ctx, active.JobID, model.JobPatch{Status: &status}); err != nil {
		// the job may have been deleted while the worker was on it
		log.Ctx(ctx).Warn().Err(err).Str("job_id", active.JobID).Msg("could not mark job completed")
	}
	if err := s.active.Clear(ctx, name); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("worker", name).Msg("failed to clear active session")
	}

	s.metrics.ObserveSession(session.Duration)
	s.publish(ctx, messaging.Event{
		EventType:       messaging.EventWorkSessionCompleted,
		WorkerName:      name,
		OccurredAt:      end,
		WorkSessionID:   session.ID,
		JobID:           session.JobID,
		JobTitle:        session.JobTitle,
		DurationMinutes: session.Duration,
	})

	log.Ctx(ctx).Info().Str("worker", name).Str("work_session_id", session.ID).Int("minutes", session.Duration).Msg("work session completed")
	return session, nil
}

// ActiveSession returns the worker's open session, or nil.
func (s *SessionService) ActiveSession(ctx context.Context, worker model.Worker) (*model.ActiveSession, error) {
	name, err := workerName(worker)
	if err != nil {
		return nil, err
	}
	return s.active.Get(ctx, name)
}

func (s *SessionService) ListRecent(ctx context.Context, limit int) ([]model.WorkSession, error) {
	list, err := s.sessions.ListRecentWorkSessions(ctx, clampLimit(limit, DefaultRecentSessions))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list work sessions")
		return nil, fmt.Errorf("list work sessions: %w", err)
	}
	return list, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*model.WorkSession, error) {
	session, err := s.sessions.GetWorkSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get work session %s: %w", id, err)
	}
	return session, nil
}

// publish is best effort: the session or attendance record is already saved.
func (s *SessionService) publish(ctx context.Context, event messaging.Event) {
	publishEvent(ctx, s.producer, event)
}

func publishEvent(ctx context.Context, producer messaging.EventProducer, event messaging.Event) {
	if producer == nil {
		return
	}
	if err := producer.Publish(ctx, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event_type", string(event.EventType)).Msg("failed to publish event")
	}
}
