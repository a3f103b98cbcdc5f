package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktracker.service/internal/core/model"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/sessions"
)

func newSessionService(t *testing.T) (*SessionService, *JobService, *recordingProducer, *clock) {
	r := newRepos(t)
	producer := &recordingProducer{}
	c := &clock{t: time.Date(2026, 10, 14, 16, 10, 0, 0, time.UTC)}

	svc := NewSessionService(r.jobs, r.sessions, sessions.NewMemoryStore(time.Hour*12), producer, nil)
	svc.now = c.now
	return svc, NewJobService(r.jobs, nil), producer, c
}

func TestSessionServiceStartAndComplete(t *testing.T) {
	ctx := context.Background()
	svc, jobs, producer, c := newSessionService(t)
	sam := model.Worker{Name: "sam"}

	job := createJobs(t, jobs, model.CategoryActive, "Dishes")[0]

	active, err := svc.StartJob(ctx, sam, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dishes", active.JobTitle)
	assert.True(t, active.StartTime.Equal(c.t))

	stored, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, stored.Status)

	_, err = svc.StartJob(ctx, sam, job.ID)
	assert.ErrorIs(t, err, ErrSessionInProgress)

	c.advance(44*time.Minute + 40*time.Second)
	session, err := svc.CompleteJob(ctx, sam, "  scrubbed the pans ")
	require.NoError(t, err)
	assert.Equal(t, 45, session.Duration)
	assert.Equal(t, "scrubbed the pans", session.Description)
	assert.Equal(t, "Dishes", session.JobTitle)
	assert.Equal(t, "sam", session.WorkerName)

	stored, err = jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status)

	none, err := svc.ActiveSession(ctx, sam)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.Len(t, producer.events, 1)
	assert.Equal(t, messaging.EventWorkSessionCompleted, producer.events[0].EventType)
	assert.Equal(t, session.ID, producer.events[0].WorkSessionID)
	assert.Equal(t, 45, producer.events[0].DurationMinutes)

	recent, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, session.ID, recent[0].ID)
}

func TestSessionServiceCompleteRequiresDescription(t *testing.T) {
	ctx := context.Background()
	svc, jobs, producer, _ := newSessionService(t)
	sam := model.Worker{Name: "sam"}

	job := createJobs(t, jobs, model.CategoryActive, "Laundry")[0]
	_, err := svc.StartJob(ctx, sam, job.ID)
	require.NoError(t, err)

	_, err = svc.CompleteJob(ctx, sam, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	active, err := svc.ActiveSession(ctx, sam)
	require.NoError(t, err)
	assert.NotNil(t, active)

	recent, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
	assert.Empty(t, producer.events)
}

func TestSessionServiceErrors(t *testing.T) {
	ctx := context.Background()
	svc, jobs, _, _ := newSessionService(t)

	_, err := svc.CompleteJob(ctx, model.Worker{Name: "sam"}, "done")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = svc.StartJob(ctx, model.Worker{Name: " "}, "x")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.StartJob(ctx, model.Worker{Name: "sam"}, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	job := createJobs(t, jobs, model.CategoryActive, "Dishes")[0]
	inProgress, completed := model.StatusInProgress, model.StatusCompleted
	_, err = jobs.Update(ctx, job.ID, UpdateJobInput{Status: &inProgress})
	require.NoError(t, err)
	_, err = jobs.Update(ctx, job.ID, UpdateJobInput{Status: &completed})
	require.NoError(t, err)

	_, err = svc.StartJob(ctx, model.Worker{Name: "sam"}, job.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionServiceSurvivesDeletedJob(t *testing.T) {
	ctx := context.Background()
	svc, jobs, producer, c := newSessionService(t)
	producer.err = errors.New("queue down")
	alex := model.Worker{Name: "alex"}

	job := createJobs(t, jobs, model.CategoryActive, "Rake leaves")[0]
	_, err := svc.StartJob(ctx, alex, job.ID)
	require.NoError(t, err)
	require.NoError(t, jobs.Delete(ctx, job.ID))

	c.advance(20 * time.Minute)
	session, err := svc.CompleteJob(ctx, alex, "front yard")
	require.NoError(t, err)
	assert.Equal(t, "Rake leaves", session.JobTitle)
	assert.Equal(t, job.ID, session.JobID)
	assert.Equal(t, 20, session.Duration)
}

func TestSessionServiceWorkersAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc, jobs, _, _ := newSessionService(t)

	list := createJobs(t, jobs, model.CategoryActive, "Dishes", "Laundry")
	_, err := svc.StartJob(ctx, model.Worker{Name: "sam"}, list[0].ID)
	require.NoError(t, err)
	_, err = svc.StartJob(ctx, model.Worker{Name: "alex"}, list[1].ID)
	require.NoError(t, err)

	active, err := svc.ActiveSession(ctx, model.Worker{Name: "alex"})
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, list[1].ID, active.JobID)
}
