package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktracker.service/internal/core/model"
	"worktracker.service/pkg/database"
	"worktracker.service/pkg/database/dbtest"
)

func newJob(title string, category model.Category) model.Job {
	return model.Job{
		Title:         title,
		EstimatedTime: 30,
		Status:        model.StatusPending,
		Priority:      model.PriorityLow,
		Category:      category,
	}
}

func TestJobRepoCreateAppendsToCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(dbtest.NewSQLite(t), database.SQLite)

	a, err := repo.CreateJob(ctx, newJob("Dishes", model.CategoryActive))
	require.NoError(t, err)
	b, err := repo.CreateJob(ctx, newJob("Laundry", model.CategoryActive))
	require.NoError(t, err)
	later, err := repo.CreateJob(ctx, newJob("Paint fence", model.CategoryLater))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 0, a.DisplayOrder)
	assert.Equal(t, 1, b.DisplayOrder)
	assert.Equal(t, 0, later.DisplayOrder)

	got, err := repo.GetJob(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laundry", got.Title)
	assert.Equal(t, []string{}, got.AssignedDays)
	assert.WithinDuration(t, b.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestJobRepoListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(dbtest.NewSQLite(t), database.SQLite)

	for _, title := range []string{"a", "b", "c"} {
		_, err := repo.CreateJob(ctx, newJob(title, model.CategoryActive))
		require.NoError(t, err)
	}
	done := newJob("done", model.CategoryActive)
	done.Status = model.StatusCompleted
	_, err := repo.CreateJob(ctx, done)
	require.NoError(t, err)
	_, err = repo.CreateJob(ctx, newJob("later", model.CategoryLater))
	require.NoError(t, err)

	all, err := repo.ListJobs(ctx, model.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	active, err := repo.ListJobs(ctx, model.JobFilter{Status: model.StatusPending, Category: model.CategoryActive})
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "a", active[0].Title)
	assert.Equal(t, "b", active[1].Title)
	assert.Equal(t, "c", active[2].Title)
}

func TestJobRepoUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(dbtest.NewSQLite(t), database.SQLite)

	job, err := repo.CreateJob(ctx, newJob("Mow lawn", model.CategoryActive))
	require.NoError(t, err)

	title := "Mow front lawn"
	status := model.StatusInProgress
	days := []string{"saturday", "sunday"}
	require.NoError(t, repo.UpdateJob(ctx, job.ID, model.JobPatch{Title: &title, Status: &status, AssignedDays: &days}))

	got, err := repo.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, days, got.AssignedDays)
	assert.Equal(t, 30, got.EstimatedTime)

	assert.ErrorIs(t, repo.UpdateJob(ctx, uuid.NewString(), model.JobPatch{Title: &title}), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateJob(ctx, "not-a-uuid", model.JobPatch{Title: &title}), ErrNotFound)

	require.NoError(t, repo.DeleteJob(ctx, job.ID))
	_, err = repo.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteJob(ctx, job.ID), ErrNotFound)
}

func TestJobRepoUpdateOrderingIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(dbtest.NewSQLite(t), database.SQLite)

	a, err := repo.CreateJob(ctx, newJob("a", model.CategoryActive))
	require.NoError(t, err)
	b, err := repo.CreateJob(ctx, newJob("b", model.CategoryActive))
	require.NoError(t, err)

	a.DisplayOrder, a.Priority = 1, model.PriorityMedium
	b.DisplayOrder, b.Priority = 0, model.PriorityHigh
	require.NoError(t, repo.UpdateOrdering(ctx, []model.Job{*b, *a}))

	jobs, err := repo.ListJobs(ctx, model.JobFilter{Category: model.CategoryActive})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "b", jobs[0].Title)
	assert.Equal(t, model.PriorityHigh, jobs[0].Priority)

	// a missing job in the batch rolls back the whole write
	ghost := model.Job{ID: uuid.NewString(), DisplayOrder: 0, Priority: model.PriorityHigh}
	a.DisplayOrder, a.Priority = 0, model.PriorityHigh
	err = repo.UpdateOrdering(ctx, []model.Job{*a, ghost})
	assert.ErrorIs(t, err, ErrNotFound)

	jobs, err = repo.ListJobs(ctx, model.JobFilter{Category: model.CategoryActive})
	require.NoError(t, err)
	assert.Equal(t, "b", jobs[0].Title)
	assert.Equal(t, 1, jobs[1].DisplayOrder)
	assert.Equal(t, model.PriorityMedium, jobs[1].Priority)
}

func TestWorkSessionRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkSessionRepository(dbtest.NewSQLite(t), database.SQLite)

	base := time.Date(2026, 10, 12, 16, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		_, err := repo.CreateWorkSession(ctx, model.WorkSession{
			JobID:       uuid.NewString(),
			JobTitle:    "Dishes",
			WorkerName:  "sam",
			StartTime:   start,
			EndTime:     start.Add(45 * time.Minute),
			Duration:    45,
			Description: "done",
		})
		require.NoError(t, err)
	}
	orphan, err := repo.CreateWorkSession(ctx, model.WorkSession{
		JobTitle:    "Deleted job",
		WorkerName:  "sam",
		StartTime:   base,
		EndTime:     base.Add(time.Minute),
		Duration:    1,
		Description: "x",
	})
	require.NoError(t, err)

	got, err := repo.GetWorkSession(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Empty(t, got.JobID)
	assert.True(t, got.StartTime.Equal(base))

	recent, err := repo.ListRecentWorkSessions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	since, err := repo.ListWorkSessionsSince(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, since, 2)

	_, err = repo.GetWorkSession(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttendanceRepoCheckInCheckOut(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(dbtest.NewSQLite(t), database.SQLite)

	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2026, 10, 14, 16, 30, 0, 0, time.UTC)

	none, err := repo.GetAttendanceForWorkerAndDate(ctx, "sam", day)
	require.NoError(t, err)
	assert.Nil(t, none)

	rec, err := repo.UpsertAttendanceCheckIn(ctx, "sam", day, checkIn, false)
	require.NoError(t, err)
	assert.Equal(t, day, rec.Date)
	require.NotNil(t, rec.CheckInTime)
	assert.True(t, rec.CheckInTime.Equal(checkIn))
	assert.Nil(t, rec.CheckOutTime)

	// a second check-in on an open day overwrites the same record
	later := checkIn.Add(45 * time.Minute)
	again, err := repo.UpsertAttendanceCheckIn(ctx, "sam", day, later, true)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
	assert.True(t, again.IsLateCheckIn)
	assert.True(t, again.CheckInTime.Equal(later))

	out := time.Date(2026, 10, 14, 17, 45, 0, 0, time.UTC)
	closed, err := repo.UpdateAttendanceCheckOut(ctx, rec.ID, out, true)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOutTime)
	assert.True(t, closed.CheckOutTime.Equal(out))
	assert.True(t, closed.IsEarlyCheckOut)

	_, err = repo.UpsertAttendanceCheckIn(ctx, "sam", day, out, false)
	assert.ErrorIs(t, err, ErrCheckedOut)

	found, err := repo.GetAttendanceForWorkerAndDate(ctx, "sam", day)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, rec.ID, found.ID)

	other, err := repo.GetAttendanceForWorkerAndDate(ctx, "alex", day)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestAttendanceRepoUpdateTimesKeepsFlags(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(dbtest.NewSQLite(t), database.SQLite)

	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	rec, err := repo.UpsertAttendanceCheckIn(ctx, "sam", day, day.Add(17*time.Hour), true)
	require.NoError(t, err)

	in := day.Add(16 * time.Hour)
	edited, err := repo.UpdateAttendanceTimes(ctx, rec.ID, &in, nil)
	require.NoError(t, err)
	assert.True(t, edited.CheckInTime.Equal(in))
	assert.Nil(t, edited.CheckOutTime)
	assert.True(t, edited.IsLateCheckIn)

	_, err = repo.UpdateAttendanceTimes(ctx, uuid.NewString(), &in, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetAttendance(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttendanceRepoListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(dbtest.NewSQLite(t), database.SQLite)

	first := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		day := first.AddDate(0, 0, i)
		_, err := repo.UpsertAttendanceCheckIn(ctx, "sam", day, day.Add(16*time.Hour), false)
		require.NoError(t, err)
	}

	recent, err := repo.ListRecentAttendance(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, first.AddDate(0, 0, 3), recent[0].Date)
	assert.Equal(t, first.AddDate(0, 0, 1), recent[2].Date)
}
