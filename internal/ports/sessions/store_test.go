package sessions

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktracker.service/internal/core/model"
)

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()
	worker := "worker-" + uuid.NewString()

	got, err := store.Get(ctx, worker)
	require.NoError(t, err)
	assert.Nil(t, got)

	start := time.Date(2026, 10, 14, 16, 5, 0, 0, time.UTC)
	s := model.ActiveSession{WorkerName: worker, JobID: uuid.NewString(), JobTitle: "Dishes", StartTime: start}
	require.NoError(t, store.Start(ctx, s))

	got, err = store.Get(ctx, worker)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.JobID, got.JobID)
	assert.Equal(t, "Dishes", got.JobTitle)
	assert.True(t, got.StartTime.Equal(start))

	assert.ErrorIs(t, store.Start(ctx, s), ErrExists)

	require.NoError(t, store.Clear(ctx, worker))
	got, err = store.Get(ctx, worker)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Start(ctx, s))
	require.NoError(t, store.Clear(ctx, worker))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 16, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Start(ctx, model.ActiveSession{WorkerName: "sam", JobTitle: "Dishes"}))

	now = now.Add(59 * time.Minute)
	got, err := store.Get(ctx, "sam")
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(time.Minute)
	got, err = store.Get(ctx, "sam")
	require.NoError(t, err)
	assert.Nil(t, got)

	// an expired session does not block a new one
	assert.NoError(t, store.Start(ctx, model.ActiveSession{WorkerName: "sam", JobTitle: "Laundry"}))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := NewRedisClient(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	exerciseStore(t, NewRedisStore(client, time.Minute))
}
