package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktracker.service/internal/core"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/pkg/database"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ctl.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	return path
}

func TestDurationCommands(t *testing.T) {
	out, err := run(t, "duration", "parse", "1h 30m")
	require.NoError(t, err)
	assert.Equal(t, "90\n", out)

	out, err = run(t, "duration", "format", "135")
	require.NoError(t, err)
	assert.Equal(t, "2h 15m\n", out)

	_, err = run(t, "duration", "format", "soon")
	assert.Error(t, err)
}

func TestMigrateAndVersion(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "sqlite schema at version 1\n", out)

	out, err = run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestJobsListAndReorder(t *testing.T) {
	path := useSQLite(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	out, err := run(t, "jobs", "list")
	require.NoError(t, err)
	assert.Equal(t, "No jobs found.\n", out)

	db, err := database.NewSQLiteConnection(path)
	require.NoError(t, err)
	svc := core.NewJobService(repository.NewJobRepository(db, database.SQLite), nil)
	ids := make([]string, 0, 3)
	for _, title := range []string{"Dishes", "Laundry", "Clean garage"} {
		job, err := svc.Create(context.Background(), core.CreateJobInput{Title: title, EstimatedTime: "30m"})
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}
	require.NoError(t, db.Close())

	out, err = run(t, "jobs", "reorder", ids[2], ids[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Clean garage")
	assert.Contains(t, lines[0], "high")

	out, err = run(t, "jobs", "list", "--category", "later")
	require.NoError(t, err)
	assert.Equal(t, "No jobs found.\n", out)

	_, err = run(t, "jobs", "reorder", ids[0])
	assert.Error(t, err)
}

func TestAttendanceRecentEmpty(t *testing.T) {
	useSQLite(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	out, err := run(t, "attendance", "recent", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, "No attendance records found.\n", out)
}
