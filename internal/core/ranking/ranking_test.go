package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktracker.service/internal/core/model"
)

func makeJobs(n int, category model.Category) []model.Job {
	jobs := make([]model.Job, n)
	for i := range jobs {
		jobs[i] = model.Job{
			ID:           fmt.Sprintf("job-%d", i),
			Title:        fmt.Sprintf("Job %d", i),
			Category:     category,
			DisplayOrder: i * 10,
			Priority:     model.PriorityLow,
		}
	}
	return jobs
}

func ids(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestPriorityForRank(t *testing.T) {
	assert.Equal(t, model.PriorityHigh, PriorityForRank(0, 1))

	// n=4: ceil(4/2)=2 -> [high, medium, low, low]
	assert.Equal(t, model.PriorityHigh, PriorityForRank(0, 4))
	assert.Equal(t, model.PriorityMedium, PriorityForRank(1, 4))
	assert.Equal(t, model.PriorityLow, PriorityForRank(2, 4))
	assert.Equal(t, model.PriorityLow, PriorityForRank(3, 4))

	// n=5: ceil(5/2)=3 -> [high, medium, medium, low, low]
	assert.Equal(t, model.PriorityMedium, PriorityForRank(2, 5))
	assert.Equal(t, model.PriorityLow, PriorityForRank(3, 5))

	// n=2: ceil(2/2)=1 -> [high, low]
	assert.Equal(t, model.PriorityLow, PriorityForRank(1, 2))
}

func TestMovePreservesRelativeOrder(t *testing.T) {
	jobs := makeJobs(4, model.CategoryActive)

	assert.Equal(t, []string{"job-3", "job-0", "job-1", "job-2"}, ids(Move(jobs, 3, 0)))
	assert.Equal(t, []string{"job-1", "job-2", "job-0", "job-3"}, ids(Move(jobs, 0, 2)))
	assert.Equal(t, []string{"job-0", "job-2", "job-1", "job-3"}, ids(Move(jobs, 1, 2)))

	// input untouched
	assert.Equal(t, []string{"job-0", "job-1", "job-2", "job-3"}, ids(jobs))
}

func TestReorderProperties(t *testing.T) {
	for n := 2; n <= 7; n++ {
		for from := 0; from < n; from++ {
			for to := 0; to < n; to++ {
				if from == to {
					continue
				}
				jobs := makeJobs(n, model.CategoryActive)
				moved := jobs[from].ID

				got, ok := Reorder(jobs, moved, jobs[to].ID)
				require.True(t, ok, "n=%d from=%d to=%d", n, from, to)
				require.Len(t, got, n)

				for i, j := range got {
					assert.Equal(t, i, j.DisplayOrder)
					assert.Equal(t, PriorityForRank(i, n), j.Priority)
				}
				assert.Equal(t, model.PriorityHigh, got[0].Priority)
				assert.Equal(t, moved, got[to].ID)
			}
		}
	}
}

func TestReorderSingleJobViaIndex(t *testing.T) {
	jobs := makeJobs(1, model.CategoryLater)
	got, ok := MoveToIndex(jobs, "job-0", 0)
	require.True(t, ok)
	assert.Equal(t, 0, got[0].DisplayOrder)
	assert.Equal(t, model.PriorityHigh, got[0].Priority)
}

func TestReorderNoOps(t *testing.T) {
	jobs := makeJobs(3, model.CategoryActive)

	got, ok := Reorder(jobs, "job-1", "job-1")
	assert.False(t, ok)
	assert.Nil(t, got)

	_, ok = Reorder(jobs, "job-1", "missing")
	assert.False(t, ok)

	mixed := makeJobs(3, model.CategoryActive)
	mixed[2].Category = model.CategoryLater
	_, ok = Reorder(mixed, "job-0", "job-2")
	assert.False(t, ok)

	// nothing was rewritten
	for i, j := range jobs {
		assert.Equal(t, i*10, j.DisplayOrder)
		assert.Equal(t, model.PriorityLow, j.Priority)
	}
}

func TestMoveToIndexOutOfRange(t *testing.T) {
	jobs := makeJobs(3, model.CategoryActive)
	_, ok := MoveToIndex(jobs, "job-0", 3)
	assert.False(t, ok)
	_, ok = MoveToIndex(jobs, "job-0", -1)
	assert.False(t, ok)
}

func TestReorderNewJobToTop(t *testing.T) {
	jobs := []model.Job{
		{ID: "a", Title: "Wash car", Category: model.CategoryActive, DisplayOrder: 0, Priority: model.PriorityHigh},
		{ID: "b", Title: "Yard work", Category: model.CategoryActive, DisplayOrder: 1, Priority: model.PriorityMedium},
		{ID: "c", Title: "Clean garage", EstimatedTime: 120, Category: model.CategoryActive, DisplayOrder: 2, Priority: model.PriorityLow},
	}

	got, ok := Reorder(jobs, "c", "a")
	require.True(t, ok)

	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
	assert.Equal(t, model.PriorityHigh, got[0].Priority)
	assert.Equal(t, 0, got[0].DisplayOrder)
	// ceil(3/2)=2 -> index 1 medium, index 2 low
	assert.Equal(t, 1, got[1].DisplayOrder)
	assert.Equal(t, model.PriorityMedium, got[1].Priority)
	assert.Equal(t, 2, got[2].DisplayOrder)
	assert.Equal(t, model.PriorityLow, got[2].Priority)
}
