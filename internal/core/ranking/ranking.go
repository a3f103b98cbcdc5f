// Package ranking keeps a category's display order and priority labels in
// step with each other. Position in the list is the source of truth; the
// priority is a label derived from it.
package ranking

import (
	"worktracker.service/internal/core/model"
)

// PriorityForRank returns the priority for position index in a list of n jobs.
// The first job is high, the rest of the first half (rounded up) is medium and
// the remainder is low.
func PriorityForRank(index, n int) model.Priority {
	switch {
	case index == 0:
		return model.PriorityHigh
	case index < (n+1)/2:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// Move returns a copy of jobs with the element at from relocated to index to.
// All other elements keep their relative order.
func Move(jobs []model.Job, from, to int) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	out = append(out, jobs[:from]...)
	out = append(out, jobs[from+1:]...)

	moved := jobs[from]
	out = append(out, model.Job{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

// Rebalance rewrites DisplayOrder to 0..n-1 and recomputes every priority from
// its new rank. The input slice is not modified.
func Rebalance(jobs []model.Job) []model.Job {
	out := make([]model.Job, len(jobs))
	for i, j := range jobs {
		j.DisplayOrder = i
		j.Priority = PriorityForRank(i, len(jobs))
		out[i] = j
	}
	return out
}

// Reorder moves the job movedID to the position currently held by overID and
// rebalances the whole list. jobs must be one category in its current order.
//
// It reports false, and returns nil, when there is nothing to do: the two ids
// are equal, either id is not in jobs, or the two jobs belong to different
// categories.
func Reorder(jobs []model.Job, movedID, overID string) ([]model.Job, bool) {
	if movedID == overID {
		return nil, false
	}

	from, to := indexOf(jobs, movedID), indexOf(jobs, overID)
	if from < 0 || to < 0 {
		return nil, false
	}
	if jobs[from].Category != jobs[to].Category {
		return nil, false
	}

	return Rebalance(Move(jobs, from, to)), true
}

// MoveToIndex moves the job movedID to index target and rebalances the list.
// It reports false when movedID is unknown or target is out of range.
func MoveToIndex(jobs []model.Job, movedID string, target int) ([]model.Job, bool) {
	from := indexOf(jobs, movedID)
	if from < 0 || target < 0 || target >= len(jobs) {
		return nil, false
	}
	return Rebalance(Move(jobs, from, target)), true
}

func indexOf(jobs []model.Job, id string) int {
	for i, j := range jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}
