package model

import "slices"

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a job may move from s to next. Jobs go
// pending, in_progress, completed in that order; completed is terminal.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case StatusPending:
		return next != StatusCompleted
	case StatusInProgress:
		return next != StatusPending
	case StatusCompleted:
		return next == StatusCompleted
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	return c == CategoryActive || c == CategoryLater
}

// IsWeekday reports whether day is one of Weekdays.
func IsWeekday(day string) bool {
	return slices.Contains(Weekdays, day)
}

// AvailableOn reports whether the job can be picked up on the given weekday.
// An empty AssignedDays means every day.
func (j Job) AvailableOn(day string) bool {
	if len(j.AssignedDays) == 0 {
		return true
	}
	return slices.Contains(j.AssignedDays, day)
}
