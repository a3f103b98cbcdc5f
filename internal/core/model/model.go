package model

import (
	"time"
)

// JobStatus defines where a job is in its lifecycle.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
)

// Priority is the display label derived from a job's rank in its category.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category partitions the job list into two independently ordered lists.
type Category string

const (
	CategoryActive Category = "active"
	CategoryLater  Category = "later"
)

// Weekdays lists the accepted values for Job.AssignedDays.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type Job struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	EstimatedTime int       `json:"estimatedTime"`
	Status        JobStatus `json:"status"`
	Priority      Priority  `json:"priority"`
	AssignedDays  []string  `json:"assignedDays"`
	Category      Category  `json:"category"`
	DisplayOrder  int       `json:"displayOrder"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// JobPatch carries the fields of a partial job update. Nil fields are left untouched.
type JobPatch struct {
	Title         *string
	Description   *string
	EstimatedTime *int
	Status        *JobStatus
	Priority      *Priority
	AssignedDays  *[]string
	Category      *Category
	DisplayOrder  *int
}

// JobFilter narrows a job listing. Zero values match everything.
type JobFilter struct {
	Status   JobStatus
	Category Category
}

// WorkSession is an immutable record of time spent on a job.
type WorkSession struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId,omitempty"`
	JobTitle    string    `json:"jobTitle"`
	WorkerName  string    `json:"workerName"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int       `json:"duration"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ActiveSession is a work session that has been started but not yet completed.
type ActiveSession struct {
	WorkerName string    `json:"workerName"`
	JobID      string    `json:"jobId"`
	JobTitle   string    `json:"jobTitle"`
	StartTime  time.Time `json:"startTime"`
}

// AttendanceRecord is one per worker and calendar day.
type AttendanceRecord struct {
	ID              string     `json:"id"`
	WorkerName      string     `json:"workerName"`
	Date            time.Time  `json:"date"`
	CheckInTime     *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime    *time.Time `json:"checkOutTime,omitempty"`
	IsLateCheckIn   bool       `json:"isLateCheckIn"`
	IsEarlyCheckOut bool       `json:"isEarlyCheckOut"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Worker identifies the person acting on the worker screens. It is supplied by
// the caller on every request; nothing in the service caches it.
type Worker struct {
	Name string
}
