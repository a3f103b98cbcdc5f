package messaging

import "time"

type EventType string

const (
	EventWorkSessionCompleted EventType = "work_session.completed"
	EventCheckIn              EventType = "attendance.check_in"
	EventCheckOut             EventType = "attendance.check_out"
)

// Event is the JSON payload sent on the notify and webhook queues. Fields that
// do not apply to the event type are omitted.
type Event struct {
	EventType  EventType `json:"eventType"`
	WorkerName string    `json:"workerName"`
	OccurredAt time.Time `json:"occurredAt"`

	WorkSessionID   string `json:"workSessionId,omitempty"`
	JobID           string `json:"jobId,omitempty"`
	JobTitle        string `json:"jobTitle,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`

	AttendanceID    string `json:"attendanceId,omitempty"`
	IsLateCheckIn   bool   `json:"isLateCheckIn,omitempty"`
	IsEarlyCheckOut bool   `json:"isEarlyCheckOut,omitempty"`
}
