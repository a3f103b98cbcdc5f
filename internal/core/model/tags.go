package model

// Tag is the presentation weight a client uses to style priorities and statuses.
type Tag string

const (
	TagUrgent  Tag = "urgent"
	TagWarning Tag = "warning"
	TagNormal  Tag = "normal"
	TagInfo    Tag = "info"
	TagSuccess Tag = "success"
	TagNeutral Tag = "neutral"
)

// Tag maps a priority to its presentation tag.
func (p Priority) Tag() Tag {
	switch p {
	case PriorityHigh:
		return TagUrgent
	case PriorityMedium:
		return TagWarning
	case PriorityLow:
		return TagNormal
	default:
		return TagNeutral
	}
}

// Tag maps a status to its presentation tag.
func (s JobStatus) Tag() Tag {
	switch s {
	case StatusPending:
		return TagWarning
	case StatusInProgress:
		return TagInfo
	case StatusCompleted:
		return TagSuccess
	default:
		return TagNeutral
	}
}
