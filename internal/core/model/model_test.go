package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityTag(t *testing.T) {
	assert.Equal(t, TagUrgent, PriorityHigh.Tag())
	assert.Equal(t, TagWarning, PriorityMedium.Tag())
	assert.Equal(t, TagNormal, PriorityLow.Tag())
	assert.Equal(t, TagNeutral, Priority("critical").Tag())
	assert.Equal(t, TagNeutral, Priority("").Tag())
}

func TestStatusTag(t *testing.T) {
	assert.Equal(t, TagWarning, StatusPending.Tag())
	assert.Equal(t, TagInfo, StatusInProgress.Tag())
	assert.Equal(t, TagSuccess, StatusCompleted.Tag())
	assert.Equal(t, TagNeutral, JobStatus("in-progress").Tag())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCompleted, true},
		{StatusPending, JobStatus("done"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestJobAvailableOn(t *testing.T) {
	everyDay := Job{}
	assert.True(t, everyDay.AvailableOn("sunday"))

	weekend := Job{AssignedDays: []string{"saturday", "sunday"}}
	assert.True(t, weekend.AvailableOn("saturday"))
	assert.False(t, weekend.AvailableOn("monday"))
}

func TestValidators(t *testing.T) {
	assert.True(t, CategoryLater.Valid())
	assert.False(t, Category("someday").Valid())
	assert.True(t, PriorityLow.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.True(t, IsWeekday("friday"))
	assert.False(t, IsWeekday("Friday"))
}
