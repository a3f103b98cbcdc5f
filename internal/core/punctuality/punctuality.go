// Package punctuality classifies check-in and check-out events against the
// household work window.
package punctuality

import "time"

// Window is a work window expressed in whole clock hours.
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow is 4:00 PM to 6:00 PM.
var DefaultWindow = Window{StartHour: 16, EndHour: 18}

// IsLateCheckIn reports whether a check-in at t is late. Only the hour is
// compared, so anything during the start hour is on time.
func (w Window) IsLateCheckIn(t time.Time) bool {
	return t.Hour() > w.StartHour
}

// IsEarlyCheckOut reports whether a check-out at t is before the end hour.
func (w Window) IsEarlyCheckOut(t time.Time) bool {
	return t.Hour() < w.EndHour
}

// Day returns the calendar day of t in its own location, at midnight UTC, which
// is how attendance dates are stored.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
