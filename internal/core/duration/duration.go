// Package duration converts between free-text durations such as "2h 30m"
// and whole minutes.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// DefaultMinutes is returned when no duration can be read from the input.
const DefaultMinutes = 60

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)h`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)m`)
)

// ParseMinutes reads an hours component ("1.5h") and a minutes component
// ("30m") from anywhere in input and returns the total in minutes. It never
// fails: input with no recognisable component, or a zero total, yields
// DefaultMinutes.
func ParseMinutes(input string) int {
	var hours float64
	var minutes int

	if m := hoursPattern.FindStringSubmatch(input); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hours = v
		}
	}
	if m := minutesPattern.FindStringSubmatch(input); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			minutes = v
		}
	}

	total := int(math.Trunc(hours*60)) + minutes
	if total == 0 {
		return DefaultMinutes
	}
	return total
}

// FormatMinutes renders minutes as "2h 30m", "2h" or "45m". Zero and negative
// values render as "0m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
