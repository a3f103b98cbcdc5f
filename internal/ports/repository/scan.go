package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// timeValue scans timestamps from drivers that hand back either time.Time
// (pgx) or text (SQLite, depending on the declared column type).
type timeValue struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *timeValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into a timestamp", src)
}

func (t *timeValue) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t timeValue) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// timestamp is the write time for created_at/updated_at, at the precision
// Postgres keeps.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func dayString(day time.Time) string {
	return day.Format("2006-01-02")
}

// validID filters out ids that could never match, so a malformed id reads as
// not found instead of a uuid cast error in Postgres.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
