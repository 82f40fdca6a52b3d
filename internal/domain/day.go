package domain

import (
	"fmt"
	"strings"
	"time"
)

// dayLayout is the wire format for calendar days across the API.
const dayLayout = "2006-01-02"

// Day is a calendar day, normalized to midnight UTC. All engine date
// arithmetic and map keys go through this type so that time-of-day noise
// in uploaded rows can never cause off-by-one bucket assignments.
type Day struct {
	time.Time
}

// NewDay builds a Day from year/month/day.
func NewDay(year int, month time.Month, day int) Day {
	return Day{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an arbitrary timestamp to its calendar day.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Key returns the YYYY-MM-DD string used for ledger and bucket keys.
func (d Day) Key() string {
	return d.Format(dayLayout)
}

// AddDays returns the day n calendar days away (negative n goes back).
func (d Day) AddDays(n int) Day {
	return Day{d.AddDate(0, 0, n)}
}

// DaysUntil returns the day distance from d to other (0 for the same day).
func (d Day) DaysUntil(other Day) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// MarshalJSON encodes the day as "YYYY-MM-DD".
func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Key() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and, as a fallback, RFC3339
// timestamps (upload exports sometimes carry full timestamps); either way
// the value is truncated to the calendar day.
func (d *Day) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Day{}
		return nil
	}
	if parsed, err := ParseDay(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid day %q", s)
	}
	*d = DayOf(t)
	return nil
}
