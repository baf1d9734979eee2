// Package date provides a calendar Date type that marshals as YYYY-MM-DD,
// plus parsing helpers for user-entered deadlines.
package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	format      = "2006-01-02"
	monthFormat = "2006-01"
)

// deadlineLayouts are tried in order by ParseDeadline.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	format,
}

// Date represents a calendar date without time or timezone.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar date of t in loc.
func Of(t time.Time, loc *time.Location) Date {
	t = t.In(loc)
	return New(t.Year(), t.Month(), t.Day())
}

// Parse parses a YYYY-MM-DD string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(format, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// ParseMonth parses a YYYY-MM string and returns the first day of that month.
func ParseMonth(s string) (Date, error) {
	t, err := time.Parse(monthFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Date{t}, nil
}

// ParseDeadline parses a user-entered deadline. It accepts RFC 3339,
// "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM" and bare "YYYY-MM-DD"; values
// without an offset are interpreted in loc. A bare date means the end of
// that day.
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err != nil {
			continue
		}
		if layout == format {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, loc)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q: expected YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339", s)
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(format)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return New(d.Year(), d.Month(), 1)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
