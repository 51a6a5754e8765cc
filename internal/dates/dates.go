// Package dates holds the calendar-day arithmetic shared by the planner.
//
// Stored end dates are inclusive. Calendar and timeline consumers expect an
// exclusive end, and ExclusiveEnd is the only place that shift happens.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Day is the canonical day format used by the HTTP API.
const Day = "2006-01-02"

// German is the dd.mm.yyyy format used in curriculum spreadsheets and labels.
const German = "02.01.2006"

var layouts = []string{German, Day, "02/01/2006"}

// Truncate returns t at midnight UTC of its calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a midnight UTC day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a yyyy-mm-dd value.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(Day, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Parse accepts dd.mm.yyyy, yyyy-mm-dd and dd/mm/yyyy.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}

// DaysBetween is the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// InclusiveDays counts the days of [start, end], never less than one.
func InclusiveDays(start, end time.Time) int {
	n := DaysBetween(start, end) + 1
	if n < 1 {
		return 1
	}
	return n
}

// ExclusiveEnd converts a stored inclusive end date into the exclusive end
// expected by calendar and timeline consumers.
func ExclusiveEnd(end time.Time) time.Time {
	return Truncate(end).AddDate(0, 0, 1)
}

// WeekStart returns the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	t = Truncate(t)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday on or after t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports Saturday and Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Clock returns the current time. Components take a Clock so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }
