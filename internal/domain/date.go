package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage and export format for entry dates.
const DateLayout = "2006-01-02"

// CivilDate drops the time of day from t, keeping the calendar day as seen
// in t's own location. The result is midnight UTC so that dates compare and
// subtract in whole days.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekdayName returns the English weekday label for a date ("Monday").
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}
