// Package month handles the "YYYY-MM" month strings used throughout the
// API. Plans live at month granularity: their date column is always
// normalized to the first day of the month.
package month

import (
	"fmt"
	"time"

	apperrors "survivalist/internal/errors"
)

// Layout is the wire format for months.
const Layout = "2006-01"

// Parse parses a "YYYY-MM" string into a time.Time normalized to the
// first day of that month (UTC). Returns ErrInvalidMonth on any other
// input.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.ErrInvalidMonth, err)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// Format renders a time as "YYYY-MM".
func Format(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// Normalize truncates a date to the first day of its month, dropping
// the time-of-day and location.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// HasEnded reports whether the month containing t lies strictly before
// the month containing now. A plan for the current or a future month
// has not ended yet.
func HasEnded(t, now time.Time) bool {
	if t.Year() != now.Year() {
		return t.Year() < now.Year()
	}
	return t.Month() < now.Month()
}
