package dates

import (
	"strings"
	"time"
)

// Layouts are tried in order; the first one that parses wins. Numeric dates are read
// day-first, so "01/02/2025" is always 1 February regardless of locale.
var Layouts = []string{
	"2006-1-2", // YYYY-MM-DD
	"2/1/2006", // DD/MM/YYYY
	"2-1-2006", // DD-MM-YYYY
	"2006/1/2", // YYYY/MM/DD
	"2.1.2006", // DD.MM.YYYY
	"2006.1.2", // YYYY.MM.DD
}

const (
	// Label is the compact format used under grid lines.
	Label = "02/01/06"
	// Long is the format used in titles, tooltips and reports.
	Long = "02/01/2006"
	// ISO is the format used in exports.
	ISO = "2006-01-02"
)

// Parse converts a cell value into a calendar date at UTC midnight.
// ok is false when the value cannot be read as a date; callers drop such rows.
func Parse(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return Truncate(val), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return Truncate(*val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range Layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Truncate keeps the wall-clock calendar date of t and drops its time and zone.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole days from a to b (negative if b is before a).
func DaysBetween(a, b time.Time) int {
	return int((Truncate(b).Unix() - Truncate(a).Unix()) / secondsPerDay)
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
