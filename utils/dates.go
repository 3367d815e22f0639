package utils

import (
	"strings"
	"time"
)

// DateLayout is the wire format of check_in_date / check_out_date.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date at UTC midnight. Empty input yields the
// zero time and no error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// FormatDate is the inverse of ParseDate; the zero time formats as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateOnly re-anchors t's calendar date at UTC midnight so it compares with
// dates produced by ParseDate.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
