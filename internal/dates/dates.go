// Package dates parses the date expressions accepted by author_date() and
// committer_date().
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD layout.
const DateLayout = "2006-01-02"

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseDatetime parses a datetime in one of the accepted formats. Formats
// without a zone are interpreted in loc.
//
// Accepted formats:
// - RFC3339 (e.g. 2025-01-01T10:30:00Z, 2025-06-15T14:00:00+05:00)
// - YYYY-MM-DDTHH:MM[:SS]
// - YYYY-MM-DD HH:MM[:SS]
func ParseDatetime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid datetime: empty")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	formats := []string{
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime: %q", s)
}

// Parse resolves a date expression relative to now. It accepts "now", the
// relative keywords of ResolveRelativeDateKeyword, "N <unit>s ago",
// YYYY-MM-DD dates and datetimes.
func Parse(s string, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(s)
	if strings.EqualFold(value, "now") {
		return now, nil
	}
	if res, ok := ResolveRelativeDateKeyword(value, now); ok {
		return res.Date, nil
	}
	if t, ok, err := parseAgo(value, now); ok {
		return t, err
	}
	if IsValidDate(value) {
		return ParseDate(value, now.Location())
	}
	if t, err := ParseDatetime(value, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD, a datetime, now/today/yesterday/tomorrow or \"N days ago\"", s)
}

// FormatRFC3339 renders t in UTC with an explicit +00:00 offset.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05-07:00")
}
