package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RelativeDateResolution is the resolved representation of a relative date keyword.
type RelativeDateResolution struct {
	Keyword string
	Date    time.Time
}

var relativeDateKeywords = map[string]struct{}{
	"today":     {},
	"tomorrow":  {},
	"yesterday": {},
}

var agoRegex = regexp.MustCompile(`^(\d+)\s*([a-z]+?)s?\s+ago$`)

var agoUnits = map[string]time.Duration{
	"second": time.Second,
	"sec":    time.Second,
	"minute": time.Minute,
	"min":    time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
}

// NormalizeRelativeDateKeyword normalizes and validates a relative date keyword.
// Returns the canonical keyword and true when valid.
func NormalizeRelativeDateKeyword(value string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if _, ok := relativeDateKeywords[normalized]; !ok {
		return "", false
	}
	return normalized, true
}

// ResolveRelativeDateKeyword resolves a relative date keyword to the start
// of the matching day.
func ResolveRelativeDateKeyword(value string, now time.Time) (RelativeDateResolution, bool) {
	keyword, ok := NormalizeRelativeDateKeyword(value)
	if !ok {
		return RelativeDateResolution{}, false
	}

	anchor := startOfDay(now)
	switch keyword {
	case "tomorrow":
		anchor = anchor.AddDate(0, 0, 1)
	case "yesterday":
		anchor = anchor.AddDate(0, 0, -1)
	}
	return RelativeDateResolution{Keyword: keyword, Date: startOfDay(anchor)}, true
}

// parseAgo handles "N <unit>s ago". ok is false when value is not of that
// shape at all.
func parseAgo(value string, now time.Time) (t time.Time, ok bool, err error) {
	m := agoRegex.FindStringSubmatch(strings.ToLower(value))
	if m == nil {
		return time.Time{}, false, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, true, fmt.Errorf("invalid count in %q", value)
	}
	switch m[2] {
	case "month":
		return now.AddDate(0, -n, 0), true, nil
	case "year":
		return now.AddDate(-n, 0, 0), true, nil
	}
	unit, known := agoUnits[m[2]]
	if !known {
		return time.Time{}, true, fmt.Errorf("unknown time unit %q in %q", m[2], value)
	}
	return now.Add(-time.Duration(n) * unit), true, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
