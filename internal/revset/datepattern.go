package revset

import (
	"fmt"
	"time"

	"github.com/scott2000/jj-analyze/internal/dates"
)

// DatePattern bounds a commit timestamp on one side.
type DatePattern struct {
	After bool // at or after Time; otherwise strictly before
	Time  time.Time
}

// NewDatePattern parses the value of an after: or before: pattern.
func NewDatePattern(kind, value string, now time.Time) (DatePattern, error) {
	var after bool
	switch kind {
	case "after":
		after = true
	case "before":
	default:
		return DatePattern{}, fmt.Errorf("invalid date pattern kind %q, expected after or before", kind)
	}
	t, err := dates.Parse(value, now)
	if err != nil {
		return DatePattern{}, err
	}
	return DatePattern{After: after, Time: t}, nil
}

func (d DatePattern) String() string {
	kind := "before"
	if d.After {
		kind = "after"
	}
	return kind + ":" + dates.FormatRFC3339(d.Time)
}
