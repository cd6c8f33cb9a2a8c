package shared

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns UTC. Blank input
// yields the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Parse(dateLayout, value)
}

// UpperBound turns an inclusive "to" query value into an exclusive bound:
// a bare date covers the whole day, a timestamp is kept as is.
func UpperBound(raw string, parsed time.Time) time.Time {
	if parsed.IsZero() {
		return parsed
	}
	if len(strings.TrimSpace(raw)) == len(dateLayout) {
		return parsed.AddDate(0, 0, 1)
	}
	return parsed
}
