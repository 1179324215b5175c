package server

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

var errInvalidTime = errors.New("invalid_time")

func parseOptionalInt(value string) (int, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false, err
	}
	return parsed, true, nil
}

// parseOptionalTime accepts RFC3339 or a bare date. An upper bound given as
// a date covers that whole day: it becomes the following midnight, since
// list windows are half-open.
func parseOptionalTime(value string, upper bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if upper {
			parsed = parsed.AddDate(0, 0, 1)
		}
		return &parsed, nil
	}
	return nil, errInvalidTime
}
