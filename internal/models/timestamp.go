package models

import (
	"fmt"
	"strings"
	"time"
)

// naiveLayouts are ISO-8601 forms without a zone designator; they are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing "Z" or numeric
// offset is honoured; values without a zone are taken as UTC. The result is
// normalized to UTC with microsecond precision.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return NormalizeTime(t), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return NormalizeTime(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", value)
}

// FormatTimestamp renders t as RFC 3339 in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NormalizeTime converts t to UTC and drops sub-microsecond precision so
// values survive a round trip through either database driver unchanged.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
