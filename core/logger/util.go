package logger

import (
	"strings"
	"time"
)

// Status collapses an error into the ok/fail pair used across log lines.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	return "fail"
}

// Took returns the elapsed time since start, rounded for compact output.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}

// RoundMS clamps negative durations and rounds to whole milliseconds.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values; the second return reports
// whether anything was cut off.
func SummarizeStrings(values []string, limit int) (string, bool) {
	switch {
	case limit <= 0:
		return "", len(values) > 0
	case len(values) <= limit:
		return strings.Join(values, ", "), false
	default:
		return strings.Join(values[:limit], ", "), true
	}
}
