package repository

import "time"

// timeLayout stores timestamps as UTC RFC 3339 with second precision, so
// lexical order in SQLite matches time order.
const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
