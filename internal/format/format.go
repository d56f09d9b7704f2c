// Package format holds the date, timestamp and duration helpers shared by
// the services, the aggregator and the terminal output.
package format

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date layout used on every wire format.
const DateLayout = "2006-01-02"

// Pad0 left-pads numbers below 100 to two digits.
func Pad0(num int64) string {
	if num < 0 || num >= 100 {
		return fmt.Sprintf("%d", num)
	}
	return fmt.Sprintf("%02d", num)
}

// HHMM formats a number of seconds as "00h 00m".
func HHMM(secs int64) string {
	minutes := secs / 60
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%sh %sm", Pad0(hours), Pad0(minutes))
}

// ParseDate parses a strict YYYY-MM-DD date at UTC midnight.
func ParseDate(date string) (time.Time, bool) {
	if len(date) != len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// NextDay returns the calendar date following date. It reports false when
// date is not a valid YYYY-MM-DD string.
func NextDay(date string) (string, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return "", false
	}
	return FormatDate(t.AddDate(0, 0, 1)), true
}

// GitTimeLayout is the layout of Commit.Date and Commit.When as read from
// git notes.
const GitTimeLayout = "2006-01-02 15:04:05 -07:00"

// FormatGitTime formats t in its own offset using GitTimeLayout.
func FormatGitTime(t time.Time) string {
	return t.Format(GitTimeLayout)
}

var whenLayouts = []string{
	time.RFC3339Nano,
	GitTimeLayout,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05-0700",
}

// ParseWhen parses an ISO-8601 timestamp with offset, as reported in
// Commit.When. RFC 3339 and the git layouts are accepted.
func ParseWhen(when string) (time.Time, bool) {
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, when); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnixHour returns the UTC calendar date and hour of day of a unix timestamp.
func UnixHour(timestamp int64) (date string, hour int) {
	t := time.Unix(timestamp, 0).UTC()
	return t.Format(DateLayout), t.Hour()
}
