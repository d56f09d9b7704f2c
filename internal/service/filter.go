package service

import (
	"strings"
	"time"

	"github.com/alexanderramin/gtmdash/internal/format"
	"github.com/samber/lo"
)

// Bounds validates the filter and returns UTC midnight of Start and of the
// day after End, so the requested end date is included.
func (f CommitsFilter) Bounds() (start, end time.Time, err error) {
	start, ok := format.ParseDate(f.Start)
	if !ok {
		return time.Time{}, time.Time{}, invalidFilterErr("invalid start date: %q", f.Start)
	}
	end, ok = format.ParseDate(f.End)
	if !ok {
		return time.Time{}, time.Time{}, invalidFilterErr("invalid end date: %q", f.End)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, invalidFilterErr("end date %s is before start date %s", f.End, f.Start)
	}
	return start, end.AddDate(0, 0, 1), nil
}

// dateRange is Bounds formatted as query dates.
func (f CommitsFilter) dateRange() (from, to string, err error) {
	start, end, err := f.Bounds()
	if err != nil {
		return "", "", err
	}
	return format.FormatDate(start), format.FormatDate(end), nil
}

// MatchesMessage reports whether message contains the filter's Message.
// The match is case-sensitive; an empty Message matches everything.
func (f CommitsFilter) MatchesMessage(message string) bool {
	return f.Message == "" || strings.Contains(message, f.Message)
}

// TrailingSegment returns the part of a project identifier after the last
// path separator.
func TrailingSegment(id string) string {
	return id[strings.LastIndexAny(id, `/\`)+1:]
}

// TrailingSegments maps raw project identifiers to project names.
func TrailingSegments(ids []string) []string {
	return lo.Map(ids, func(id string, _ int) string {
		return TrailingSegment(id)
	})
}
