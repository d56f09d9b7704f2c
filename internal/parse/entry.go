// Package parse decodes the compact text encoding gtm stores in git notes.
//
// A file entry looks like
//
//	src/file.ts:150,1585861200:60,1585875600:90,m
//
// that is, path and total seconds, then one timestamp:seconds pair per
// tracked hour, then the file status.
package parse

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// ParseKeyValue splits text on its first colon.
func ParseKeyValue(text string) (key, value string, ok bool) {
	return strings.Cut(text, ":")
}

// ParseFileEntry decodes a single file entry. It reports false when the
// entry is malformed; it never panics.
func ParseFileEntry(entry string) (domain.FileNote, bool) {
	parts := strings.Split(entry, ",")
	if len(parts) < 3 {
		return domain.FileNote{}, false
	}

	path, total, ok := ParseKeyValue(parts[0])
	if !ok || path == "" {
		return domain.FileNote{}, false
	}
	timeSpent, ok := parsePositive(total)
	if !ok {
		return domain.FileNote{}, false
	}

	status := parts[len(parts)-1]
	if !domain.ValidFileStatuses[status] {
		return domain.FileNote{}, false
	}

	note := domain.NewFileNote(path, timeSpent)
	note.Status = status
	for _, part := range parts[1 : len(parts)-1] {
		ts, secs, ok := ParseKeyValue(part)
		if !ok {
			return domain.FileNote{}, false
		}
		timestamp, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return domain.FileNote{}, false
		}
		seconds, ok := parsePositive(secs)
		if !ok {
			return domain.FileNote{}, false
		}
		note.Timeline[timestamp] = seconds
	}
	return *note, true
}

func parsePositive(s string) (domain.Seconds, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return domain.Seconds(n), true
}
