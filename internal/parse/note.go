package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

var (
	// ErrEmptyNote indicates a note with no header line.
	ErrEmptyNote = errors.New("empty commit note")

	// ErrInvalidHeader indicates the first line is not a [ver:N,total:N] header.
	ErrInvalidHeader = errors.New("invalid commit note header")

	// ErrInvalidVersion indicates the header version does not fit in 32 bits.
	ErrInvalidVersion = errors.New("invalid commit note version")

	// ErrInvalidTotal indicates the header total does not fit in 32 bits.
	ErrInvalidTotal = errors.New("invalid commit note total")

	// ErrInvalidFileEntry indicates one of the file lines could not be parsed.
	ErrInvalidFileEntry = errors.New("invalid file entry")
)

// FileEntryError reports the line of a commit note that failed to parse.
type FileEntryError struct {
	Line  int
	Entry string
}

func (e *FileEntryError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, ErrInvalidFileEntry, e.Entry)
}

func (e *FileEntryError) Unwrap() error { return ErrInvalidFileEntry }

var headerRE = regexp.MustCompile(`\[ver:(\d+),total:(\d+)\]`)

// ParseCommitNote decodes a full gtm commit note: a version header followed
// by one file entry per line.
func ParseCommitNote(message string) (domain.CommitNote, error) {
	lines := strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n")
	if strings.TrimSpace(lines[0]) == "" {
		return domain.CommitNote{}, ErrEmptyNote
	}

	m := headerRE.FindStringSubmatch(lines[0])
	if m == nil {
		return domain.CommitNote{}, ErrInvalidHeader
	}
	version, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return domain.CommitNote{}, ErrInvalidVersion
	}
	total, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return domain.CommitNote{}, ErrInvalidTotal
	}

	note := domain.CommitNote{
		Version: int64(version),
		Total:   domain.Seconds(total),
		Files:   []domain.FileNote{},
	}
	for i, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		file, ok := ParseFileEntry(line)
		if !ok {
			return domain.CommitNote{}, &FileEntryError{Line: i + 2, Entry: line}
		}
		note.Files = append(note.Files, file)
	}
	return note, nil
}
