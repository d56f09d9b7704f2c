package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

var testHashCounter atomic.Int64

func nextHash() string {
	n := testHashCounter.Add(1)
	return fmt.Sprintf("%040x", n)
}

// File note options
type FileOption func(*domain.FileNote)

func WithStatus(s string) FileOption {
	return func(f *domain.FileNote) {
		f.Status = s
	}
}

// WithTimeSpent overrides the total, which otherwise matches the timeline.
func WithTimeSpent(secs domain.Seconds) FileOption {
	return func(f *domain.FileNote) {
		f.TimeSpent = secs
	}
}

// NewTestFileNote builds a modified-file note whose TimeSpent is the sum of
// the given timeline.
func NewTestFileNote(path string, timeline map[int64]domain.Seconds, opts ...FileOption) domain.FileNote {
	f := domain.NewFileNote(path, 0)
	for ts, secs := range timeline {
		f.Timeline[ts] = secs
		f.TimeSpent += secs
	}
	f.Status = domain.StatusModified
	for _, opt := range opts {
		opt(f)
	}
	return *f
}

// Commit options
type CommitOption func(*domain.Commit)

func WithFiles(files ...domain.FileNote) CommitOption {
	return func(c *domain.Commit) {
		c.Note.Files = append(c.Note.Files, files...)
	}
}

// WithNilFiles marks the commit note as unreadable.
func WithNilFiles() CommitOption {
	return func(c *domain.Commit) {
		c.Note.Files = nil
	}
}

func WithWhen(when string) CommitOption {
	return func(c *domain.Commit) {
		c.When = when
	}
}

func WithMessage(msg string) CommitOption {
	return func(c *domain.Commit) {
		c.Message = msg
		c.Subject = msg
	}
}

func WithHash(hash string) CommitOption {
	return func(c *domain.Commit) {
		c.Hash = hash
	}
}

func NewTestCommit(project string, opts ...CommitOption) domain.Commit {
	c := domain.Commit{
		Author:  "Test Author",
		Date:    "Thu Apr 2 21:00:00 2020 +0000",
		When:    "2020-04-02T21:00:00Z",
		Hash:    nextHash(),
		Subject: "test commit",
		Message: "test commit",
		Project: project,
		Note:    domain.CommitNote{Files: []domain.FileNote{}},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewTestWorkdirStatus builds a working-tree status from file notes.
func NewTestWorkdirStatus(files ...domain.FileNote) domain.WorkdirStatus {
	var total domain.Seconds
	for _, f := range files {
		total += f.TimeSpent
	}
	return domain.WorkdirStatus{
		Total:      total,
		Label:      "",
		CommitNote: domain.CommitNote{Files: append([]domain.FileNote{}, files...)},
	}
}
