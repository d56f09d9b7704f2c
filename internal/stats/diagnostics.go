package stats

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// CheckCode identifies a data-consistency check.
type CheckCode string

const (
	CheckMissingFiles     CheckCode = "MISSING_FILES"
	CheckBucketTooLong    CheckCode = "BUCKET_TOO_LONG"
	CheckNotHourAligned   CheckCode = "NOT_HOUR_ALIGNED"
	CheckTimelineMismatch CheckCode = "TIMELINE_MISMATCH"
	CheckUnknownStatus    CheckCode = "UNKNOWN_STATUS"
)

// Warning describes a suspicious record found during aggregation.
// Only the fields relevant to Code are set.
type Warning struct {
	Code      CheckCode
	Project   string
	Commit    string
	File      string
	Status    string
	Timestamp int64
	Seconds   domain.Seconds
	Expected  domain.Seconds
	Message   string
}

// Sink receives aggregation warnings. Warnings never stop aggregation.
type Sink interface {
	Warn(w Warning)
}

// Discard ignores every warning.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Warn(Warning) {}

func sinkOrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Collector records warnings in memory.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

func (c *Collector) Warn(w Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, w)
}

// Warnings returns a copy of the recorded warnings.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Count returns how many warnings with the given code were recorded.
func (c *Collector) Count(code CheckCode) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}

type logSink struct {
	logger *slog.Logger
}

// NewLogSink writes warnings to logger at WARN level.
func NewLogSink(logger *slog.Logger) Sink {
	if logger == nil {
		return Discard
	}
	return &logSink{logger: logger}
}

func (s *logSink) Warn(w Warning) {
	attrs := []any{"check", string(w.Code)}
	if w.Project != "" {
		attrs = append(attrs, "project", w.Project)
	}
	if w.Commit != "" {
		attrs = append(attrs, "commit", w.Commit)
	}
	if w.File != "" {
		attrs = append(attrs, "file", w.File)
	}
	if w.Status != "" {
		attrs = append(attrs, "status", w.Status)
	}
	if w.Timestamp != 0 {
		attrs = append(attrs, "timestamp", w.Timestamp)
	}
	if w.Seconds != 0 {
		attrs = append(attrs, "seconds", int64(w.Seconds))
	}
	if w.Expected != 0 {
		attrs = append(attrs, "expected", int64(w.Expected))
	}
	s.logger.WarnContext(context.Background(), "gtm check: "+w.Message, attrs...)
}
