package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// UseCaseEvent captures lightweight execution telemetry for a service call.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives service call events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service call events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver writes service call events to logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// ObservedService reports one UseCaseEvent per call to inner.
type ObservedService struct {
	inner    Service
	observer UseCaseObserver
	now      func() time.Time
}

func NewObservedService(inner Service, observers ...UseCaseObserver) *ObservedService {
	return &ObservedService{
		inner:    inner,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *ObservedService) GetVersion(ctx context.Context) (string, error) {
	return observe(ctx, s, MethodGetVersion, nil, func() (string, error) {
		return s.inner.GetVersion(ctx)
	}, nil)
}

func (s *ObservedService) FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	fields := map[string]any{"from": filter.Start, "to": filter.End}
	if filter.Message != "" {
		fields["message"] = filter.Message
	}
	return observe(ctx, s, MethodFetchCommits, fields, func() ([]domain.Commit, error) {
		return s.inner.FetchCommits(ctx, filter)
	}, func(v []domain.Commit) int { return len(v) })
}

func (s *ObservedService) FetchProjectList(ctx context.Context) ([]string, error) {
	return observe(ctx, s, MethodFetchProjectList, nil, func() ([]string, error) {
		return s.inner.FetchProjectList(ctx)
	}, func(v []string) int { return len(v) })
}

func (s *ObservedService) FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error) {
	return observe(ctx, s, MethodFetchWorkdirStatus, nil, func() (domain.WorkdirStatusList, error) {
		return s.inner.FetchWorkdirStatus(ctx)
	}, func(v domain.WorkdirStatusList) int { return len(v) })
}

func observe[T any](ctx context.Context, s *ObservedService, name string, fields map[string]any, call func() (T, error), count func(T) int) (T, error) {
	startedAt := s.now()
	v, err := call()
	if fields == nil {
		fields = map[string]any{}
	}
	if err == nil && count != nil {
		fields["count"] = count(v)
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  s.now().Sub(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: startedAt,
	})
	return v, err
}
