package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// MeteredService records call counts and latencies of inner.
type MeteredService struct {
	inner    Service
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

func NewMeteredService(inner Service, meter metric.Meter) (*MeteredService, error) {
	calls, err := meter.Int64Counter(
		"gtmdash_service_calls_total",
		metric.WithDescription("Total number of service calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calls counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"gtmdash_service_call_duration_seconds",
		metric.WithDescription("Service call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &MeteredService{inner: inner, calls: calls, duration: duration}, nil
}

func (s *MeteredService) GetVersion(ctx context.Context) (string, error) {
	return metered(ctx, s, MethodGetVersion, func() (string, error) {
		return s.inner.GetVersion(ctx)
	})
}

func (s *MeteredService) FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	return metered(ctx, s, MethodFetchCommits, func() ([]domain.Commit, error) {
		return s.inner.FetchCommits(ctx, filter)
	})
}

func (s *MeteredService) FetchProjectList(ctx context.Context) ([]string, error) {
	return metered(ctx, s, MethodFetchProjectList, func() ([]string, error) {
		return s.inner.FetchProjectList(ctx)
	})
}

func (s *MeteredService) FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error) {
	return metered(ctx, s, MethodFetchWorkdirStatus, func() (domain.WorkdirStatusList, error) {
		return s.inner.FetchWorkdirStatus(ctx)
	})
}

func metered[T any](ctx context.Context, s *MeteredService, method string, call func() (T, error)) (T, error) {
	start := time.Now()
	v, err := call()

	s.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("success", err == nil),
	))
	s.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("method", method),
	))
	return v, err
}
