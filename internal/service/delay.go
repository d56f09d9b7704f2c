package service

import (
	"context"
	"time"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// DelayService holds back every result of inner until a fixed delay has
// passed since the call started.
type DelayService struct {
	inner Service
	delay time.Duration
}

func NewDelayService(inner Service, delay time.Duration) *DelayService {
	return &DelayService{inner: inner, delay: delay}
}

func (s *DelayService) GetVersion(ctx context.Context) (string, error) {
	return delayed(ctx, s.delay, func() (string, error) {
		return s.inner.GetVersion(ctx)
	})
}

func (s *DelayService) FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	return delayed(ctx, s.delay, func() ([]domain.Commit, error) {
		return s.inner.FetchCommits(ctx, filter)
	})
}

func (s *DelayService) FetchProjectList(ctx context.Context) ([]string, error) {
	return delayed(ctx, s.delay, func() ([]string, error) {
		return s.inner.FetchProjectList(ctx)
	})
}

func (s *DelayService) FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error) {
	return delayed(ctx, s.delay, func() (domain.WorkdirStatusList, error) {
		return s.inner.FetchWorkdirStatus(ctx)
	})
}

// delayed runs call right away and returns its result once the timer that
// started with it has fired. Cancellation only counts while the delay is
// still pending.
func delayed[T any](ctx context.Context, d time.Duration, call func() (T, error)) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	v, err := call()

	select {
	case <-timer.C:
		return v, err
	default:
	}

	select {
	case <-timer.C:
		return v, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
