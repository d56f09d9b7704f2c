package service

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/format"
)

// Loader returns the raw JSON of a named data set: domain.SetCommits,
// domain.SetProjects or domain.SetWorkdir.
type Loader func(ctx context.Context, name string) ([]byte, error)

// FileLoader reads <dir>/<name>.json.
func FileLoader(dir string) Loader {
	return func(_ context.Context, name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name+".json"))
		if err != nil {
			return nil, fmt.Errorf("reading %s data: %w", name, err)
		}
		return data, nil
	}
}

// MockService serves fixed data sets loaded once at construction.
// It is read-only afterwards and safe for concurrent use.
type MockService struct {
	version  string
	commits  []domain.Commit
	projects []string
	workdir  domain.WorkdirStatusList
}

func NewMockService(ctx context.Context, loader Loader) (*MockService, error) {
	s := &MockService{version: "mock"}
	if err := loadSet(ctx, loader, domain.SetCommits, &s.commits); err != nil {
		return nil, err
	}
	if err := loadSet(ctx, loader, domain.SetProjects, &s.projects); err != nil {
		return nil, err
	}
	if err := loadSet(ctx, loader, domain.SetWorkdir, &s.workdir); err != nil {
		return nil, err
	}
	return s, nil
}

func loadSet(ctx context.Context, loader Loader, name string, v any) error {
	data, err := loader(ctx, name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (s *MockService) GetVersion(context.Context) (string, error) {
	return s.version, nil
}

// FetchCommits returns copies of the commits whose When falls strictly
// after the start date and strictly before the day following the end date.
// Commits with an unreadable When are skipped.
func (s *MockService) FetchCommits(_ context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	start, end, err := filter.Bounds()
	if err != nil {
		return nil, err
	}

	out := []domain.Commit{}
	for _, c := range s.commits {
		when, ok := format.ParseWhen(c.When)
		if !ok {
			continue
		}
		if !when.After(start) || !when.Before(end) {
			continue
		}
		if !filter.MatchesMessage(c.Message) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MockService) FetchProjectList(context.Context) ([]string, error) {
	return TrailingSegments(s.projects), nil
}

func (s *MockService) FetchWorkdirStatus(context.Context) (domain.WorkdirStatusList, error) {
	return maps.Clone(s.workdir), nil
}
