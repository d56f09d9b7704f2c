package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// Process is a running reporting-tool invocation.
type Process interface {
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits. A nil code means the process
	// was killed before it could report one.
	Wait() (*int, error)
}

// Spawner starts the reporting tool with the given arguments.
type Spawner func(ctx context.Context, args []string) (Process, error)

// ProcessService talks to the gtm command line tool.
type ProcessService struct {
	spawn Spawner
}

func NewProcessService(spawn Spawner) *ProcessService {
	return &ProcessService{spawn: spawn}
}

func (s *ProcessService) GetVersion(ctx context.Context) (string, error) {
	out, err := runGtm(ctx, s.spawn, []string{"--version"})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\r\n"), nil
}

func (s *ProcessService) FetchCommits(ctx context.Context, filter CommitsFilter) ([]domain.Commit, error) {
	from, to, err := filter.dateRange()
	if err != nil {
		return nil, err
	}
	args := []string{"commits", "--from-date=" + from, "--to-date=" + to}
	if filter.Message != "" {
		args = append(args, "--message="+filter.Message)
	}
	return runGtmJSON[[]domain.Commit](ctx, s.spawn, args)
}

func (s *ProcessService) FetchProjectList(ctx context.Context) ([]string, error) {
	ids, err := runGtmJSON[[]string](ctx, s.spawn, []string{"projects"})
	if err != nil {
		return nil, err
	}
	return TrailingSegments(ids), nil
}

func (s *ProcessService) FetchWorkdirStatus(ctx context.Context) (domain.WorkdirStatusList, error) {
	return runGtmJSON[domain.WorkdirStatusList](ctx, s.spawn, []string{"status"})
}

func runGtmJSON[T any](ctx context.Context, spawn Spawner, args []string) (T, error) {
	var v T
	out, err := runGtm(ctx, spawn, args)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(out, &v); err != nil {
		return v, parseErr(string(out), err)
	}
	return v, nil
}

// runGtm returns the standard output of a successful invocation.
// Both output streams are drained at the same time so the child can never
// block on a full pipe.
func runGtm(ctx context.Context, spawn Spawner, args []string) ([]byte, error) {
	proc, err := spawn(ctx, args)
	if err != nil {
		return nil, processExitErr(err.Error(), nil, err)
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&stdout, proc.Stdout())
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, proc.Stderr())
		return err
	})
	readErr := g.Wait()

	code, waitErr := proc.Wait()
	combined := stdout.String() + stderr.String()

	if waitErr != nil {
		return nil, processExitErr(combined, code, fmt.Errorf("waiting for gtm: %w", waitErr))
	}
	if readErr != nil {
		return nil, processExitErr(combined, code, fmt.Errorf("reading gtm output: %w", readErr))
	}
	if code == nil || *code != 0 {
		return nil, processExitErr(combined, code, nil)
	}
	return stdout.Bytes(), nil
}
