package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// Capture fetches every data set from svc and returns them as raw JSON keyed
// by set name, ready to be served again through a Loader.
func Capture(ctx context.Context, svc Service, filter CommitsFilter) (map[string][]byte, error) {
	commits, err := svc.FetchCommits(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetching commits: %w", err)
	}
	projects, err := svc.FetchProjectList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	workdir, err := svc.FetchWorkdirStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching workdir status: %w", err)
	}

	sets := map[string]any{
		domain.SetCommits:  commits,
		domain.SetProjects: projects,
		domain.SetWorkdir:  workdir,
	}
	out := make(map[string][]byte, len(sets))
	for name, v := range sets {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}
