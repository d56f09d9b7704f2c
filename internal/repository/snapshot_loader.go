package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gtmdash/internal/service"
)

// SnapshotLoader serves the sets of one stored snapshot to a MockService.
func SnapshotLoader(repo SnapshotRepo, id string) service.Loader {
	return func(ctx context.Context, name string) ([]byte, error) {
		return repo.LoadSet(ctx, id, name)
	}
}

// LatestSnapshotLoader resolves the newest snapshot once and serves its sets.
func LatestSnapshotLoader(ctx context.Context, repo SnapshotRepo) (service.Loader, error) {
	latest, err := repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding latest snapshot: %w", err)
	}
	return SnapshotLoader(repo, latest.ID), nil
}
