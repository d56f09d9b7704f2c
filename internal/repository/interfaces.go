package repository

import (
	"context"

	"github.com/alexanderramin/gtmdash/internal/domain"
)

// SnapshotRepo stores raw captures of service data.
type SnapshotRepo interface {
	// Create stores the snapshot and all of its sets atomically. A missing
	// ID or CreatedAt is filled in.
	Create(ctx context.Context, s *domain.Snapshot) error
	// GetByID returns the snapshot with its sets.
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	// Latest returns the most recently created snapshot with its sets.
	Latest(ctx context.Context) (*domain.Snapshot, error)
	// List returns snapshots newest first, without their sets.
	List(ctx context.Context) ([]*domain.Snapshot, error)
	LoadSet(ctx context.Context, id, name string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}
