package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/gtmdash/internal/db"
	"github.com/alexanderramin/gtmdash/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteSnapshotRepo creates a SQLiteSnapshotRepo whose writes run in
// database transactions.
func NewSQLiteSnapshotRepo(database *sql.DB) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// NewSQLiteSnapshotRepoWithUoW creates a SQLiteSnapshotRepo that reads
// through q and writes through uow.
func NewSQLiteSnapshotRepoWithUoW(q db.DBTX, uow db.UnitOfWork) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: q, uow: uow}
}

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	for _, name := range domain.SnapshotSets {
		if _, ok := s.Sets[name]; !ok {
			return fmt.Errorf("snapshot %s: missing %s set", s.ID, name)
		}
	}

	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (id, backend, from_date, to_date, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Backend, s.FromDate, s.ToDate, formatTime(s.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting snapshot: %w", err)
		}
		for _, name := range domain.SnapshotSets {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO snapshot_sets (snapshot_id, name, payload) VALUES (?, ?, ?)`,
				s.ID, name, s.Sets[name],
			)
			if err != nil {
				return fmt.Errorf("inserting snapshot %s set: %w", name, err)
			}
		}
		return nil
	})
}

const snapshotColumns = `id, backend, from_date, to_date, created_at`

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	s, err := scanSnapshot(row)
	if err != nil {
		return nil, err
	}
	return r.withSets(ctx, s)
}

func (r *SQLiteSnapshotRepo) Latest(ctx context.Context) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	s, err := scanSnapshot(row)
	if err != nil {
		return nil, err
	}
	return r.withSets(ctx, s)
}

func (r *SQLiteSnapshotRepo) List(ctx context.Context) ([]*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *SQLiteSnapshotRepo) LoadSet(ctx context.Context, id, name string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshot_sets WHERE snapshot_id = ? AND name = ?`, id, name,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s set %s: %w", id, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot set: %w", err)
	}
	return payload, nil
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) withSets(ctx context.Context, s *domain.Snapshot) (*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, payload FROM snapshot_sets WHERE snapshot_id = ?`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot sets: %w", err)
	}
	defer rows.Close()

	s.Sets = map[string][]byte{}
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scanning snapshot set: %w", err)
		}
		s.Sets[name] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot sets: %w", err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var createdAt string
	if err := row.Scan(&s.ID, &s.Backend, &s.FromDate, &s.ToDate, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot created_at: %w", err)
	}
	s.CreatedAt = t
	return &s, nil
}
