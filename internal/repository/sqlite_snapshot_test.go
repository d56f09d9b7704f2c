package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/service"
	"github.com/alexanderramin/gtmdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshot(backend string, createdAt time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		Backend:   backend,
		FromDate:  "2020-04-01",
		ToDate:    "2020-04-03",
		CreatedAt: createdAt,
		Sets: map[string][]byte{
			domain.SetCommits:  []byte(`[{"Hash":"abc","When":"2020-04-02T10:00:00Z","Project":"web"}]`),
			domain.SetProjects: []byte(`["web"]`),
			domain.SetWorkdir:  []byte(`{}`),
		},
	}
}

func TestSnapshotRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))

	s := newTestSnapshot("process", time.Time{})
	require.NoError(t, repo.Create(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "process", got.Backend)
	assert.Equal(t, "2020-04-01", got.FromDate)
	assert.Equal(t, "2020-04-03", got.ToDate)
	assert.Equal(t, s.CreatedAt.Truncate(time.Second).Unix(), got.CreatedAt.Unix())
	assert.Equal(t, s.Sets, got.Sets)
}

func TestSnapshotRepo_CreateRequiresEverySet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))

	s := newTestSnapshot("mock", time.Time{})
	delete(s.Sets, domain.SetWorkdir)
	err := repo.Create(ctx, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing workdir set")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSnapshotRepo_CreateRollsBackOnSetFailure(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	// The first set is written, the second fails.
	uow := &testutil.FailingExecUoW{DB: database, Match: "INSERT INTO snapshot_sets", Skip: 1, Err: boom}
	repo := NewSQLiteSnapshotRepoWithUoW(database, uow)

	err := repo.Create(ctx, newTestSnapshot("mock", time.Time{}))
	require.ErrorIs(t, err, boom)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "snapshot row should be rolled back")

	var sets int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot_sets`).Scan(&sets))
	assert.Zero(t, sets)
}

func TestSnapshotRepo_LatestAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	base := time.Date(2020, 5, 20, 8, 0, 0, 0, time.UTC)

	older := newTestSnapshot("process", base)
	newer := newTestSnapshot("web", base.Add(time.Hour))
	tie := newTestSnapshot("git", base.Add(time.Hour))
	for _, s := range []*domain.Snapshot{older, newer, tie} {
		require.NoError(t, repo.Create(ctx, s))
	}

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, tie.ID, latest.ID, "ties resolve to the last inserted")
	assert.Len(t, latest.Sets, 3)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{tie.ID, newer.ID, older.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Nil(t, list[0].Sets)
}

func TestSnapshotRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.LoadSet(ctx, "missing", domain.SetCommits)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}

func TestSnapshotRepo_DeleteCascadesSets(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)

	s := newTestSnapshot("mock", time.Time{})
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var sets int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot_sets`).Scan(&sets))
	assert.Zero(t, sets)
}

func TestSnapshotLoader_FeedsMockService(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	require.NoError(t, repo.Create(ctx, newTestSnapshot("process", time.Time{})))

	loader, err := LatestSnapshotLoader(ctx, repo)
	require.NoError(t, err)
	svc, err := service.NewMockService(ctx, loader)
	require.NoError(t, err)

	commits, err := svc.FetchCommits(ctx, service.CommitsFilter{Start: "2020-04-01", End: "2020-04-03"})
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc", commits[0].Hash)

	projects, err := svc.FetchProjectList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, projects)
}

func TestLatestSnapshotLoader_Empty(t *testing.T) {
	_, err := LatestSnapshotLoader(context.Background(), NewSQLiteSnapshotRepo(testutil.NewTestDB(t)))
	assert.ErrorIs(t, err, ErrNotFound)
}
