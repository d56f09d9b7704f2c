package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/gtmdash/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertSnapshot(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, backend, from_date, to_date, created_at) VALUES (?, 'mock', '2020-04-01', '2020-04-03', '2020-04-04T00:00:00Z')`,
		id)
	return err
}

// snapshotExists reads through a separate transaction.
func snapshotExists(uow *db.SQLiteUnitOfWork, id string) bool {
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		var got string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE id = ?`, id).Scan(&got); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertSnapshot(ctx, tx, "s1")
	})
	require.NoError(t, err)
	assert.True(t, snapshotExists(uow, "s1"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSnapshot(ctx, tx, "s2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.False(t, snapshotExists(uow, "s2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertSnapshot(ctx, tx, "s3")
			panic("boom")
		})
	})
	assert.False(t, snapshotExists(uow, "s3"), "row should not exist after panic rollback")
}

func TestRollback_KeepsCauseWhenTxAlreadyDone(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	tx, err := database.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	cause := errors.New("insert failed")
	assert.Same(t, cause, db.Rollback(tx, cause))
}
