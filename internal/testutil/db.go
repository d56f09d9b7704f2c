package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/alexanderramin/gtmdash/internal/db"
)

// NewTestDB opens an in-memory snapshot database with the schema applied.
// It is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// FailingExecUoW runs transactions on DB but makes one write fail: the
// exec whose query contains Match, after Skip earlier matches went through.
type FailingExecUoW struct {
	DB    *sql.DB
	Match string
	Skip  int
	Err   error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingExec{DBTX: tx, uow: u}); err != nil {
		return db.Rollback(tx, err)
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	uow  *FailingExecUoW
	seen int
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.uow.Match) {
		f.seen++
		if f.seen == f.uow.Skip+1 {
			return nil, f.uow.Err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
