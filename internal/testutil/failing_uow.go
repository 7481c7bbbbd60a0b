package testutil

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/alexanderramin/opsassist/internal/db"
)

// FailingUoW runs transactions normally except that any write touching
// Table fails with Err. Reads are never intercepted. It lets tests break
// the second half of a multi-table write and check nothing was kept.
type FailingUoW struct {
	DB    *sql.DB
	Table string
	Err   error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(ctx, &failingTx{DBTX: tx, table: u.Table, err: u.Err}); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	table string
	err   error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.table) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
