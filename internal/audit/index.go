package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/opsassist/internal/db"
	"github.com/alexanderramin/opsassist/internal/domain"
	"github.com/alexanderramin/opsassist/internal/repository"
)

// ErrNotFound is returned by Index.Get for unknown event ids.
var ErrNotFound = repository.ErrNotFound

// Index is the SQLite ledger of written records.
type Index struct {
	db      *sql.DB
	uow     db.UnitOfWork
	entries repository.AuditEntryRepo
	tallies repository.IntentTallyRepo
	owned   bool
}

// OpenIndex opens (and migrates) the ledger database at path. The returned
// Index owns the connection; call Close when done.
func OpenIndex(path string) (*Index, error) {
	database, err := db.OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening audit index: %w", err)
	}
	idx := NewIndex(database, db.NewSQLiteUnitOfWork(database))
	idx.owned = true
	return idx, nil
}

// NewIndex builds an Index over an already migrated database. Writes go
// through uow so an entry and its tally land together.
func NewIndex(database *sql.DB, uow db.UnitOfWork) *Index {
	return &Index{
		db:      database,
		uow:     uow,
		entries: repository.NewSQLiteAuditEntryRepo(database),
		tallies: repository.NewSQLiteIntentTallyRepo(database),
	}
}

// Add records e, written to path, in the ledger.
func (i *Index) Add(ctx context.Context, e *Event, path string) error {
	entry := entryFor(e, path)
	return i.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteAuditEntryRepo(tx).Create(ctx, entry); err != nil {
			return err
		}
		return repository.NewSQLiteIntentTallyRepo(tx).Increment(ctx, entry.Intent, entry.RecordedAt)
	})
}

func (i *Index) Get(ctx context.Context, eventID string) (*domain.AuditEntry, error) {
	return i.entries.GetByID(ctx, eventID)
}

// ListRecent returns up to limit entries, newest first.
func (i *Index) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	return i.entries.ListRecent(ctx, limit)
}

// Tallies returns per-intent request counts.
func (i *Index) Tallies(ctx context.Context) ([]domain.IntentTally, error) {
	return i.tallies.List(ctx)
}

// Close releases the database if the Index opened it.
func (i *Index) Close() error {
	if !i.owned {
		return nil
	}
	return i.db.Close()
}
