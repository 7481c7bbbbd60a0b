package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/opsassist/internal/db"
	"github.com/alexanderramin/opsassist/internal/domain"
)

const auditEntryColumns = `event_id, recorded_at, intent, confidence, output_format,
	file_path, schema_path, has_sql, potential_pii, redaction_count`

// SQLiteAuditEntryRepo implements AuditEntryRepo using a SQLite database.
type SQLiteAuditEntryRepo struct {
	db db.DBTX
}

// NewSQLiteAuditEntryRepo creates a new SQLiteAuditEntryRepo.
func NewSQLiteAuditEntryRepo(conn db.DBTX) *SQLiteAuditEntryRepo {
	return &SQLiteAuditEntryRepo{db: conn}
}

func (r *SQLiteAuditEntryRepo) Create(ctx context.Context, e *domain.AuditEntry) error {
	query := `INSERT INTO audit_events (` + auditEntryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.EventID,
		formatTime(e.RecordedAt),
		e.Intent,
		e.Confidence,
		e.OutputFormat,
		e.FilePath,
		e.SchemaPath,
		boolToInt(e.HasSQL),
		boolToInt(e.PotentialPII),
		e.RedactionCount,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteAuditEntryRepo) GetByID(ctx context.Context, eventID string) (*domain.AuditEntry, error) {
	query := `SELECT ` + auditEntryColumns + ` FROM audit_events WHERE event_id = ?`
	row := r.db.QueryRowContext(ctx, query, eventID)
	e, err := scanAuditEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("audit entry %s: %w", eventID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning audit entry: %w", err)
	}
	return e, nil
}

// ListRecent returns up to limit entries, newest first.
func (r *SQLiteAuditEntryRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	query := `SELECT ` + auditEntryColumns + ` FROM audit_events
		ORDER BY recorded_at DESC, event_id DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning audit entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditEntry(row rowScanner) (*domain.AuditEntry, error) {
	var e domain.AuditEntry
	var recordedAt string
	var hasSQL, pii int

	err := row.Scan(
		&e.EventID, &recordedAt, &e.Intent, &e.Confidence, &e.OutputFormat,
		&e.FilePath, &e.SchemaPath, &hasSQL, &pii, &e.RedactionCount,
	)
	if err != nil {
		return nil, err
	}

	e.RecordedAt, err = parseTime(recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
	}
	e.HasSQL = intToBool(hasSQL)
	e.PotentialPII = intToBool(pii)
	return &e, nil
}
