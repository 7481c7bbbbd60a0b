package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/opsassist/internal/domain"
	"github.com/google/uuid"
)

var testEntryCounter atomic.Int64

// AuditEntry options
type AuditEntryOption func(*domain.AuditEntry)

func WithIntent(intent string) AuditEntryOption {
	return func(e *domain.AuditEntry) {
		e.Intent = intent
	}
}

func WithRecordedAt(t time.Time) AuditEntryOption {
	return func(e *domain.AuditEntry) {
		e.RecordedAt = t
	}
}

func WithSQL() AuditEntryOption {
	return func(e *domain.AuditEntry) {
		e.HasSQL = true
		e.OutputFormat = "sql_plan"
	}
}

func WithPII(redactions int) AuditEntryOption {
	return func(e *domain.AuditEntry) {
		e.PotentialPII = true
		e.RedactionCount = redactions
	}
}

func WithSchemaPath(path string) AuditEntryOption {
	return func(e *domain.AuditEntry) {
		e.SchemaPath = path
	}
}

// NewTestAuditEntry builds an EXPLAIN entry. Successive calls are recorded
// one second apart so listing order is stable.
func NewTestAuditEntry(opts ...AuditEntryOption) *domain.AuditEntry {
	n := testEntryCounter.Add(1)
	id := fmt.Sprintf("audit_%s", uuid.Must(uuid.NewV7()).String())
	e := &domain.AuditEntry{
		EventID:      id,
		RecordedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second),
		Intent:       "EXPLAIN",
		Confidence:   0.35,
		OutputFormat: "explanation",
		FilePath:     fmt.Sprintf("audit/%s.json", id),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
