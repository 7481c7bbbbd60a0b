// Package audit persists redacted planning outcomes for later review. Each
// request produces one self-contained JSON record on disk; an optional SQLite
// index keeps a queryable ledger of those records.
package audit

import (
	"time"

	"github.com/alexanderramin/opsassist/internal/domain"
	"github.com/alexanderramin/opsassist/internal/governance"
	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/alexanderramin/opsassist/internal/planner"
	"github.com/alexanderramin/opsassist/internal/sqldraft"
	"github.com/google/uuid"
)

// IDPrefix starts every event id.
const IDPrefix = "audit_"

// Event is the record written for one request. It only ever holds redacted
// input.
type Event struct {
	EventID         string                   `json:"event_id"`
	Timestamp       time.Time                `json:"timestamp"`
	RedactedInput   string                   `json:"redacted_input"`
	Route           intelligence.RouteResult `json:"route"`
	Plan            *planner.Plan            `json:"plan"`
	RedactionCounts governance.Counts        `json:"redaction_counts"`
	SQL             *sqldraft.SQLPlan        `json:"sql,omitempty"`

	// SchemaPath is indexed but not part of the record body.
	SchemaPath string `json:"-"`
}

// NewEventID returns a time-ordered, collision-resistant event id.
func NewEventID() string {
	return IDPrefix + uuid.Must(uuid.NewV7()).String()
}

// entryFor derives the ledger row for an event written to path.
func entryFor(e *Event, path string) *domain.AuditEntry {
	entry := &domain.AuditEntry{
		EventID:        e.EventID,
		RecordedAt:     e.Timestamp,
		Intent:         e.Route.Intent.String(),
		Confidence:     e.Route.Confidence,
		FilePath:       path,
		SchemaPath:     e.SchemaPath,
		HasSQL:         e.SQL != nil,
		RedactionCount: e.RedactionCounts.Total(),
	}
	if e.Plan != nil {
		entry.OutputFormat = e.Plan.OutputFormat
		entry.PotentialPII = e.Plan.HasRisk(planner.RiskPotentialPII)
	}
	return entry
}
