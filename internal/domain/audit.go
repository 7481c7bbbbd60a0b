package domain

import "time"

// AuditEntry is the ledger row kept for every audit record written to disk.
// The record file itself stays the source of truth; the entry only carries
// what listing and lookup need.
type AuditEntry struct {
	EventID        string    `json:"event_id"`
	RecordedAt     time.Time `json:"recorded_at"`
	Intent         string    `json:"intent"`
	Confidence     float64   `json:"confidence"`
	OutputFormat   string    `json:"output_format"`
	FilePath       string    `json:"file_path"`
	SchemaPath     string    `json:"schema_path,omitempty"`
	HasSQL         bool      `json:"has_sql"`
	PotentialPII   bool      `json:"potential_pii"`
	RedactionCount int       `json:"redaction_count"`
}

// IntentTally counts recorded requests per intent.
type IntentTally struct {
	Intent   string    `json:"intent"`
	Total    int       `json:"total"`
	LastSeen time.Time `json:"last_seen"`
}
