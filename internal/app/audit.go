package app

import (
	"github.com/alexanderramin/opsassist/internal/audit"
	"github.com/alexanderramin/opsassist/internal/domain"
)

// AuditRecord pairs a ledger entry with the record file it points at.
// Record is nil when the file cannot be read; RecordError then says why.
type AuditRecord struct {
	Entry       *domain.AuditEntry `json:"entry"`
	Record      *audit.Event       `json:"record,omitempty"`
	RecordError string             `json:"record_error,omitempty"`
}
