package app

import (
	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/alexanderramin/opsassist/internal/planner"
	"github.com/alexanderramin/opsassist/internal/sqldraft"
)

// PlanRequest is one free-text operational request.
type PlanRequest struct {
	Text       string `json:"text"`
	SchemaPath string `json:"schema_path,omitempty"`
	// Audit defaults to true when omitted.
	Audit *bool `json:"audit,omitempty"`
	// TopN defaults to the configured row limit when omitted.
	TopN *int `json:"top_n,omitempty"`
}

func NewPlanRequest(text string) PlanRequest {
	return PlanRequest{Text: text}
}

// AuditRequested reports whether the caller wants an audit record.
func (r PlanRequest) AuditRequested() bool {
	return r.Audit == nil || *r.Audit
}

// PlanResponse carries everything produced for a request. SQL is only set
// for QUERY requests and the audit fields only when a record was attempted.
type PlanResponse struct {
	Route      intelligence.RouteResult `json:"route"`
	Plan       *planner.Plan            `json:"plan"`
	SQL        *sqldraft.SQLPlan        `json:"sql,omitempty"`
	AuditID    string                   `json:"audit_id,omitempty"`
	AuditPath  string                   `json:"audit_path,omitempty"`
	AuditError string                   `json:"audit_error,omitempty"`
}
