package service

import "github.com/alexanderramin/opsassist/internal/app"

// PlanningService turns one request into a route, plan, optional SQL draft
// and optional audit record.
type PlanningService interface {
	app.PlanUseCase
}

// AuditService reads the audit index.
type AuditService interface {
	app.AuditQueryUseCase
}
