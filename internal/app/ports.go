package app

import (
	"context"

	"github.com/alexanderramin/opsassist/internal/domain"
)

type PlanUseCase interface {
	Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error)
}

type AuditQueryUseCase interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
	Show(ctx context.Context, eventID string) (*AuditRecord, error)
	Tallies(ctx context.Context) ([]domain.IntentTally, error)
}
