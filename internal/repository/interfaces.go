package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/opsassist/internal/domain"
)

type AuditEntryRepo interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	GetByID(ctx context.Context, eventID string) (*domain.AuditEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

type IntentTallyRepo interface {
	Increment(ctx context.Context, intent string, at time.Time) error
	List(ctx context.Context) ([]domain.IntentTally, error)
}
