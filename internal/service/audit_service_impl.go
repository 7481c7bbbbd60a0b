package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/opsassist/internal/audit"
	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/domain"
)

// ErrAuditIndexDisabled is returned when no ledger is configured.
var ErrAuditIndexDisabled = errors.New("audit index is disabled")

type auditService struct {
	index    *audit.Index
	observer UseCaseObserver
}

// NewAuditService queries idx. A nil idx yields ErrAuditIndexDisabled from
// every method.
func NewAuditService(idx *audit.Index, observers ...UseCaseObserver) AuditService {
	return &auditService{index: idx, observer: useCaseObserverOrNoop(observers)}
}

func (s *auditService) ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if s.index == nil {
		return nil, ErrAuditIndexDisabled
	}
	if limit < 1 {
		return nil, &contract.ValidationError{Field: "limit", Message: "must be at least 1"}
	}
	entries, err := s.index.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return entries, nil
}

func (s *auditService) Show(ctx context.Context, eventID string) (record *contract.AuditRecord, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "audit-show",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"event_id": eventID},
		})
	}()

	if s.index == nil {
		return nil, ErrAuditIndexDisabled
	}

	var entry *domain.AuditEntry
	entry, err = s.index.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	record = &contract.AuditRecord{Entry: entry}
	event, readErr := audit.ReadFile(entry.FilePath)
	if readErr != nil {
		record.RecordError = readErr.Error()
		return record, nil
	}
	record.Record = event
	return record, nil
}

func (s *auditService) Tallies(ctx context.Context) ([]domain.IntentTally, error) {
	if s.index == nil {
		return nil, ErrAuditIndexDisabled
	}
	return s.index.Tallies(ctx)
}
