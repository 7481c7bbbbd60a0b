package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/opsassist/internal/audit"
	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/governance"
	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/alexanderramin/opsassist/internal/planner"
	"github.com/alexanderramin/opsassist/internal/sqldraft"
)

// DraftLimits bounds the row limit a caller may ask for.
type DraftLimits struct {
	DefaultTopN int
	MaxTopN     int
}

// DefaultDraftLimits allows up to ten thousand rows and defaults to the
// engine's own limit.
func DefaultDraftLimits() DraftLimits {
	return DraftLimits{DefaultTopN: sqldraft.DefaultTopN, MaxTopN: 10000}
}

type planningService struct {
	engine   *sqldraft.Engine
	builder  *planner.Builder
	scrubber *governance.Scrubber
	recorder *audit.Recorder
	limits   DraftLimits
	observer UseCaseObserver
}

// NewPlanningService wires the planning pipeline. recorder may be nil, in
// which case no request is ever audited.
func NewPlanningService(
	engine *sqldraft.Engine,
	builder *planner.Builder,
	recorder *audit.Recorder,
	limits DraftLimits,
	observers ...UseCaseObserver,
) PlanningService {
	if engine == nil {
		engine = sqldraft.NewEngine(nil)
	}
	if builder == nil {
		builder = planner.NewBuilder()
	}
	return &planningService{
		engine:   engine,
		builder:  builder,
		scrubber: governance.NewScrubber(),
		recorder: recorder,
		limits:   limits,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) Plan(ctx context.Context, req contract.PlanRequest) (resp *contract.PlanResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "plan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &contract.ValidationError{Field: "text", Message: "must not be empty"}
	}
	topN, err := s.topN(req.TopN)
	if err != nil {
		return nil, err
	}

	// Redaction only feeds the audit record; routing and drafting see the
	// original text.
	redaction := s.scrubber.Redact(text)
	route := intelligence.Route(text)
	plan := s.builder.Build(route, text)
	fields["intent"] = route.Intent.String()
	fields["confidence"] = route.Confidence

	resp = &contract.PlanResponse{Route: route, Plan: plan}

	if route.Intent == intelligence.IntentQuery {
		resp.SQL, err = s.engine.DraftFromPath(text, topN, req.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("drafting sql: %w", err)
		}
		fields["top_n"] = topN
	}

	if req.AuditRequested() && s.recorder != nil {
		receipt, auditErr := s.recorder.Record(ctx, &audit.Event{
			RedactedInput:   redaction.RedactedText,
			Route:           route,
			Plan:            plan,
			RedactionCounts: redaction.Counts,
			SQL:             resp.SQL,
			SchemaPath:      req.SchemaPath,
		})
		if auditErr != nil {
			resp.AuditError = auditErr.Error()
			fields["audit_error"] = auditErr.Error()
		} else {
			resp.AuditID = receipt.EventID
			resp.AuditPath = receipt.Path
			fields["audit_id"] = receipt.EventID
		}
	}
	return resp, nil
}

func (s *planningService) topN(requested *int) (int, error) {
	if requested == nil {
		if s.limits.DefaultTopN > 0 {
			return s.limits.DefaultTopN, nil
		}
		return sqldraft.DefaultTopN, nil
	}
	n := *requested
	if s.limits.MaxTopN <= 0 {
		if n < 1 {
			return 0, &contract.ValidationError{Field: "top_n", Message: "must be at least 1"}
		}
		return n, nil
	}
	if n < 1 || n > s.limits.MaxTopN {
		return 0, &contract.ValidationError{
			Field:   "top_n",
			Message: fmt.Sprintf("must be between 1 and %d", s.limits.MaxTopN),
		}
	}
	return n, nil
}
