package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alexanderramin/opsassist/internal/audit"
	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/alexanderramin/opsassist/internal/planner"
	"github.com/alexanderramin/opsassist/internal/schema"
	"github.com/alexanderramin/opsassist/internal/sqldraft"
	"github.com/alexanderramin/opsassist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hiringRequest = "Generate a SQL query to list active employees hired in the last 90 days"

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func newPlanningService(t *testing.T, auditDir string, observers ...UseCaseObserver) (PlanningService, *audit.Index) {
	t.Helper()
	database := testutil.NewTestDB(t)
	idx := audit.NewIndex(database, testutil.NewTestUoW(database))
	recorder := audit.NewRecorder(audit.NewFileWriter(auditDir), audit.WithIndex(idx))
	svc := NewPlanningService(sqldraft.NewEngine(nil), planner.NewBuilder(), recorder, DefaultDraftLimits(), observers...)
	return svc, idx
}

func writeSchema(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestPlan_QueryWithoutSchema(t *testing.T) {
	auditDir := t.TempDir()
	svc, _ := newPlanningService(t, auditDir)

	resp, err := svc.Plan(context.Background(), contract.NewPlanRequest(hiringRequest))
	require.NoError(t, err)

	assert.Equal(t, intelligence.IntentQuery, resp.Route.Intent)
	assert.Equal(t, 0.9, resp.Route.Confidence)
	assert.Equal(t, "Matched keywords for QUERY", resp.Route.Rationale)
	assert.Equal(t, "sql_plan", resp.Plan.OutputFormat)

	require.NotNil(t, resp.SQL)
	assert.Equal(t, "SELECT TOP (100)\n    *\nFROM dbo.YourTable\n\n;", resp.SQL.Query)

	require.NotEmpty(t, resp.AuditID)
	assert.FileExists(t, filepath.Join(auditDir, resp.AuditID+".json"))
	assert.Equal(t, filepath.Join(auditDir, resp.AuditID+".json"), resp.AuditPath)
	assert.Empty(t, resp.AuditError)
}

func TestPlan_QueryWithSchema(t *testing.T) {
	svc, idx := newPlanningService(t, t.TempDir())
	path := writeSchema(t, `{"tables": {"dbo.Employees": ["EmployeeID","Status","HireDate","EmailAddress"]}}`)

	req := contract.NewPlanRequest(hiringRequest)
	req.SchemaPath = path
	resp, err := svc.Plan(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.SQL)
	assert.Equal(t, "SELECT TOP (100)\n    EmployeeID,\n    Status,\n    HireDate\nFROM dbo.Employees\n"+
		"WHERE Status = 'ACTIVE' AND HireDate >= DATEADD(DAY, -90, GETDATE())\n;", resp.SQL.Query)

	entry, err := idx.Get(context.Background(), resp.AuditID)
	require.NoError(t, err)
	assert.Equal(t, path, entry.SchemaPath)
	assert.True(t, entry.HasSQL)
}

func TestPlan_ExplainHasNoSQL(t *testing.T) {
	svc, _ := newPlanningService(t, t.TempDir())

	req := contract.NewPlanRequest("Explain why this policy exists")
	req.Audit = boolPtr(false)
	resp, err := svc.Plan(context.Background(), req)
	require.NoError(t, err)

	// "policy" is one VALIDATE hit; "explain" and "why" are two EXPLAIN hits.
	assert.Equal(t, intelligence.IntentExplain, resp.Route.Intent)
	assert.Equal(t, 0.75, resp.Route.Confidence)
	assert.Nil(t, resp.SQL)
	assert.Empty(t, resp.AuditID)
	assert.Empty(t, resp.AuditPath)
}

func TestPlan_RedactsAuditRecordOnly(t *testing.T) {
	auditDir := t.TempDir()
	svc, _ := newPlanningService(t, auditDir)

	resp, err := svc.Plan(context.Background(), contract.NewPlanRequest("my ssn is 123-45-6789"))
	require.NoError(t, err)

	assert.Contains(t, resp.Plan.RiskFlags, planner.RiskPotentialPII)

	event, err := audit.ReadFile(resp.AuditPath)
	require.NoError(t, err)
	assert.Equal(t, "my ssn is [REDACTED_SSN]", event.RedactedInput)
	assert.Equal(t, 1, event.RedactionCounts.SSN)

	data, err := os.ReadFile(resp.AuditPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "123-45-6789")
}

func TestPlan_EmptyTextIsInvalidInput(t *testing.T) {
	svc, _ := newPlanningService(t, t.TempDir())

	for _, text := range []string{"", "   ", "\n\t"} {
		resp, err := svc.Plan(context.Background(), contract.NewPlanRequest(text))
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, contract.ErrInvalidInput)

		var vErr *contract.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "text", vErr.Field)
	}
}

func TestPlan_TopNBounds(t *testing.T) {
	svc, _ := newPlanningService(t, t.TempDir())
	ctx := context.Background()

	req := contract.NewPlanRequest("list employees")
	req.Audit = boolPtr(false)

	req.TopN = intPtr(25)
	resp, err := svc.Plan(ctx, req)
	require.NoError(t, err)
	assert.Contains(t, resp.SQL.Query, "SELECT TOP (25)")

	for _, n := range []int{0, -1, 10001} {
		req.TopN = intPtr(n)
		_, err := svc.Plan(ctx, req)
		assert.ErrorIs(t, err, contract.ErrInvalidInput, "top_n=%d", n)
	}
}

func TestPlan_TopNMessages(t *testing.T) {
	tests := []struct {
		name    string
		limits  DraftLimits
		topN    int
		wantErr string
	}{
		{"bounded below", DraftLimits{MaxTopN: 500}, 0, "must be between 1 and 500"},
		{"bounded above", DraftLimits{MaxTopN: 500}, 501, "must be between 1 and 500"},
		{"unbounded below", DraftLimits{}, 0, "must be at least 1"},
		{"unbounded large", DraftLimits{}, 1_000_000, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPlanningService(sqldraft.NewEngine(nil), planner.NewBuilder(), nil, tt.limits)
			req := contract.NewPlanRequest("list employees")
			req.Audit = boolPtr(false)
			req.TopN = intPtr(tt.topN)

			resp, err := svc.Plan(context.Background(), req)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Contains(t, resp.SQL.Query, "SELECT TOP (1000000)")
				return
			}
			var vErr *contract.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "top_n", vErr.Field)
			assert.Equal(t, tt.wantErr, vErr.Message)
		})
	}
}

func TestPlan_SchemaLoadErrorIsFatal(t *testing.T) {
	auditDir := t.TempDir()
	svc, _ := newPlanningService(t, auditDir)

	req := contract.NewPlanRequest(hiringRequest)
	req.SchemaPath = writeSchema(t, `{"tables": `)
	resp, err := svc.Plan(context.Background(), req)

	assert.Nil(t, resp)
	var loadErr *schema.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, req.SchemaPath, loadErr.Path)

	entries, err := os.ReadDir(auditDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no record is written for a failed request")
}

func TestPlan_SchemaIgnoredForNonQuery(t *testing.T) {
	svc, _ := newPlanningService(t, t.TempDir())

	req := contract.NewPlanRequest("summarize the incident")
	req.SchemaPath = filepath.Join(t.TempDir(), "missing.json")
	req.Audit = boolPtr(false)
	resp, err := svc.Plan(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, intelligence.IntentSummarize, resp.Route.Intent)
	assert.Nil(t, resp.SQL)
}

func TestPlan_AuditFailureKeepsResult(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	svc, _ := newPlanningService(t, blocker)

	resp, err := svc.Plan(context.Background(), contract.NewPlanRequest(hiringRequest))
	require.NoError(t, err)

	assert.Equal(t, intelligence.IntentQuery, resp.Route.Intent)
	assert.NotNil(t, resp.SQL)
	assert.Empty(t, resp.AuditID)
	assert.Contains(t, resp.AuditError, "writing audit event")
}

func TestPlan_NoRecorderSkipsAudit(t *testing.T) {
	svc := NewPlanningService(nil, nil, nil, DefaultDraftLimits())

	resp, err := svc.Plan(context.Background(), contract.NewPlanRequest("recap the outage"))
	require.NoError(t, err)
	assert.Empty(t, resp.AuditID)
	assert.Empty(t, resp.AuditError)
}

func TestPlan_ObservesUseCase(t *testing.T) {
	obs := &recordingObserver{}
	svc, _ := newPlanningService(t, t.TempDir(), obs)

	_, err := svc.Plan(context.Background(), contract.NewPlanRequest("list employees"))
	require.NoError(t, err)
	_, err = svc.Plan(context.Background(), contract.NewPlanRequest(""))
	require.Error(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "plan", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "QUERY", obs.events[0].Fields["intent"])
	assert.NotContains(t, obs.events[0].Fields, "text")
	assert.False(t, obs.events[1].Success)
}

func TestSlogUseCaseObserver_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "plan", Success: true, Fields: map[string]any{"intent": "QUERY", "audit_id": "audit_1"}})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "plan", Err: &contract.ValidationError{Field: "text", Message: "must not be empty"}})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "plan", Err: errors.New("disk full")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], "use_case=plan")
	assert.Contains(t, lines[0], "audit_id=audit_1 intent=QUERY")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], `error="text: must not be empty"`)
	assert.Contains(t, lines[2], "level=ERROR")
}

func TestNewSlogUseCaseObserver_NilFallsBackToNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}
