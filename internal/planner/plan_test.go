package planner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testBuilder() *Builder {
	return NewBuilder(
		WithClock(func() time.Time { return fixedNow }),
		WithIDFunc(func() string { return "plan_test" }),
	)
}

func TestBuild_TemplatePerIntent(t *testing.T) {
	tests := []struct {
		intent       intelligence.Intent
		format       string
		firstStep    string
		inputsLength int
	}{
		{intelligence.IntentQuery, FormatSQLPlan, "Confirm data source and schema constraints.", 3},
		{intelligence.IntentValidate, FormatValidationReport, "Extract rules and define them in a consistent schema.", 2},
		{intelligence.IntentSummarize, FormatSummary, "Identify key points and outcomes.", 2},
		{intelligence.IntentExplain, FormatExplanation, "Clarify the goal and constraints.", 1},
		{intelligence.IntentUnknown, FormatExplanation, "Clarify the goal and constraints.", 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			plan := testBuilder().Build(intelligence.RouteResult{Intent: tt.intent, Confidence: 0.6}, "anything")

			assert.Equal(t, tt.format, plan.OutputFormat)
			assert.Equal(t, string(tt.intent), plan.Intent)
			assert.Equal(t, 0.6, plan.Confidence)
			require.NotEmpty(t, plan.Steps)
			assert.Equal(t, tt.firstStep, plan.Steps[0])
			assert.Len(t, plan.RequiredInputs, tt.inputsLength)
		})
	}
}

func TestBuild_QueryTemplateWording(t *testing.T) {
	plan := testBuilder().Build(intelligence.RouteResult{Intent: intelligence.IntentQuery, Confidence: 0.9}, "sql")

	assert.Equal(t, []string{
		"User intends to generate a SQL query plan (not execute it).",
		"Target schema/tables are not provided yet.",
		"Output should be safe-by-default (read-only).",
	}, plan.Assumptions)
	assert.Equal(t, []string{
		"Database type (e.g., SQL Server, Postgres, Oracle)",
		"Table names and key columns",
		"Desired filters and timeframe",
	}, plan.RequiredInputs)
	assert.Len(t, plan.Steps, 4)
}

func TestBuild_PotentialPIIFlag(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"my ssn is 123-45-6789", true},
		{"Reset the PASSWORD policy", true},
		{"list employees by Date Of Birth", true},
		{"dob and ssn and password", true},
		{"summarize the quarterly report", false},
	}
	for _, tt := range tests {
		plan := testBuilder().Build(intelligence.Route(tt.text), tt.text)
		assert.Equal(t, tt.want, plan.HasRisk(RiskPotentialPII), tt.text)
		if tt.want {
			assert.Equal(t, []string{RiskPotentialPII}, plan.RiskFlags, "flag is raised once")
		} else {
			assert.Empty(t, plan.RiskFlags)
		}
	}
}

func TestBuild_StampsIDAndTime(t *testing.T) {
	plan := testBuilder().Build(intelligence.Route("why"), "why")
	assert.Equal(t, "plan_test", plan.PlanID)
	assert.Equal(t, fixedNow, plan.CreatedAt)
}

func TestBuild_DefaultIDsAreUnique(t *testing.T) {
	b := NewBuilder()
	seen := make(map[string]bool)
	for range 100 {
		plan := b.Build(intelligence.Route("sql"), "sql")
		assert.Regexp(t, `^plan_[0-9a-f-]{36}$`, plan.PlanID)
		assert.False(t, seen[plan.PlanID])
		seen[plan.PlanID] = true
	}
}

func TestBuild_TemplatesAreNotShared(t *testing.T) {
	first := testBuilder().Build(intelligence.Route("sql"), "sql")
	first.Steps[0] = "mutated"

	second := testBuilder().Build(intelligence.Route("sql"), "sql")
	assert.Equal(t, "Confirm data source and schema constraints.", second.Steps[0])
}

func TestPlan_JSONRoundTrip(t *testing.T) {
	plan := testBuilder().Build(intelligence.Route("my ssn, explain why"), "my ssn, explain why")

	data, err := json.Marshal(plan)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"plan_id", "created_at", "intent", "confidence", "assumptions", "steps", "required_inputs", "risk_flags", "output_format"} {
		assert.Contains(t, raw, key)
	}

	var decoded Plan
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *plan, decoded)
}

func TestPlan_EmptyRiskFlagsSerializeAsList(t *testing.T) {
	plan := testBuilder().Build(intelligence.Route("recap"), "recap")
	data, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"risk_flags":[]`)
}
