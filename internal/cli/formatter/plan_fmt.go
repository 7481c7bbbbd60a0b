package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/alexanderramin/opsassist/internal/sqldraft"
)

// FormatPlan renders a plan response for the terminal. Audit details are
// left to the caller since they go to different streams.
func FormatPlan(resp *contract.PlanResponse) string {
	var b strings.Builder
	plan := resp.Plan
	intent := plan.Intent

	fmt.Fprintf(&b, "\n%s %s (confidence=%s)\n",
		Bold("Intent:"),
		IntentStyle(intent).Render(intent),
		ConfidenceStyle(plan.Confidence).Render(Confidence(plan.Confidence)))
	b.WriteString(Dim(resp.Route.Rationale) + "\n")
	if len(plan.RiskFlags) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Bold("Risk flags:"), StyleRed.Render(strings.Join(plan.RiskFlags, ", ")))
	}

	section(&b, "Assumptions:", plan.Assumptions)
	section(&b, "Steps:", plan.Steps)
	if len(plan.RequiredInputs) > 0 {
		section(&b, "Required inputs:", plan.RequiredInputs)
	}
	fmt.Fprintf(&b, "\n%s %s\n", Bold("Output format:"), plan.OutputFormat)

	if resp.SQL != nil {
		b.WriteString("\n")
		b.WriteString(FormatSQL(resp.SQL))
	}
	return b.String()
}

// FormatSQL renders a drafted query in a box followed by its review notes.
func FormatSQL(sql *sqldraft.SQLPlan) string {
	var b strings.Builder
	b.WriteString(RenderBox("SQL draft ("+sql.Dialect+")", sql.Query))
	b.WriteString("\n")
	section(&b, "SQL assumptions:", sql.Assumptions)
	section(&b, "Safety notes:", sql.SafetyNotes)
	section(&b, "Suggested next inputs:", sql.SuggestedNextInputs)
	return b.String()
}

// FormatRouteScores renders the per-intent keyword tally behind a route.
func FormatRouteScores(scores intelligence.Scores) string {
	best := scores.Best()
	rows := make([][]string, 0, len(scores))
	for _, sc := range scores {
		name := string(sc.Intent)
		if sc.Hits > 0 && sc.Intent == best.Intent {
			name = IntentStyle(name).Render(name + " *")
		}
		matched := strings.Join(sc.Matched, ", ")
		if matched == "" {
			matched = Dim("-")
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", sc.Hits), matched})
	}
	return "\n" + Header("Route scores") + "\n" + RenderTable([]string{"INTENT", "HITS", "MATCHED"}, rows)
}

func section(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n%s\n", StyleHeader.Render(title))
	b.WriteString(Bullets(items))
}
