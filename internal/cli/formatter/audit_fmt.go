package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/domain"
)

// FormatAuditList renders ledger entries newest first.
func FormatAuditList(entries []*domain.AuditEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No audit records yet.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.EventID,
			RelativeDateFrom(e.RecordedAt, now),
			IntentStyle(e.Intent).Render(e.Intent),
			Confidence(e.Confidence),
			e.OutputFormat,
			YesNo(e.HasSQL),
			YesNo(e.PotentialPII),
		})
	}
	return RenderTable([]string{"EVENT", "RECORDED", "INTENT", "CONF", "FORMAT", "SQL", "PII"}, rows)
}

// FormatAuditRecord renders one ledger entry and, when readable, the record
// file behind it.
func FormatAuditRecord(rec *contract.AuditRecord) string {
	var b strings.Builder
	e := rec.Entry

	b.WriteString(Header("Audit "+e.EventID) + "\n")
	kv(&b, "Recorded", e.RecordedAt.UTC().Format(time.RFC3339))
	kv(&b, "Intent", fmt.Sprintf("%s (confidence=%s)", IntentStyle(e.Intent).Render(e.Intent), Confidence(e.Confidence)))
	kv(&b, "Output format", e.OutputFormat)
	kv(&b, "File", e.FilePath)
	if e.SchemaPath != "" {
		kv(&b, "Schema", e.SchemaPath)
	}
	kv(&b, "Redactions", fmt.Sprintf("%d", e.RedactionCount))

	if rec.Record == nil {
		fmt.Fprintf(&b, "\n%s %s\n", StyleRed.Render("Record unavailable:"), rec.RecordError)
		return b.String()
	}

	r := rec.Record
	fmt.Fprintf(&b, "\n%s\n  %s\n", StyleHeader.Render("Redacted input:"), r.RedactedInput)
	if r.Plan != nil {
		if len(r.Plan.RiskFlags) > 0 {
			kv(&b, "Risk flags", StyleRed.Render(strings.Join(r.Plan.RiskFlags, ", ")))
		}
		section(&b, "Steps:", r.Plan.Steps)
	}
	if r.SQL != nil {
		b.WriteString("\n")
		b.WriteString(RenderBox("SQL draft ("+r.SQL.Dialect+")", r.SQL.Query))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatIntentTallies renders how often each intent has been recorded.
func FormatIntentTallies(tallies []domain.IntentTally, now time.Time) string {
	if len(tallies) == 0 {
		return Dim("No audit records yet.") + "\n"
	}
	total := 0
	for _, t := range tallies {
		total += t.Total
	}
	rows := make([][]string, 0, len(tallies))
	for _, t := range tallies {
		share := float64(t.Total) / float64(total)
		rows = append(rows, []string{
			IntentStyle(t.Intent).Render(t.Intent),
			fmt.Sprintf("%d", t.Total),
			ShareBar(share, 10),
			RelativeDateFrom(t.LastSeen, now),
		})
	}
	return RenderTable([]string{"INTENT", "TOTAL", "SHARE", "LAST SEEN"}, rows)
}

func kv(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s %s\n", Bold(key+":"), value)
}
