package sqldraft

import (
	"fmt"
	"strings"
)

var (
	statusColumnNames = []string{"status", "empstatus", "empl_status"}
	dateColumnNames   = []string{"CreatedDate", "CreateDate", "HireDate", "EffectiveDate", "EFFDT"}
	recentWindowHints = []string{"last 90 days", "past 90 days"}
)

// buildWhere synthesizes filter clauses from recognized phrases. It returns
// "" when no phrase applies.
func buildWhere(text string, cols []string) string {
	t := strings.ToLower(text)
	var clauses []string

	if strings.Contains(t, "active") {
		if col, ok := statusColumn(cols); ok {
			clauses = append(clauses, fmt.Sprintf("%s = 'ACTIVE'", col))
		}
	}

	if containsAny(t, recentWindowHints) {
		if col, ok := dateColumn(cols); ok {
			clauses = append(clauses, fmt.Sprintf("%s >= DATEADD(DAY, -90, GETDATE())", col))
		}
	}

	if len(clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(clauses, " AND ")
}

func statusColumn(cols []string) (string, bool) {
	for _, c := range cols {
		lc := strings.ToLower(c)
		for _, name := range statusColumnNames {
			if lc == name {
				return c, true
			}
		}
	}
	return "", false
}

// dateColumn prefers well-known names (exact match, in priority order) and
// otherwise takes the first column mentioning "date".
func dateColumn(cols []string) (string, bool) {
	for _, preferred := range dateColumnNames {
		for _, c := range cols {
			if c == preferred {
				return c, true
			}
		}
	}
	for _, c := range cols {
		if strings.Contains(strings.ToLower(c), "date") {
			return c, true
		}
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
