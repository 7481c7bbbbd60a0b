package sqldraft

import (
	"strings"

	"github.com/alexanderramin/opsassist/internal/schema"
)

// tableHint links a word in the request to substrings of table names.
type tableHint struct {
	textHint   string
	tableHints []string
}

// tableHints are tried in order for each table. A table is a candidate when
// any hint present in the request matches its name.
var tableHints = []tableHint{
	{"employee", []string{"employee"}},
	{"department", []string{"department", "dept"}},
	{"time", []string{"time", "labor"}},
}

// chooseTable picks the draft target. Tables are scanned in catalog order and
// the first one matching any hint wins; with no match the first table is
// used. Without a catalog the placeholder table and "*" are returned.
func chooseTable(text string, catalog *schema.Catalog) (string, []string) {
	first, ok := catalog.First()
	if !ok {
		return PlaceholderTable, []string{selectAll}
	}

	t := strings.ToLower(text)
	chosen := first
	for _, tbl := range catalog.Tables() {
		if matchesHint(t, strings.ToLower(tbl.Name)) {
			chosen = tbl
			break
		}
	}

	if len(chosen.Columns) == 0 {
		return chosen.Name, []string{selectAll}
	}
	return chosen.Name, chosen.Columns
}

func matchesHint(text, tableName string) bool {
	for _, h := range tableHints {
		if !strings.Contains(text, h.textHint) {
			continue
		}
		for _, th := range h.tableHints {
			if strings.Contains(tableName, th) {
				return true
			}
		}
	}
	return false
}

// isSensitive reports whether a column name looks like personal data.
func isSensitive(col string) bool {
	c := strings.ToLower(col)
	for _, hint := range sensitiveColumnHints {
		if strings.Contains(c, hint) {
			return true
		}
	}
	return false
}

// selectColumns drops sensitive columns and caps the list. It falls back to
// "*" when nothing is left.
func selectColumns(cols []string) []string {
	if isSelectAll(cols) {
		return []string{selectAll}
	}
	safe := make([]string, 0, len(cols))
	for _, c := range cols {
		if !isSensitive(c) {
			safe = append(safe, c)
		}
	}
	if len(safe) > MaxSelectColumns {
		safe = safe[:MaxSelectColumns]
	}
	if len(safe) == 0 {
		return []string{selectAll}
	}
	return safe
}

func isSelectAll(cols []string) bool {
	return len(cols) == 1 && cols[0] == selectAll
}
