package sqldraft

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsassist/internal/schema"
)

const selectListSeparator = ",\n    "

// Draft renders a read-only query for text. catalog may be nil; schemaRef is
// quoted verbatim in the assumptions when non-empty. topN is used as given.
func Draft(text string, topN int, catalog *schema.Catalog, schemaRef string) *SQLPlan {
	table, cols := chooseTable(text, catalog)

	selected := selectColumns(cols)
	where := ""
	if !isSelectAll(cols) {
		where = buildWhere(text, cols)
	}

	return &SQLPlan{
		Dialect:             DialectSQLServer,
		Query:               render(topN, selected, table, where),
		Assumptions:         assumptions(topN, schemaRef),
		SafetyNotes:         safetyNotes(topN),
		SuggestedNextInputs: suggestedNextInputs(),
	}
}

func render(topN int, cols []string, table, where string) string {
	q := fmt.Sprintf("SELECT TOP (%d)\n    %s\nFROM %s\n%s\n;",
		topN, strings.Join(cols, selectListSeparator), table, where)
	return strings.TrimSpace(q)
}

func assumptions(topN int, schemaRef string) []string {
	out := []string{
		"This is a draft SQL Server query intended for review (not execution).",
		fmt.Sprintf("Row limiting is applied by default (TOP %d) as a guardrail.", topN),
	}
	if schemaRef != "" {
		return append(out, "Schema guidance loaded from: "+schemaRef)
	}
	return append(out, "No schema file provided; table/columns may be placeholders.")
}

func safetyNotes(topN int) []string {
	return []string{
		fmt.Sprintf("Read-only SELECT query with TOP (%d) row limit applied.", topN),
		"Avoid selecting sensitive columns (SSN, passwords, personal contact info).",
		"Confirm indexing and filters before running against production tables.",
	}
}

func suggestedNextInputs() []string {
	return []string{
		"Confirm the correct table(s) and key columns for your environment.",
		"Provide exact status codes and date fields used in your system.",
		"Specify ordering and expected row volume (for performance planning).",
	}
}

// Engine drafts queries for requests that reference a schema file.
type Engine struct {
	loader schema.Loader
}

// NewEngine returns an Engine resolving schema paths through loader. A nil
// loader reads files directly.
func NewEngine(loader schema.Loader) *Engine {
	if loader == nil {
		loader = schema.FileLoader{}
	}
	return &Engine{loader: loader}
}

// DraftFromPath loads the schema at schemaPath (if any) and drafts a query.
// A schema that cannot be loaded is an error; an empty path is not.
func (e *Engine) DraftFromPath(text string, topN int, schemaPath string) (*SQLPlan, error) {
	if schemaPath == "" {
		return Draft(text, topN, nil, ""), nil
	}
	catalog, err := e.loader.Load(schemaPath)
	if err != nil {
		return nil, err
	}
	return Draft(text, topN, catalog, schemaPath), nil
}
