// Package sqldraft produces guarded, read-only SQL Server drafts for review.
// Drafts are never executed; the generator only knows how to emit a single
// row-limited SELECT statement.
package sqldraft

// DialectSQLServer is the only dialect drafts are written in.
const DialectSQLServer = "sqlserver"

// DefaultTopN is the row limit applied when the caller does not pick one.
const DefaultTopN = 100

// MaxSelectColumns caps the explicit select list.
const MaxSelectColumns = 12

// PlaceholderTable is used when no schema guidance is available.
const PlaceholderTable = "dbo.YourTable"

const selectAll = "*"

// sensitiveColumnHints mark columns that are never selected. Read-only after
// init.
var sensitiveColumnHints = []string{
	"password", "passwd", "ssn", "social", "dob", "birth", "email", "mail", "phone", "mobile",
}

// SQLPlan is a drafted query plus the notes a reviewer needs to judge it.
type SQLPlan struct {
	Dialect             string   `json:"dialect"`
	Query               string   `json:"query"`
	Assumptions         []string `json:"assumptions"`
	SafetyNotes         []string `json:"safety_notes"`
	SuggestedNextInputs []string `json:"suggested_next_inputs"`
}
