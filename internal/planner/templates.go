package planner

import "github.com/alexanderramin/opsassist/internal/intelligence"

// Output formats, one per template.
const (
	FormatSQLPlan          = "sql_plan"
	FormatValidationReport = "validation_report"
	FormatSummary          = "summary"
	FormatExplanation      = "explanation"
)

type template struct {
	assumptions    []string
	steps          []string
	requiredInputs []string
	outputFormat   string
}

// Template wording is consumed downstream; change it only deliberately.
var (
	queryTemplate = template{
		assumptions: []string{
			"User intends to generate a SQL query plan (not execute it).",
			"Target schema/tables are not provided yet.",
			"Output should be safe-by-default (read-only).",
		},
		requiredInputs: []string{
			"Database type (e.g., SQL Server, Postgres, Oracle)",
			"Table names and key columns",
			"Desired filters and timeframe",
		},
		steps: []string{
			"Confirm data source and schema constraints.",
			"Draft a read-only SQL query with explicit joins/filters.",
			"Add guardrails (limit rows, avoid sensitive columns).",
			"Return query + explanation + assumptions.",
		},
		outputFormat: FormatSQLPlan,
	}

	validateTemplate = template{
		assumptions: []string{
			"User wants to validate business rules or constraints.",
			"System context may be partial; clarify missing inputs.",
		},
		requiredInputs: []string{
			"Rules/constraints in a structured form (or examples)",
			"Edge cases or known failures (if any)",
		},
		steps: []string{
			"Extract rules and define them in a consistent schema.",
			"Check for contradictions and missing branches.",
			"Propose targeted test cases for risk areas.",
			"Return a structured risk report + next actions.",
		},
		outputFormat: FormatValidationReport,
	}

	summarizeTemplate = template{
		assumptions: []string{
			"User wants a concise summary faithful to the input content.",
			"No external facts will be introduced.",
		},
		requiredInputs: []string{"Text to summarize", "Preferred length (optional)"},
		steps: []string{
			"Identify key points and outcomes.",
			"Condense into a clear, structured summary.",
			"Return summary with optional bullet highlights.",
		},
		outputFormat: FormatSummary,
	}

	explainTemplate = template{
		assumptions: []string{
			"User wants an explanation or reasoning-oriented response.",
			"We will state assumptions explicitly when context is missing.",
		},
		requiredInputs: []string{"Any relevant context or constraints (optional)"},
		steps: []string{
			"Clarify the goal and constraints.",
			"Explain the concept with concrete examples.",
			"Provide next-step actions or checks.",
		},
		outputFormat: FormatExplanation,
	}
)

func templateFor(intent intelligence.Intent) template {
	switch intent {
	case intelligence.IntentQuery:
		return queryTemplate
	case intelligence.IntentValidate:
		return validateTemplate
	case intelligence.IntentSummarize:
		return summarizeTemplate
	case intelligence.IntentExplain, intelligence.IntentUnknown:
		return explainTemplate
	default:
		return explainTemplate
	}
}
