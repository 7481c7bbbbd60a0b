package intelligence

// Intent is the classified purpose of a request. The set is closed; every
// switch over Intent must handle all five values.
type Intent string

const (
	IntentQuery     Intent = "QUERY"
	IntentValidate  Intent = "VALIDATE"
	IntentSummarize Intent = "SUMMARIZE"
	IntentExplain   Intent = "EXPLAIN"
	IntentUnknown   Intent = "UNKNOWN"
)

// AllIntents lists every intent, routable ones first in tie-break order.
var AllIntents = []Intent{IntentQuery, IntentValidate, IntentSummarize, IntentExplain, IntentUnknown}

// IsValid reports whether i is one of the known intents.
func (i Intent) IsValid() bool {
	switch i {
	case IntentQuery, IntentValidate, IntentSummarize, IntentExplain, IntentUnknown:
		return true
	default:
		return false
	}
}

func (i Intent) String() string { return string(i) }

// RouteResult is the outcome of routing one request. Rationale is part of the
// contract and is shown to reviewers verbatim.
type RouteResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

const (
	RationaleEmptyInput    = "Empty input"
	RationaleNoKeywords    = "No explicit keywords matched; defaulting to EXPLAIN"
	rationaleMatchedPrefix = "Matched keywords for "
)

const (
	// DefaultConfidence is reported when no keyword matched.
	DefaultConfidence = 0.35
	// MaxConfidence caps every routed result.
	MaxConfidence = 0.95

	baseConfidence    = 0.45
	perHitConfidence  = 0.15
	confidenceDecimal = 100
)
