package intelligence

import (
	"math"
	"strings"
)

// keywordSet pairs an intent with the substrings that vote for it.
type keywordSet struct {
	intent   Intent
	keywords []string
}

// routingTable is evaluated in slice order. The order doubles as the
// tie-break: the first intent reaching the maximum count wins.
var routingTable = []keywordSet{
	{IntentQuery, []string{"select", "sql", "query", "report", "table", "join", "where", "count", "list"}},
	{IntentValidate, []string{"validate", "check", "verify", "rule", "constraint", "policy", "compliance", "edge case"}},
	{IntentSummarize, []string{"summarize", "summary", "tl;dr", "recap", "shorten"}},
	{IntentExplain, []string{"explain", "why", "how", "walk me through", "reason", "rationale"}},
}

// IntentScore is the keyword tally for a single intent.
type IntentScore struct {
	Intent  Intent   `json:"intent"`
	Hits    int      `json:"hits"`
	Matched []string `json:"matched"`
}

// Scores holds the tally for every routable intent in routing order.
type Scores []IntentScore

// Best returns the winning score. Ties resolve to the earliest entry.
func (s Scores) Best() IntentScore {
	var best IntentScore
	for i, sc := range s {
		if i == 0 || sc.Hits > best.Hits {
			best = sc
		}
	}
	return best
}

// Score tallies keyword hits per intent. A keyword counts once no matter how
// often it occurs, and matching is plain substring containment.
func Score(text string) Scores {
	normalized := normalize(text)
	scores := make(Scores, 0, len(routingTable))
	for _, set := range routingTable {
		sc := IntentScore{Intent: set.intent, Matched: []string{}}
		if normalized != "" {
			for _, kw := range set.keywords {
				if strings.Contains(normalized, kw) {
					sc.Hits++
					sc.Matched = append(sc.Matched, kw)
				}
			}
		}
		scores = append(scores, sc)
	}
	return scores
}

// Route classifies text into an intent. It never fails: blank input yields
// UNKNOWN and input without any keyword defaults to EXPLAIN.
func Route(text string) RouteResult {
	if normalize(text) == "" {
		return RouteResult{Intent: IntentUnknown, Confidence: 0, Rationale: RationaleEmptyInput}
	}

	best := Score(text).Best()
	if best.Hits == 0 {
		return RouteResult{Intent: IntentExplain, Confidence: DefaultConfidence, Rationale: RationaleNoKeywords}
	}

	return RouteResult{
		Intent:     best.Intent,
		Confidence: ConfidenceFor(best.Hits),
		Rationale:  rationaleMatchedPrefix + string(best.Intent),
	}
}

// ConfidenceFor maps a winning keyword count to min(0.95, 0.45 + 0.15*hits),
// rounded to two decimals so repeated sums do not drift (0.9, not 0.8999…).
func ConfidenceFor(hits int) float64 {
	if hits <= 0 {
		return DefaultConfidence
	}
	c := math.Min(MaxConfidence, baseConfidence+perHitConfidence*float64(hits))
	return math.Round(c*confidenceDecimal) / confidenceDecimal
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
