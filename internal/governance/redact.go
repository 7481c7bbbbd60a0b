// Package governance scrubs personal data from request text before it is
// persisted or logged.
package governance

import "regexp"

// Category names double as the JSON keys of Counts.
const (
	CategoryEmail = "email"
	CategoryPhone = "phone"
	CategorySSN   = "ssn"
)

// Replacement tokens written in place of redacted matches.
const (
	TokenEmail = "[REDACTED_EMAIL]"
	TokenPhone = "[REDACTED_PHONE]"
	TokenSSN   = "[REDACTED_SSN]"
)

var (
	emailPattern = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b(\+?1[-.\s]?)?(\(?\d{3}\)?[-.\s]?)\d{3}[-.\s]?\d{4}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

// Redactor replaces sensitive substrings in text.
type Redactor interface {
	// Redact returns input with every match replaced and the number of matches.
	Redact(input string) (string, int)
	// Name identifies the category the redactor covers.
	Name() string
}

// PatternRedactor redacts text matching a regular expression.
type PatternRedactor struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

// NewPatternRedactor creates a pattern-based redactor.
func NewPatternRedactor(name string, pattern *regexp.Regexp, replace string) *PatternRedactor {
	return &PatternRedactor{name: name, pattern: pattern, replace: replace}
}

func (r *PatternRedactor) Redact(input string) (string, int) {
	n := len(r.pattern.FindAllStringIndex(input, -1))
	if n == 0 {
		return input, 0
	}
	return r.pattern.ReplaceAllLiteralString(input, r.replace), n
}

func (r *PatternRedactor) Name() string {
	return r.name
}

// DefaultRedactors returns the built-in redactors in the order they must run.
// Email goes first so the phone pattern never sees digits inside an address.
func DefaultRedactors() []Redactor {
	return []Redactor{
		NewPatternRedactor(CategoryEmail, emailPattern, TokenEmail),
		NewPatternRedactor(CategoryPhone, phonePattern, TokenPhone),
		NewPatternRedactor(CategorySSN, ssnPattern, TokenSSN),
	}
}

// Counts records how many matches each category replaced.
type Counts struct {
	Email int `json:"email"`
	Phone int `json:"phone"`
	SSN   int `json:"ssn"`
}

// Total is the number of replacements across all categories.
func (c Counts) Total() int {
	return c.Email + c.Phone + c.SSN
}

func (c *Counts) add(category string, n int) {
	switch category {
	case CategoryEmail:
		c.Email += n
	case CategoryPhone:
		c.Phone += n
	case CategorySSN:
		c.SSN += n
	}
}

// Result is the scrubbed text plus per-category counts.
type Result struct {
	RedactedText string `json:"redacted_text"`
	Counts       Counts `json:"redaction_counts"`
}

// Scrubber runs a fixed chain of redactors.
type Scrubber struct {
	redactors []Redactor
}

// NewScrubber chains redactors in the given order. With none, the defaults
// are used.
func NewScrubber(redactors ...Redactor) *Scrubber {
	if len(redactors) == 0 {
		redactors = DefaultRedactors()
	}
	return &Scrubber{redactors: redactors}
}

// Redact applies each redactor in turn to the output of the previous one.
func (s *Scrubber) Redact(text string) Result {
	out := text
	var counts Counts
	for _, r := range s.redactors {
		var n int
		out, n = r.Redact(out)
		counts.add(r.Name(), n)
	}
	return Result{RedactedText: out, Counts: counts}
}

var defaultScrubber = NewScrubber()

// Redact scrubs text with the default redactors.
func Redact(text string) Result {
	return defaultScrubber.Redact(text)
}
