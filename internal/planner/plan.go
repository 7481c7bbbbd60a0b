// Package planner turns a routing decision into a reviewable plan artifact.
package planner

import (
	"strings"
	"time"

	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/google/uuid"
)

// RiskPotentialPII is raised when the request mentions identity data.
const RiskPotentialPII = "POTENTIAL_PII"

// piiHints trigger RiskPotentialPII on substring match against lowercase text.
var piiHints = []string{"ssn", "social security", "password", "dob", "date of birth"}

// Plan is the structured artifact handed to a human reviewer.
type Plan struct {
	PlanID         string    `json:"plan_id"`
	CreatedAt      time.Time `json:"created_at"`
	Intent         string    `json:"intent"`
	Confidence     float64   `json:"confidence"`
	Assumptions    []string  `json:"assumptions"`
	Steps          []string  `json:"steps"`
	RequiredInputs []string  `json:"required_inputs"`
	RiskFlags      []string  `json:"risk_flags"`
	OutputFormat   string    `json:"output_format"`
}

// HasRisk reports whether flag was raised for this plan.
func (p *Plan) HasRisk(flag string) bool {
	for _, f := range p.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Builder assembles plans. The zero value is not usable; call NewBuilder.
type Builder struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDFunc overrides plan id generation.
func WithIDFunc(fn func() string) Option {
	return func(b *Builder) { b.newID = fn }
}

// NewBuilder returns a Builder stamping plans with UTC time and UUIDv7 ids.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewPlanID,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewPlanID returns a time-ordered, collision-resistant plan identifier.
func NewPlanID() string {
	return "plan_" + uuid.Must(uuid.NewV7()).String()
}

// Build maps a route onto its fixed template. Only PlanID and CreatedAt vary
// between calls with identical inputs.
func (b *Builder) Build(route intelligence.RouteResult, text string) *Plan {
	tmpl := templateFor(route.Intent)

	return &Plan{
		PlanID:         b.newID(),
		CreatedAt:      b.now(),
		Intent:         string(route.Intent),
		Confidence:     route.Confidence,
		Assumptions:    clone(tmpl.assumptions),
		Steps:          clone(tmpl.steps),
		RequiredInputs: clone(tmpl.requiredInputs),
		RiskFlags:      riskFlags(text),
		OutputFormat:   tmpl.outputFormat,
	}
}

func riskFlags(text string) []string {
	lowered := strings.ToLower(text)
	for _, hint := range piiHints {
		if strings.Contains(lowered, hint) {
			return []string{RiskPotentialPII}
		}
	}
	return []string{}
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
