package governance

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_SSN(t *testing.T) {
	got := Redact("my ssn is 123-45-6789")

	assert.Equal(t, "my ssn is [REDACTED_SSN]", got.RedactedText)
	assert.Equal(t, Counts{SSN: 1}, got.Counts)
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		counts Counts
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "nothing to redact",
			input: "list active employees",
			want:  "list active employees",
		},
		{
			name:   "email is case-insensitive",
			input:  "send to Jane.Doe@Example.COM please",
			want:   "send to [REDACTED_EMAIL] please",
			counts: Counts{Email: 1},
		},
		{
			name:   "dashed phone",
			input:  "call 555-123-4567 today",
			want:   "call [REDACTED_PHONE] today",
			counts: Counts{Phone: 1},
		},
		{
			name:   "dotted and bare phones",
			input:  "555.123.4567 or 5551234567",
			want:   "[REDACTED_PHONE] or [REDACTED_PHONE]",
			counts: Counts{Phone: 2},
		},
		{
			name:   "digits inside an email are not counted as a phone",
			input:  "user5551234567@corp.io",
			want:   "[REDACTED_EMAIL]",
			counts: Counts{Email: 1},
		},
		{
			name:   "all categories",
			input:  "a@b.co, 555-123-4567, 123-45-6789",
			want:   "[REDACTED_EMAIL], [REDACTED_PHONE], [REDACTED_SSN]",
			counts: Counts{Email: 1, Phone: 1, SSN: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Redact(tt.input)
			assert.Equal(t, tt.want, got.RedactedText)
			assert.Equal(t, tt.counts, got.Counts)
		})
	}
}

func TestRedact_Idempotent(t *testing.T) {
	first := Redact("reach me at ops@corp.com or 555-123-4567, ssn 123-45-6789")
	second := Redact(first.RedactedText)

	assert.Equal(t, first.RedactedText, second.RedactedText)
	assert.Zero(t, second.Counts.Total())
}

func TestCounts_JSON(t *testing.T) {
	data, err := json.Marshal(Counts{Email: 2, SSN: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":2,"phone":0,"ssn":1}`, string(data))
}

func TestPatternRedactor(t *testing.T) {
	r := NewPatternRedactor("digits", regexp.MustCompile(`\d+`), "[N]")

	out, n := r.Redact("a1 b22 c")
	assert.Equal(t, "a[N] b[N] c", out)
	assert.Equal(t, 2, n)
	assert.Equal(t, "digits", r.Name())

	out, n = r.Redact("none")
	assert.Equal(t, "none", out)
	assert.Zero(t, n)
}

func TestScrubber_CustomChain(t *testing.T) {
	s := NewScrubber(NewPatternRedactor(CategorySSN, ssnPattern, TokenSSN))

	got := s.Redact("a@b.co 123-45-6789")

	assert.Equal(t, "a@b.co [REDACTED_SSN]", got.RedactedText)
	assert.Equal(t, Counts{SSN: 1}, got.Counts)
}

func TestMaskSecrets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"password param", "user=bob&password=hunter2&x=1", "user=bob&password=***&x=1"},
		{"bearer token", "Authorization: Bearer abc.def-123", "Authorization: Bearer ***"},
		{"token param", "token=s3cr3t", "token=***"},
		{"api key", "api_key=xyz;", "api_key=***;"},
		{"dsn", "postgres://admin:pw@db:5432/app", "postgres://*:*@db:5432/app"},
		{"pii is redacted too", "limit=5&email=ops@corp.com", "limit=5&email=[REDACTED_EMAIL]"},
		{"clean", "limit=20", "limit=20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskSecrets(tt.input))
		})
	}
}
