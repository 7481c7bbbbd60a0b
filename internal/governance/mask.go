package governance

import "regexp"

var (
	rePassword = regexp.MustCompile(`(?i)(password=|passwd=|pwd=)([^\s;&]+)`)
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey   = regexp.MustCompile(`(?i)(apikey=|api_key=)([^\s;&]+)`)
	reDSNPass  = regexp.MustCompile(`(?i)(://)([^:/]+):([^@/]+)(@)`)
)

// MaskSecrets hides credentials in strings headed for logs, such as query
// strings and connection URLs. Personal data is redacted too.
func MaskSecrets(s string) string {
	out := rePassword.ReplaceAllString(s, "${1}***")
	out = reToken.ReplaceAllString(out, "${1}***")
	out = reAPIKey.ReplaceAllString(out, "${1}***")
	out = reDSNPass.ReplaceAllString(out, "${1}*:*${4}")
	return Redact(out).RedactedText
}
