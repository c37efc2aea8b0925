package reconciler

import "regexp"

var sensitivePatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`), "${1}[REDACTED]"},
	{regexp.MustCompile(`(?i)((?:access_)?token[=:]\s*)[^\s&"']+`), "${1}[REDACTED]"},
	{regexp.MustCompile(`\b(?:ghp|gho|ghu|ghs|ghr|github_pat)_[A-Za-z0-9_]+`), "[REDACTED]"},
}

// SanitizeErrorMessage removes credentials from an error message before it
// is logged or exposed through run results.
func SanitizeErrorMessage(msg string) string {
	for _, p := range sensitivePatterns {
		msg = p.re.ReplaceAllString(msg, p.replacement)
	}
	return msg
}
