package summary

import (
	"regexp"
	"strings"
)

// The whitelist spans letters and digits in any script; \w would limit the
// input to ASCII and strip non-English text entirely.
var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:'"()\[\]{}@#$%&*+=/-]`)
)

// Preprocess collapses whitespace runs to single spaces, strips characters
// outside the whitelist and trims the result. Degenerate input yields an
// empty string; the caller rejects it via the length check.
func Preprocess(raw string) string {
	cleaned := whitespaceRun.ReplaceAllString(raw, " ")
	cleaned = disallowed.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
