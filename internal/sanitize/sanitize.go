// Package sanitize performs the one textual repair applied to JSON input
// before parsing: dropping trailing commas.
package sanitize

import (
	"regexp"
	"strings"
)

// reTrailingComma matches a comma followed by optional whitespace and a
// closing brace or bracket. It does not know about string literals, so a
// string ending in ",}" is rewritten too.
var reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// Sanitize removes commas that directly precede a closing '}' or ']' and a
// single comma left at the very end of the trimmed text. Anything else is
// returned unchanged.
func Sanitize(text string) string {
	out := reTrailingComma.ReplaceAllString(text, "$1")
	trimmed := strings.TrimSpace(out)
	if strings.HasSuffix(trimmed, ",") {
		return trimmed[:len(trimmed)-1]
	}
	return out
}
