package providers

import (
	"strings"
)

// responseSnippet returns a truncated snippet of the response body for error messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// collapseSpace trims s and folds every whitespace run into a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstNonEmpty returns the first non-empty string from the given values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
