package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// normalizeQuery lower-cases a query, turns punctuation into spaces and
// collapses whitespace. Used for cache keys, never for extraction.
func normalizeQuery(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// isBlankQuery reports whether a query has no visible characters
func isBlankQuery(s string) bool {
	return strings.TrimSpace(s) == ""
}
