package app

import (
	"regexp"
	"strings"
)

// Span attributes should stay readable; long document upserts are cut off.
const tracedQueryLimit = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace collapses a SQL statement to a single line capped at
// tracedQueryLimit characters, for use as the otelsql query formatter.
func formatDBQueryForTrace(query string) string {
	flat := collapseWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(flat) > tracedQueryLimit {
		return flat[:tracedQueryLimit] + "..."
	}
	return flat
}
