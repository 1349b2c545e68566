package app

import "strings"

const maxTracedQueryLen = 512

// formatDBQueryForTrace flattens whitespace and caps the length so the query
// stays readable as a span attribute.
func formatDBQueryForTrace(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > maxTracedQueryLen {
		return flat[:maxTracedQueryLen] + "..."
	}
	return flat
}
