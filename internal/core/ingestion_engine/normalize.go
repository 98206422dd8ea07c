package ingestion_engine

import "strings"

// CleanText replaces newlines with spaces and collapses every whitespace run
// into a single space. Leading and trailing whitespace is dropped.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.Join(strings.Fields(text), " ")
}
