package qa_engine

import (
	"strings"
	"unicode/utf8"
)

// SplitSentences splits text on every literal period and keeps the trimmed
// non-empty fragments at least minLen characters long. Abbreviations and decimal numbers
// are split like any other period.
func SplitSentences(text string, minLen int) []string {
	var out []string
	for _, frag := range strings.Split(text, ".") {
		frag = strings.TrimSpace(frag)
		if frag != "" && utf8.RuneCountInString(frag) >= minLen {
			out = append(out, frag)
		}
	}
	return out
}
