package ingestion_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t \r\n ", ""},
		{"newlines become spaces", "first line\nsecond line", "first line second line"},
		{"runs collapse", "a   b\t\tc\n\n\nd", "a b c d"},
		{"trimmed", "   padded text   ", "padded text"},
		{"already clean", "The capital of France is Paris.", "The capital of France is Paris."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello   world.\nThis is\ta test.  ",
		"\n\nPage one text.\r\nPage two text.\n",
		"unicode space and   tabs\t\there",
	}
	for _, in := range inputs {
		once := CleanText(in)
		assert.Equal(t, once, CleanText(once), "input %q", in)
	}
}
