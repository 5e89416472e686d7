package paginator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		page string
		want []string
	}{
		{"single line", "one line of text", []string{"one line of text"}},
		{"empty", "", []string{""}},
		{"line breaks", "a\nb\nc", []string{"a", "b", "c"}},
		{"paragraph break", "a\nb\n\nc", []string{"a", "b", "c"}},
		{"whitespace around breaks", "a  \r\n  b", []string{"a", "b"}},
		{"blank line with spaces", "first\n   \n\nsecond", []string{"first", "second"}},
		{"crlf paragraphs", "one\r\n\r\ntwo\r\nthree", []string{"one", "two", "three"}},
		{"leading break", "\n\nabc", []string{"", "abc"}},
		{"no-break space before break", "long line\u00a0\nnext", []string{"long line", "next"}},
		{"unicode spaces around paragraph", "a\u2003\n\n\u3000b", []string{"a", "b"}},
		{"vertical tab and NEL", "a\v\n\u0085b", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines(tt.page))
		})
	}
}

func TestLinesRoundTrip(t *testing.T) {
	page := "  the first line\nthe second line\nthird  "
	assert.Equal(t, strings.TrimSpace(page), strings.Join(Lines(strings.TrimSpace(page)), "\n"))
}
