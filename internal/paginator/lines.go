package paginator

import "regexp"

// space matches the runes unicode.IsSpace reports, which RE2's \s does not
// cover beyond ASCII.
const space = `[\s\v\x{85}\p{Z}]*`

var (
	paragraphBreak = regexp.MustCompile(space + `[\r\n]{2,}` + space)
	lineBreak      = regexp.MustCompile(space + `[\r\n]+` + space)
)

// Lines splits a page into paragraphs on runs of two or more line breaks and
// each paragraph into lines on the remaining breaks. Paragraph boundaries are
// not kept. A page without line breaks is a single line.
func Lines(page string) []string {
	var lines []string
	for _, para := range paragraphBreak.Split(page, -1) {
		lines = append(lines, lineBreak.Split(para, -1)...)
	}
	return lines
}
