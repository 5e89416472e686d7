package paginator

import "unicode/utf8"

// PageInfo summarises one page of a paginated text.
type PageInfo struct {
	Index     int    `json:"index"`
	Length    int    `json:"length"`
	LineCount int    `json:"line_count"`
	FirstLine string `json:"first_line"`
	LastLine  string `json:"last_line"`
}

// Describe reports length and line information for each page, in order.
func Describe(pages []string) []PageInfo {
	infos := make([]PageInfo, len(pages))
	for i, page := range pages {
		lines := Lines(page)
		infos[i] = PageInfo{
			Index:     i,
			Length:    utf8.RuneCountInString(page),
			LineCount: len(lines),
			FirstLine: lines[0],
			LastLine:  lines[len(lines)-1],
		}
	}
	return infos
}
