package paginator

import (
	"strings"
	"unicode/utf8"
)

// Rebalance corrects the boundary between two consecutive pages. When the
// last line of page1 is shorter than OrphanLength it is prepended to the
// first line of page2. Otherwise, when the first line of page2 is shorter
// than WidowLength, it is appended to the last line of page1. At most one
// merge happens. Both pages come back trimmed with lines joined by "\n"; a
// page whose only line was moved comes back empty.
func (p *Paginator) Rebalance(page1, page2 string) (string, string) {
	page1 = strings.TrimSpace(page1)
	page2 = strings.TrimSpace(page2)

	lines1 := Lines(page1)
	lines2 := Lines(page2)
	if len(lines1) == 0 || len(lines2) == 0 {
		return page1, page2
	}

	orphan := lines1[len(lines1)-1]
	widow := lines2[0]
	if orphan != "" && widow != "" {
		switch {
		case utf8.RuneCountInString(orphan) < p.cfg.OrphanLength:
			lines2[0] = orphan + " " + lines2[0]
			lines1 = lines1[:len(lines1)-1]
			p.corrected(CorrectionOrphan, orphan)
		case utf8.RuneCountInString(widow) < p.cfg.WidowLength:
			lines1[len(lines1)-1] = orphan + " " + widow
			lines2 = lines2[1:]
			p.corrected(CorrectionWidow, widow)
		}
	}

	return strings.Join(lines1, "\n"), strings.Join(lines2, "\n")
}

func (p *Paginator) corrected(kind CorrectionKind, line string) {
	p.log.Debug("page boundary corrected", "kind", string(kind), "line", line, "length", utf8.RuneCountInString(line))
	if p.observe != nil {
		p.observe(Correction{Kind: kind, Line: line})
	}
}
