// Package paginator splits long texts into page-sized chunks at whitespace
// boundaries and corrects widows and orphans between adjacent pages.
package paginator

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CorrectionKind names the merge applied at a page boundary.
type CorrectionKind string

const (
	CorrectionOrphan CorrectionKind = "orphan"
	CorrectionWidow  CorrectionKind = "widow"
)

// Correction describes a single widow or orphan merge.
type Correction struct {
	Kind CorrectionKind
	// Line is the short line that was moved.
	Line string
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithLogger sets the logger that receives a debug record for every correction.
func WithLogger(log *slog.Logger) Option {
	return func(p *Paginator) {
		if log != nil {
			p.log = log
		}
	}
}

// WithObserver registers a callback invoked for every correction.
func WithObserver(fn func(Correction)) Option {
	return func(p *Paginator) {
		p.observe = fn
	}
}

// Paginator is immutable after New and safe for concurrent use
// as long as the observer is.
type Paginator struct {
	cfg     Config
	log     *slog.Logger
	observe func(Correction)
}

// New validates cfg and returns a Paginator.
func New(cfg Config, opts ...Option) (*Paginator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Paginator{cfg: cfg, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the configuration the Paginator was built with.
func (p *Paginator) Config() Config {
	return p.cfg
}

// Paginate splits text using cfg. It is a shorthand for New followed by Paginate.
func Paginate(text string, cfg Config) ([]string, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return p.Paginate(text), nil
}

// Paginate fills pages rune by rune from the trimmed text. A page is closed
// when the next rune is whitespace and would push the page past
// MaxPageLength; that whitespace rune belongs to neither page. Every page but
// the first is rebalanced against its predecessor when it is closed. The last
// page is appended as is, even when empty.
func (p *Paginator) Paginate(text string) []string {
	src := strings.TrimSpace(text)

	var (
		pages []string
		page  strings.Builder
		size  int
	)
	n := len(src)
	if p.cfg.MaxPageLength <= n/utf8.UTFMax {
		n = p.cfg.MaxPageLength * utf8.UTFMax
	}
	page.Grow(n)

	for _, r := range src {
		if unicode.IsSpace(r) && size+1 > p.cfg.MaxPageLength {
			if len(pages) == 0 {
				pages = append(pages, page.String())
			} else {
				prev, next := p.Rebalance(pages[len(pages)-1], page.String())
				pages[len(pages)-1] = prev
				pages = append(pages, next)
			}
			page.Reset()
			size = 0
			continue
		}
		page.WriteRune(r)
		size++
	}
	return append(pages, page.String())
}
