package site

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/aktagon/sitegen/internal/logger"
)

// Index page file names and captions
const (
	LatestPage    = "index.html"
	AllPage       = "all.html"
	LatestCaption = "Latest Articles"
	AllCaption    = "All Articles"
)

// ParseDate parses an article date. Dates without a zone are read as UTC
func ParseDate(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SortLatest returns a copy of entries ordered newest first. Entries with dates that
// cannot be parsed sort after every dated entry, keeping their relative order
func SortLatest(entries []ListingEntry) []ListingEntry {
	type dated struct {
		entry ListingEntry
		at    time.Time
		ok    bool
	}

	items := make([]dated, len(entries))
	for i, e := range entries {
		at, ok := ParseDate(e.Date)
		items[i] = dated{entry: e, at: at, ok: ok}
	}

	slices.SortStableFunc(items, func(a, b dated) int {
		switch {
		case a.ok && b.ok:
			return b.at.Compare(a.at)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	sorted := make([]ListingEntry, len(items))
	for i, it := range items {
		sorted[i] = it.entry
	}
	return sorted
}

// SortAll returns a copy of entries ordered by title under c
func SortAll(entries []ListingEntry, c Collator) []ListingEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b ListingEntry) int {
		return c.Compare(a.Title, b.Title)
	})
	return sorted
}

// RenderListing wraps a linked list of entries in the shared head and footer
func RenderListing(head, caption string, entries []ListingEntry, footer string) string {
	var b strings.Builder
	b.WriteString(head)
	b.WriteString("<h1>" + caption + "</h1><ul>")
	for _, e := range entries {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a> (%s)</li>`, e.URL, e.Title, e.Date)
	}
	b.WriteString("</ul>")
	b.WriteString(footer)
	return b.String()
}

// IndexGenerator writes the latest and all-articles pages
type IndexGenerator struct {
	outputRoot  string
	templates   *Templates
	collator    Collator
	latestCount int
	log         logger.Logger
}

// NewIndexGenerator creates a generator writing into outputRoot
func NewIndexGenerator(outputRoot string, templates *Templates, collator Collator, latestCount int, log logger.Logger) *IndexGenerator {
	if log == nil {
		log = logger.NewNop()
	}
	return &IndexGenerator{
		outputRoot:  outputRoot,
		templates:   templates,
		collator:    collator,
		latestCount: latestCount,
		log:         log,
	}
}

// Latest returns at most latestCount entries, newest first
func (g *IndexGenerator) Latest(entries []ListingEntry) []ListingEntry {
	latest := SortLatest(entries)
	if len(latest) > g.latestCount {
		latest = latest[:g.latestCount]
	}
	return latest
}

// Generate writes index.html and all.html. entries is not modified
func (g *IndexGenerator) Generate(entries []ListingEntry) error {
	if err := os.MkdirAll(g.outputRoot, 0755); err != nil {
		return fmt.Errorf("creating output root: %w", err)
	}

	pages := []struct {
		name    string
		caption string
		entries []ListingEntry
	}{
		{LatestPage, LatestCaption, g.Latest(entries)},
		{AllPage, AllCaption, SortAll(entries, g.collator)},
	}

	for _, page := range pages {
		html := RenderListing(g.templates.Head, page.caption, page.entries, g.templates.Footer)
		path := filepath.Join(g.outputRoot, page.name)
		if err := os.WriteFile(path, []byte(html), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", page.name, err)
		}
		g.log.Debug("Wrote index page", logger.String("page", page.name), logger.Int("entries", len(page.entries)))
	}

	return nil
}
