package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aktagon/sitegen/internal/logger"
)

// Defaults for Options
const (
	DefaultSourceRoot    = "articles"
	DefaultOutputRoot    = "dist"
	DefaultTemplatesDir  = "templates"
	DefaultLatestCount   = 5
	DefaultArticleSuffix = ".html"
	DefaultLocale        = "ja"
	SearchIndexFile      = "search-index.json"
)

// Options configures a build
type Options struct {
	SourceRoot    string
	OutputRoot    string
	TemplatesDir  string
	LatestCount   int
	ArticleSuffix string
	Locale        string
	Markdown      bool
}

// DefaultOptions returns the options of a plain `sitegen` run
func DefaultOptions() Options {
	return Options{
		SourceRoot:    DefaultSourceRoot,
		OutputRoot:    DefaultOutputRoot,
		TemplatesDir:  DefaultTemplatesDir,
		LatestCount:   DefaultLatestCount,
		ArticleSuffix: DefaultArticleSuffix,
		Locale:        DefaultLocale,
	}
}

// Validate reports unusable options
func (o Options) Validate() error {
	switch {
	case o.SourceRoot == "":
		return fmt.Errorf("%w: source root is empty", ErrInvalidOptions)
	case o.OutputRoot == "":
		return fmt.Errorf("%w: output root is empty", ErrInvalidOptions)
	case o.TemplatesDir == "":
		return fmt.Errorf("%w: templates directory is empty", ErrInvalidOptions)
	case o.LatestCount < 1:
		return fmt.Errorf("%w: latest count must be at least 1, got %d", ErrInvalidOptions, o.LatestCount)
	case o.ArticleSuffix == "":
		return fmt.Errorf("%w: article suffix is empty", ErrInvalidOptions)
	}
	for _, protected := range []struct{ name, dir string }{
		{"source root", o.SourceRoot},
		{"templates directory", o.TemplatesDir},
	} {
		overlaps, err := containsPath(o.OutputRoot, protected.dir)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
		if overlaps {
			return fmt.Errorf("%w: output root %s would delete the %s %s", ErrInvalidOptions, o.OutputRoot, protected.name, protected.dir)
		}
	}
	return nil
}

// containsPath reports whether dir equals parent or lies inside it, after both are
// made absolute
func containsPath(parent, dir string) (bool, error) {
	absParent, err := filepath.Abs(parent)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", parent, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", dir, err)
	}
	rel, err := filepath.Rel(absParent, absDir)
	if err != nil {
		// Different volumes never overlap
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

// Builder runs full site builds
type Builder struct {
	opts     Options
	collator Collator
	log      logger.Logger
}

// BuilderOption customises a Builder
type BuilderOption func(*Builder)

// WithLogger sets the builder's logger
func WithLogger(log logger.Logger) BuilderOption {
	return func(b *Builder) { b.log = log }
}

// WithCollator replaces the locale collator built from Options.Locale
func WithCollator(c Collator) BuilderOption {
	return func(b *Builder) { b.collator = c }
}

// NewBuilder validates opts and returns a Builder
func NewBuilder(opts Options, options ...BuilderOption) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{opts: opts, log: logger.NewNop()}
	for _, o := range options {
		o(b)
	}

	if b.collator == nil {
		c, err := NewLocaleCollator(opts.Locale)
		if err != nil {
			return nil, err
		}
		b.collator = c
	}

	return b, nil
}

// Build deletes the output root and regenerates it: one page per article, the two
// index pages and the search index. The first error aborts the build and may leave
// the output root partially written
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()

	// Configuration problems are reported before the output root is touched
	if err := CheckSourceRoot(b.opts.SourceRoot); err != nil {
		return nil, err
	}
	templates, err := LoadTemplates(b.opts.TemplatesDir)
	if err != nil {
		return nil, err
	}

	if err := os.RemoveAll(b.opts.OutputRoot); err != nil {
		return nil, fmt.Errorf("removing output root %s: %w", b.opts.OutputRoot, err)
	}

	search, listing, err := b.processArticles(ctx, templates)
	if err != nil {
		return nil, err
	}

	indexes := NewIndexGenerator(b.opts.OutputRoot, templates, b.collator, b.opts.LatestCount, b.log)
	if err := indexes.Generate(listing); err != nil {
		return nil, fmt.Errorf("generating index pages: %w", err)
	}

	if err := WriteSearchIndex(filepath.Join(b.opts.OutputRoot, SearchIndexFile), search); err != nil {
		return nil, err
	}

	report := &Report{
		Articles:   len(search),
		OutputRoot: b.opts.OutputRoot,
		Elapsed:    time.Since(start),
	}
	b.log.Info("Site generated successfully",
		logger.Int("articles", report.Articles),
		logger.String("output", report.OutputRoot),
		logger.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// processArticles walks the source root and processes every article in walk order
func (b *Builder) processArticles(ctx context.Context, templates *Templates) ([]SearchEntry, []ListingEntry, error) {
	paths, err := FindArticles(b.opts.SourceRoot, b.opts.ArticleSuffix)
	if err != nil {
		return nil, nil, err
	}

	var markdown *MarkdownExporter
	if b.opts.Markdown {
		markdown = NewMarkdownExporter(b.opts.ArticleSuffix)
	}
	processor := NewProcessor(b.opts.SourceRoot, b.opts.OutputRoot, templates, markdown, b.log)

	search := make([]SearchEntry, 0, len(paths))
	listing := make([]ListingEntry, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("build cancelled: %w", err)
		}

		article, err := processor.Process(path)
		if err != nil {
			return nil, nil, err
		}
		search = append(search, article.SearchEntry())
		listing = append(listing, article.ListingEntry())
	}

	b.log.Debug("Processed articles", logger.Int("count", len(paths)))
	return search, listing, nil
}

// WriteSearchIndex writes entries as a two-space indented JSON array. HTML
// characters, U+2028 and U+2029 are written as is
func WriteSearchIndex(path string, entries []SearchEntry) error {
	if entries == nil {
		entries = []SearchEntry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding search index: %w", err)
	}

	data := unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing search index: %w", err)
	}
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json always
// emits back into raw characters. Escaped backslashes are skipped as pairs so a
// literal `\\u2028` in a string is left alone
func unescapeLineSeparators(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if rest := data[i+1:]; bytes.HasPrefix(rest, []byte("u2028")) || bytes.HasPrefix(rest, []byte("u2029")) {
			if rest[4] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}
