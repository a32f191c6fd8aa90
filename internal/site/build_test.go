package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScenario(t *testing.T) {
	opts := newSiteDirs(t)
	writeFile(t, filepath.Join(opts.SourceRoot, "a", "one.html"), "<name>One</name><date>2024-01-01</date><tag>x, y</tag>")
	writeFile(t, filepath.Join(opts.SourceRoot, "b", "two.html"), "<name>Two</name><date>2024-06-01</date>")

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Articles)
	assert.Equal(t, opts.OutputRoot, report.OutputRoot)

	assert.FileExists(t, filepath.Join(opts.OutputRoot, "a", "one.html"))
	assert.FileExists(t, filepath.Join(opts.OutputRoot, "b", "two.html"))

	index, err := os.ReadFile(filepath.Join(opts.OutputRoot, LatestPage))
	require.NoError(t, err)
	two := strings.Index(string(index), ">Two<")
	one := strings.Index(string(index), ">One<")
	require.NotEqual(t, -1, two)
	require.NotEqual(t, -1, one)
	assert.Less(t, two, one)

	raw, err := os.ReadFile(filepath.Join(opts.OutputRoot, SearchIndexFile))
	require.NoError(t, err)
	var entries []SearchEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, SearchEntry{Title: "One", URL: "/articles/a/one.html", Tags: []string{"x", "y"}, Abstract: ""}, entries[0])
	assert.Equal(t, SearchEntry{Title: "Two", URL: "/articles/b/two.html", Tags: []string{}, Abstract: ""}, entries[1])
	assert.Contains(t, string(raw), `"tags": []`)
}

func TestBuildSearchIndexSchema(t *testing.T) {
	opts := newSiteDirs(t)
	for _, name := range []string{"x.html", "y/z.html", "y/w/v.html"} {
		writeFile(t, filepath.Join(opts.SourceRoot, filepath.FromSlash(name)), "<name>"+name+"</name><abstract>a & <b></abstract>")
	}

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(opts.OutputRoot, SearchIndexFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {\n    \"title\": "))
	assert.False(t, strings.HasSuffix(string(raw), "\n"))
	assert.Contains(t, string(raw), `"abstract": "a & <b>"`)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Len(t, generic, 3)
	urlPattern := regexp.MustCompile(`^/articles/.+`)
	for _, e := range generic {
		assert.Len(t, e, 4)
		assert.Regexp(t, urlPattern, e["url"])
		assert.IsType(t, []any{}, e["tags"])
	}
}

func TestBuildPageCountMatchesSources(t *testing.T) {
	opts := newSiteDirs(t)
	sources := []string{"a.html", "b/c.html", "b/d.html", "e/f/g/h.html"}
	for _, s := range sources {
		writeFile(t, filepath.Join(opts.SourceRoot, filepath.FromSlash(s)), "<name>"+s+"</name>")
	}
	writeFile(t, filepath.Join(opts.SourceRoot, "readme.txt"), "ignored")

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	files := snapshot(t, opts.OutputRoot)
	for _, s := range sources {
		assert.Contains(t, files, s)
	}
	assert.NotContains(t, files, "readme.txt")
	// Article pages plus index.html, all.html and search-index.json
	assert.Len(t, files, len(sources)+3)
}

func TestBuildIsIdempotent(t *testing.T) {
	opts := newSiteDirs(t)
	writeFile(t, filepath.Join(opts.SourceRoot, "a.html"), "<name>A</name><date>2024-01-01</date>")
	writeFile(t, filepath.Join(opts.SourceRoot, "sub", "b.html"), "<name>B</name><date>bogus</date><tag>t</tag>")

	b, err := NewBuilder(opts)
	require.NoError(t, err)

	_, err = b.Build(context.Background())
	require.NoError(t, err)
	first := snapshot(t, opts.OutputRoot)

	_, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, opts.OutputRoot))
}

func TestBuildRemovesStaleOutput(t *testing.T) {
	opts := newSiteDirs(t)
	writeFile(t, filepath.Join(opts.SourceRoot, "a.html"), "<name>A</name>")
	writeFile(t, filepath.Join(opts.OutputRoot, "old", "removed.html"), "stale")

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(opts.OutputRoot, "old"))
	assert.FileExists(t, filepath.Join(opts.OutputRoot, "a.html"))
}

func TestBuildUnclosedAbstract(t *testing.T) {
	opts := newSiteDirs(t)
	writeFile(t, filepath.Join(opts.SourceRoot, "a.html"), "<name>A</name><abstract>never closed")

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(opts.OutputRoot, SearchIndexFile))
	require.NoError(t, err)
	var entries []SearchEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Abstract)
}

func TestBuildEmptySource(t *testing.T) {
	opts := newSiteDirs(t)

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	report, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Articles)

	raw, err := os.ReadFile(filepath.Join(opts.OutputRoot, SearchIndexFile))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	all, err := os.ReadFile(filepath.Join(opts.OutputRoot, AllPage))
	require.NoError(t, err)
	assert.Contains(t, string(all), "<ul></ul>")
}

func TestBuildMissingSourceRootKeepsOutput(t *testing.T) {
	opts := newSiteDirs(t)
	require.NoError(t, os.RemoveAll(opts.SourceRoot))
	writeFile(t, filepath.Join(opts.OutputRoot, "keep.html"), "previous build")

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceRootMissing)
	assert.FileExists(t, filepath.Join(opts.OutputRoot, "keep.html"))
}

func TestBuildMissingTemplateKeepsOutput(t *testing.T) {
	opts := newSiteDirs(t)
	require.NoError(t, os.Remove(filepath.Join(opts.TemplatesDir, AdTemplate)))
	writeFile(t, filepath.Join(opts.OutputRoot, "keep.html"), "previous build")

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	assert.ErrorIs(t, err, ErrTemplateMissing)
	assert.FileExists(t, filepath.Join(opts.OutputRoot, "keep.html"))
}

func TestBuildCancelled(t *testing.T) {
	opts := newSiteDirs(t)
	writeFile(t, filepath.Join(opts.SourceRoot, "a.html"), "<name>A</name>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMarkdownCompanions(t *testing.T) {
	opts := newSiteDirs(t)
	opts.Markdown = true
	writeFile(t, filepath.Join(opts.SourceRoot, "a", "one.html"), "<name>One</name><ad><p>Sponsored</p></ad>")

	b, err := NewBuilder(opts)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(opts.OutputRoot, "a", "one.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "Sponsored")
}

func TestBuildWithCollator(t *testing.T) {
	opts := newSiteDirs(t)
	writeFile(t, filepath.Join(opts.SourceRoot, "1.html"), "<name>apple</name>")
	writeFile(t, filepath.Join(opts.SourceRoot, "2.html"), "<name>Banana</name>")

	b, err := NewBuilder(opts, WithCollator(CodePointCollator))
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	all, err := os.ReadFile(filepath.Join(opts.OutputRoot, AllPage))
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(all), ">Banana<"), strings.Index(string(all), ">apple<"))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"empty source", func(o *Options) { o.SourceRoot = "" }},
		{"empty output", func(o *Options) { o.OutputRoot = "" }},
		{"empty templates", func(o *Options) { o.TemplatesDir = "" }},
		{"zero latest", func(o *Options) { o.LatestCount = 0 }},
		{"empty suffix", func(o *Options) { o.ArticleSuffix = "" }},
		{"output equals source", func(o *Options) { o.OutputRoot = "articles/" }},
		{"output is absolute source", func(o *Options) { o.OutputRoot = absPath(t, "articles") }},
		{"output contains source", func(o *Options) { o.OutputRoot = "." }},
		{"output is parent of nested source", func(o *Options) { o.SourceRoot = "content/articles"; o.OutputRoot = "content" }},
		{"output equals templates", func(o *Options) { o.OutputRoot = "templates" }},
		{"output is absolute templates", func(o *Options) { o.OutputRoot = absPath(t, "templates") }},
		{"output contains templates", func(o *Options) { o.TemplatesDir = "site/templates"; o.OutputRoot = "site" }},
	}

	require.NoError(t, DefaultOptions().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			assert.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}
}

func TestOptionsValidateAllowsSiblingNames(t *testing.T) {
	opts := DefaultOptions()
	opts.OutputRoot = "articles-dist"
	assert.NoError(t, opts.Validate())

	opts.OutputRoot = "templates2"
	assert.NoError(t, opts.Validate())
}

func TestNewBuilderRefusesParentOfSource(t *testing.T) {
	opts := newSiteDirs(t)
	article := filepath.Join(opts.SourceRoot, "a.html")
	writeFile(t, article, "<name>A</name>")
	opts.OutputRoot = filepath.Dir(opts.SourceRoot)

	_, err := NewBuilder(opts)
	require.ErrorIs(t, err, ErrInvalidOptions)
	assert.FileExists(t, article)
	assert.FileExists(t, filepath.Join(opts.TemplatesDir, HeadTemplate))
}

func absPath(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func TestNewBuilderInvalidLocale(t *testing.T) {
	opts := DefaultOptions()
	opts.Locale = "not a locale"
	_, err := NewBuilder(opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestWriteSearchIndexNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), SearchIndexFile)
	require.NoError(t, WriteSearchIndex(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestWriteSearchIndexLineSeparators(t *testing.T) {
	path := filepath.Join(t.TempDir(), SearchIndexFile)
	entries := []SearchEntry{
		{Title: "a\u2028b", URL: "/articles/a.html", Tags: []string{}, Abstract: "c\u2029d"},
		{Title: `literal \u2028`, URL: "/articles/b.html", Tags: []string{}},
	}
	require.NoError(t, WriteSearchIndex(path, entries))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\"title\": \"a\u2028b\"")
	assert.Contains(t, string(raw), "\"abstract\": \"c\u2029d\"")
	assert.Contains(t, string(raw), `"title": "literal \\u2028"`)

	var decoded []SearchEntry
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, entries, decoded)
}
