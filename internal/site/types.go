// Package site builds the static article site: it extracts pseudo-tag fields from
// article sources, assembles pages from shared templates and writes the index pages
// and search index
package site

import (
	"errors"
	"time"
)

var (
	// ErrSourceRootMissing is returned when the articles directory does not exist
	ErrSourceRootMissing = errors.New("source root missing")
	// ErrTemplateMissing is returned when one of the shared templates cannot be read
	ErrTemplateMissing = errors.New("template missing")
	// ErrInvalidOptions is returned for unusable build options
	ErrInvalidOptions = errors.New("invalid options")
)

// ArticleMetadata holds the fields extracted from one article source
type ArticleMetadata struct {
	Title    string
	Tags     []string
	Abstract string
	Date     string
	URL      string
}

// SearchEntry is one element of search-index.json
type SearchEntry struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	Abstract string   `json:"abstract"`
}

// ListingEntry is the minimal data needed to link an article from an index page
type ListingEntry struct {
	Title string
	Date  string
	URL   string
}

// Article is the result of processing one source document
type Article struct {
	Metadata   ArticleMetadata
	SourcePath string
	OutputPath string
}

// SearchEntry returns the search index entry for the article
func (a *Article) SearchEntry() SearchEntry {
	return SearchEntry{
		Title:    a.Metadata.Title,
		URL:      a.Metadata.URL,
		Tags:     a.Metadata.Tags,
		Abstract: a.Metadata.Abstract,
	}
}

// ListingEntry returns the index page entry for the article
func (a *Article) ListingEntry() ListingEntry {
	return ListingEntry{
		Title: a.Metadata.Title,
		Date:  a.Metadata.Date,
		URL:   a.Metadata.URL,
	}
}

// Report summarises a finished build
type Report struct {
	Articles   int
	OutputRoot string
	Elapsed    time.Duration
}
