package site

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders article titles for the "all articles" view
type Collator interface {
	Compare(a, b string) int
}

// CompareFunc adapts a plain comparison function to Collator
type CompareFunc func(a, b string) int

// Compare calls f(a, b)
func (f CompareFunc) Compare(a, b string) int { return f(a, b) }

// CodePointCollator compares strings by code point
var CodePointCollator Collator = CompareFunc(strings.Compare)

// LocaleCollator compares strings using the collation rules of a language.
// It is not safe for concurrent use
type LocaleCollator struct {
	tag language.Tag
	c   *collate.Collator
}

// NewLocaleCollator parses locale as a BCP 47 tag (for example "ja" or "en-US")
// and returns a collator for it
func NewLocaleCollator(locale string) (*LocaleCollator, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %w", ErrInvalidOptions, locale, err)
	}
	return &LocaleCollator{tag: tag, c: collate.New(tag)}, nil
}

// Compare returns -1, 0 or 1
func (l *LocaleCollator) Compare(a, b string) int {
	return l.c.CompareString(a, b)
}

// Tag returns the collator's language
func (l *LocaleCollator) Tag() language.Tag {
	return l.tag
}
