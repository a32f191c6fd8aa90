package site

import (
	"fmt"
	"os"
	"path/filepath"
)

// Template file names inside the templates directory
const (
	HeadTemplate   = "head.html"
	AdTemplate     = "ad.html"
	FooterTemplate = "footer.html"
)

// Templates holds the shared page fragments. They are read once per build and
// substituted verbatim
type Templates struct {
	Head   string
	Ad     string
	Footer string
}

// LoadTemplates reads the head, ad and footer fragments from dir
func LoadTemplates(dir string) (*Templates, error) {
	read := func(name string) (string, error) {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrTemplateMissing, path, err)
		}
		return string(data), nil
	}

	head, err := read(HeadTemplate)
	if err != nil {
		return nil, err
	}
	ad, err := read(AdTemplate)
	if err != nil {
		return nil, err
	}
	footer, err := read(FooterTemplate)
	if err != nil {
		return nil, err
	}

	return &Templates{Head: head, Ad: ad, Footer: footer}, nil
}

// Page assembles an article page from the shared fragments and the article's own
// head data and ad content
func (t *Templates) Page(headData, ad string) string {
	return t.Head + "\n" + headData + "\n" + t.Ad + "\n" + ad + "\n" + t.Footer
}
