package site

import (
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// MarkdownExporter writes a Markdown rendition of each assembled page next to it
type MarkdownExporter struct {
	converter *md.Converter
	suffix    string
}

// NewMarkdownExporter creates an exporter using CommonMark output for pages whose
// names end in suffix
func NewMarkdownExporter(suffix string) *MarkdownExporter {
	return &MarkdownExporter{converter: md.NewConverter("", true, nil), suffix: suffix}
}

// MarkdownPath replaces the article suffix of pagePath with .md
func MarkdownPath(pagePath, suffix string) string {
	return strings.TrimSuffix(pagePath, suffix) + ".md"
}

// Export converts page and writes it to the companion path of pagePath
func (e *MarkdownExporter) Export(pagePath, page string) error {
	text, err := e.converter.ConvertString(page)
	if err != nil {
		return fmt.Errorf("converting %s to markdown: %w", pagePath, err)
	}
	if err := os.WriteFile(MarkdownPath(pagePath, e.suffix), []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("writing markdown for %s: %w", pagePath, err)
	}
	return nil
}
