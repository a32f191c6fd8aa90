package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aktagon/sitegen/internal/logger"
)

// ArticleURLPrefix is prepended to an article's slash separated relative path
const ArticleURLPrefix = "/articles/"

// Pseudo-tag names read from article sources
const (
	FieldName     = "name"
	FieldTag      = "tag"
	FieldAbstract = "abstract"
	FieldDate     = "date"
	FieldHeadData = "head_data"
	FieldAd       = "ad"
)

// Processor turns one article source into an output page
type Processor struct {
	sourceRoot string
	outputRoot string
	templates  *Templates
	markdown   *MarkdownExporter
	log        logger.Logger
}

// NewProcessor creates a processor writing pages for sources under sourceRoot into
// outputRoot. markdown may be nil
func NewProcessor(sourceRoot, outputRoot string, templates *Templates, markdown *MarkdownExporter, log logger.Logger) *Processor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Processor{
		sourceRoot: sourceRoot,
		outputRoot: outputRoot,
		templates:  templates,
		markdown:   markdown,
		log:        log,
	}
}

// Process reads the source at sourcePath, writes its assembled page and returns the
// article's metadata. Any I/O error is returned unrecovered
func (p *Processor) Process(sourcePath string) (*Article, error) {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading article %s: %w", sourcePath, err)
	}
	content := string(raw)

	rel, err := filepath.Rel(p.sourceRoot, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("relative path of %s: %w", sourcePath, err)
	}
	outputPath := filepath.Join(p.outputRoot, rel)

	article := &Article{
		Metadata: ArticleMetadata{
			Title:    ExtractField(content, FieldName),
			Tags:     SplitTags(ExtractField(content, FieldTag)),
			Abstract: ExtractField(content, FieldAbstract),
			Date:     ExtractField(content, FieldDate),
			URL:      ArticleURL(rel),
		},
		SourcePath: sourcePath,
		OutputPath: outputPath,
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory for %s: %w", rel, err)
	}

	page := p.templates.Page(ExtractField(content, FieldHeadData), ExtractField(content, FieldAd))
	if err := os.WriteFile(outputPath, []byte(page), 0644); err != nil {
		return nil, fmt.Errorf("writing page %s: %w", outputPath, err)
	}

	if p.markdown != nil {
		if err := p.markdown.Export(outputPath, page); err != nil {
			return nil, err
		}
	}

	p.log.Debug("Processed article",
		logger.String("source", rel),
		logger.String("title", article.Metadata.Title),
		logger.String("date", article.Metadata.Date),
	)

	return article, nil
}

// ArticleURL maps a path relative to the source root to the article's site URL
func ArticleURL(rel string) string {
	return ArticleURLPrefix + filepath.ToSlash(rel)
}
