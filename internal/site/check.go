package site

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProblemKind classifies an article data problem
type ProblemKind string

const (
	ProblemMissingName    ProblemKind = "missing-name"
	ProblemMissingDate    ProblemKind = "missing-date"
	ProblemInvalidDate    ProblemKind = "invalid-date"
	ProblemDuplicateTitle ProblemKind = "duplicate-title"
)

// Problem is a data issue found in one article. Problems never stop a build; the
// fallbacks (empty strings, undated articles listed last) apply instead
type Problem struct {
	Path   string
	Kind   ProblemKind
	Detail string
}

func (p Problem) String() string {
	if p.Detail == "" {
		return fmt.Sprintf("%s: %s", p.Path, p.Kind)
	}
	return fmt.Sprintf("%s: %s (%s)", p.Path, p.Kind, p.Detail)
}

// CheckArticles reads every article under root and reports missing or unusable
// metadata. Only I/O errors are returned as errors
func CheckArticles(root, suffix string) ([]Problem, error) {
	paths, err := FindArticles(root, suffix)
	if err != nil {
		return nil, err
	}

	var problems []Problem
	byTitle := make(map[string][]string)
	var titles []string

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading article %s: %w", path, err)
		}
		content := string(raw)

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		title := ExtractField(content, FieldName)
		if title == "" {
			problems = append(problems, Problem{Path: rel, Kind: ProblemMissingName})
		} else {
			if _, seen := byTitle[title]; !seen {
				titles = append(titles, title)
			}
			byTitle[title] = append(byTitle[title], rel)
		}

		date := ExtractField(content, FieldDate)
		switch _, ok := ParseDate(date); {
		case date == "":
			problems = append(problems, Problem{Path: rel, Kind: ProblemMissingDate})
		case !ok:
			problems = append(problems, Problem{Path: rel, Kind: ProblemInvalidDate, Detail: date})
		}
	}

	for _, title := range titles {
		files := byTitle[title]
		if len(files) <= 1 {
			continue
		}
		for _, f := range files[1:] {
			problems = append(problems, Problem{
				Path:   f,
				Kind:   ProblemDuplicateTitle,
				Detail: fmt.Sprintf("%q also used by %s", title, files[0]),
			})
		}
	}

	return problems, nil
}
