package site

import (
	"regexp"
	"strings"
	"sync"
)

var (
	fieldPatternsMu sync.Mutex
	fieldPatterns   = map[string]*regexp.Regexp{}
)

// fieldPattern returns the cached, case-insensitive, non-greedy pattern for tag
func fieldPattern(tag string) *regexp.Regexp {
	fieldPatternsMu.Lock()
	defer fieldPatternsMu.Unlock()

	re, ok := fieldPatterns[tag]
	if !ok {
		quoted := regexp.QuoteMeta(tag)
		re = regexp.MustCompile(`(?is)<` + quoted + `>(.*?)</` + quoted + `>`)
		fieldPatterns[tag] = re
	}
	return re
}

// ExtractField returns the trimmed content of the first <tag>...</tag> in raw, or ""
// when the tag is absent or never closed. An empty element also yields ""
func ExtractField(raw, tag string) string {
	matches := fieldPattern(tag).FindStringSubmatch(raw)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(matches[1])
}

// SplitTags splits a comma separated tag field, trimming each piece and dropping
// empty ones. Order and duplicates are kept. The result is never nil
func SplitTags(field string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(field, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
