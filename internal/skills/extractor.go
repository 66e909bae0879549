package skills

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Abraxas-365/skillpath/internal/office"
	"github.com/Abraxas-365/skillpath/internal/pdf"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

const keywordConfidence = 0.7

// KeywordExtractor finds known skills in plain text by alias matching
type KeywordExtractor struct {
	pattern *regexp.Regexp
}

// NewKeywordExtractor compiles one case-insensitive, word-bounded pattern
// over every alias, longest alias first so "react.js" wins over "react"
func NewKeywordExtractor() *KeywordExtractor {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}

	return &KeywordExtractor{
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Name identifies the extractor in logs and metrics
func (e *KeywordExtractor) Name() string { return "keyword" }

// ExtractFromText returns canonical skills in order of first mention
func (e *KeywordExtractor) ExtractFromText(text string) []kernel.Skill {
	seen := make(map[kernel.SkillName]bool)
	var out []kernel.Skill

	for _, match := range e.pattern.FindAllString(text, -1) {
		name, ok := aliases[strings.ToLower(match)]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, kernel.Skill{
			Name:       name,
			Level:      kernel.SkillLevelIntermediate,
			Category:   CategoryOf(name),
			Confidence: keywordConfidence,
		})
	}
	return out
}

// Extract reads plain text directly, PDFs through their text layer and Word
// documents through their body text. Images cannot be read without OCR.
func (e *KeywordExtractor) Extract(_ context.Context, content []byte, contentType string) ([]kernel.Skill, error) {
	switch {
	case strings.HasPrefix(contentType, "text/"):
		return e.ExtractFromText(string(content)), nil
	case contentType == "application/pdf":
		text, err := pdf.ExtractText(content)
		if err != nil {
			return nil, err
		}
		return e.ExtractFromText(text), nil
	case office.IsWordDocument(contentType):
		text, err := office.ExtractText(content, contentType)
		if err != nil {
			return nil, err
		}
		return e.ExtractFromText(text), nil
	default:
		return nil, fmt.Errorf("keyword extractor cannot read %s", contentType)
	}
}
