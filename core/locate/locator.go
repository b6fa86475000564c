// Package locate anchors entity text to byte offsets in a source text.
//
// Offsets are byte offsets into the UTF-8 source. Matching tolerates the drift
// introduced by OCR and text reconstruction: case, whitespace run-length,
// spacing around hyphens and trailing possessives.
package locate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// Span is a half-open byte range [Start, End) in a source text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

var (
	possessivePattern    = regexp.MustCompile(`['’]s`)
	hyphenSpacingPattern = regexp.MustCompile(`\s*-\s*`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// Locate returns the most plausible span of entityText in sourceText.
// Strategies are tried in order: exact match, case-insensitive match,
// normalized fuzzy match. The boolean is false if nothing matched.
func Locate(entityText, sourceText string) (Span, bool) {
	if strings.TrimSpace(entityText) == "" {
		return Span{}, false
	}

	if i := strings.Index(sourceText, entityText); i >= 0 {
		return Span{Start: i, End: i + len(entityText)}, true
	}

	if loc := caseInsensitivePattern(entityText).FindStringIndex(sourceText); loc != nil {
		return Span{Start: loc[0], End: loc[1]}, true
	}

	pattern, err := FuzzyPattern(entityText)
	if err != nil {
		return Span{}, false
	}
	if loc := pattern.FindStringIndex(sourceText); loc != nil {
		return Span{Start: loc[0], End: loc[1]}, true
	}

	return Span{}, false
}

// LocateAll returns all non-overlapping occurrences of entityText in
// sourceText, ordered by start. Exact and fuzzy occurrences are combined; if
// the fuzzy pattern finds nothing, a case-insensitive scan is used instead.
func LocateAll(entityText, sourceText string) []Span {
	if strings.TrimSpace(entityText) == "" {
		return nil
	}

	var spans []Span
	for offset := 0; offset <= len(sourceText); {
		i := strings.Index(sourceText[offset:], entityText)
		if i < 0 {
			break
		}
		start := offset + i
		spans = append(spans, Span{Start: start, End: start + len(entityText)})
		offset = start + len(entityText)
	}

	fuzzy := 0
	if pattern, err := FuzzyPattern(entityText); err == nil {
		for _, loc := range pattern.FindAllStringIndex(sourceText, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
			fuzzy++
		}
	}
	if fuzzy == 0 {
		for _, loc := range caseInsensitivePattern(entityText).FindAllStringIndex(sourceText, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
	}

	return nonOverlapping(spans)
}

// FuzzyPattern builds the case-insensitive pattern matching the tokens of
// entityText in order, separated by optional whitespace and a hyphen. Every
// token may carry a possessive, since Tokens strips them wherever they occur.
// It returns model.ErrMalformedPattern if no token survives normalization.
func FuzzyPattern(entityText string) (*regexp.Regexp, error) {
	tokens := Tokens(entityText)
	if len(tokens) == 0 {
		return nil, helper.NewError("fuzzy pattern for "+entityText, model.ErrMalformedPattern)
	}

	escaped := make([]string, len(tokens))
	for i, token := range tokens {
		escaped[i] = regexp.QuoteMeta(token)
	}

	pattern, err := regexp.Compile(`(?i)` + strings.Join(escaped, `(?:['’]s)?\s*-?\s*`) + `(?:\s*['’]s?)?`)
	if err != nil {
		return nil, helper.NewError("compile fuzzy pattern", model.ErrMalformedPattern)
	}
	return pattern, nil
}

// Tokens normalizes entityText and splits it into match tokens: possessives
// are removed, whitespace collapsed, hyphen spacing closed, and hyphens treated
// as separators.
func Tokens(entityText string) []string {
	normalized := possessivePattern.ReplaceAllString(entityText, "")
	normalized = hyphenSpacingPattern.ReplaceAllString(normalized, "-")
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")
	return strings.Fields(strings.ReplaceAll(normalized, "-", " "))
}

func caseInsensitivePattern(entityText string) *regexp.Regexp {
	// A quoted literal always compiles.
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(entityText))
}

// nonOverlapping keeps the earliest, then longest, span at every position.
func nonOverlapping(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].Len() > spans[j].Len()
	})

	kept := make([]Span, 0, len(spans))
	for _, s := range spans {
		if len(kept) == 0 || s.Start >= kept[len(kept)-1].End {
			kept = append(kept, s)
		}
	}
	return kept
}
