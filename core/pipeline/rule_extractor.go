package pipeline

import (
	"context"
	"regexp"
	"sort"

	"github.com/siherrmann/lexent/model"
)

// rulePatterns are the regular expressions of the rule based extractor per
// label.
var rulePatterns = map[string][]*regexp.Regexp{
	"PROVISION": {
		regexp.MustCompile(`\b(?:Articles?|Sections?|Rules?|Paragraphs?)\s+\d+(?:\.\d+)*(?:\(\w+\))*(?:(?:\s*,\s*|\s+and\s+|,\s*and\s+)\d+(?:\.\d+)*(?:\(\w+\))*)*`),
		regexp.MustCompile(`§+\s*\d+[a-z]?(?:\(\w+\))*`),
	},
	"DATE": {
		regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}\b`),
		regexp.MustCompile(`\b\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`),
	},
}

// RuleExtractor finds provisions and dates with regular expressions.
type RuleExtractor struct {
	patterns map[string][]*regexp.Regexp
}

// NewRuleExtractor creates a rule extractor for the given labels. Without
// labels all known labels are extracted.
func NewRuleExtractor(labels ...string) *RuleExtractor {
	patterns := rulePatterns
	if len(labels) > 0 {
		patterns = map[string][]*regexp.Regexp{}
		for _, label := range labels {
			if p, ok := rulePatterns[label]; ok {
				patterns[label] = p
			}
		}
	}
	return &RuleExtractor{patterns: patterns}
}

// Extract returns every match with exact offsets, ordered by position.
func (e *RuleExtractor) Extract(ctx context.Context, text string) ([]model.CandidateEntity, error) {
	var candidates []model.CandidateEntity
	for _, label := range sortedLabels(e.patterns) {
		for _, pattern := range e.patterns[label] {
			for _, loc := range pattern.FindAllStringIndex(text, -1) {
				candidates = append(candidates, model.CandidateEntity{
					Text:  text[loc[0]:loc[1]],
					Label: label,
					Start: loc[0],
					End:   loc[1],
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})
	return candidates, ctx.Err()
}

func sortedLabels[V any](m map[string]V) []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
