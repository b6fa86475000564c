package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/siherrmann/lexent/core/locate"
	"github.com/siherrmann/lexent/core/oracle"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// DefaultLLMLabels are the entity types requested by NewLLMExtractor when no
// labels are given, with their prompt descriptions.
var DefaultLLMLabels = map[string]string{
	"PERSON":       "Names of people",
	"ORGANIZATION": "Companies, institutions, agencies, courts",
	"LOCATION":     "Cities, countries, geographic locations",
}

// LLMExtractor prompts an oracle for a JSON list of entities and anchors every
// returned entity at all of its occurrences in the text.
type LLMExtractor struct {
	oracle  oracle.Oracle
	options oracle.Options
	labels  map[string]string
}

// NewLLMExtractor creates an extractor asking o for the given labels, mapped
// to their prompt descriptions.
func NewLLMExtractor(o oracle.Oracle, opts oracle.Options, labels map[string]string) *LLMExtractor {
	if len(labels) == 0 {
		labels = DefaultLLMLabels
	}
	return &LLMExtractor{
		oracle:  o,
		options: opts,
		labels:  labels,
	}
}

type llmEntity struct {
	Text       string `json:"text"`
	SourceText string `json:"source_text"`
	Type       string `json:"type"`
	EntityType string `json:"entity_type"`
}

// Extract asks the oracle for the entities of text.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]model.CandidateEntity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	answer, err := e.oracle.Adjudicate(ctx, e.prompt(text), e.options)
	if err != nil {
		return nil, helper.NewError("llm extraction", err)
	}

	entities, err := parseLLMEntities(answer)
	if err != nil {
		return nil, helper.NewError("parse llm entities", err)
	}

	var candidates []model.CandidateEntity
	for _, entity := range entities {
		entityText := strings.TrimSpace(entity.Text)
		if entityText == "" {
			entityText = strings.TrimSpace(entity.SourceText)
		}
		label := strings.ToUpper(strings.TrimSpace(entity.Type))
		if label == "" {
			label = strings.ToUpper(strings.TrimSpace(entity.EntityType))
		}
		if entityText == "" || label == "" {
			continue
		}
		if _, ok := e.labels[label]; !ok {
			continue
		}

		for _, span := range locate.LocateAll(entityText, text) {
			candidates = append(candidates, model.CandidateEntity{
				Text:  text[span.Start:span.End],
				Label: label,
				Start: span.Start,
				End:   span.End,
			})
		}
	}

	return candidates, nil
}

func (e *LLMExtractor) prompt(text string) string {
	var types strings.Builder
	for _, label := range sortedLabels(e.labels) {
		fmt.Fprintf(&types, "- %s: %s\n", label, e.labels[label])
	}

	return "You are a Named Entity Recognition system. Extract ALL entities from the text and return ONLY a JSON array.\n\n" +
		"Task: Extract entities of these types:\n" + types.String() + "\n" +
		"Instructions:\n" +
		"1. Find ALL entity mentions in the text\n" +
		"2. Return ONLY a valid JSON array\n" +
		"3. Each entity must have: text, type\n" +
		"4. Do NOT include markdown, explanations, or extra text\n\n" +
		"Example output format:\n" +
		"[\n{\"text\": \"John Doe\", \"type\": \"PERSON\"}\n]\n\n" +
		"Text to analyze:\n" + text + "\n\n\nOutput (JSON array only):"
}

// parseLLMEntities decodes a JSON array of entities, optionally wrapped in a
// code fence or an object with an "entities" field.
func parseLLMEntities(answer string) ([]llmEntity, error) {
	body := stripCodeFence(answer)

	var entities []llmEntity
	if err := json.Unmarshal([]byte(body), &entities); err == nil {
		return entities, nil
	}

	var wrapped struct {
		Entities []llmEntity `json:"entities"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Entities, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
