package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// DefaultNERModel is the token classification model used by NewNERExtractor.
const DefaultNERModel = "KnightsAnalytics/distilbert-NER"

// nerLabels maps model labels to registry labels.
var nerLabels = map[string]string{
	"PER": "PERSON",
	"ORG": "ORG",
	"LOC": "LOCATION",
}

// NERExtractor extracts entities with a hugot token classification pipeline.
type NERExtractor struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
	labels   map[string]bool
}

// NewNERExtractor loads modelName (downloading it if needed) and keeps only
// entities whose normalized label is in labels. Without labels every label is
// kept.
func NewNERExtractor(modelName string, labels ...string) (*NERExtractor, error) {
	if modelName == "" {
		modelName = DefaultNERModel
	}

	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	keep := map[string]bool{}
	for _, label := range labels {
		keep[strings.ToUpper(label)] = true
	}

	return &NERExtractor{
		session:  session,
		pipeline: nerPipeline,
		labels:   keep,
	}, nil
}

// Extract runs the model on text.
func (e *NERExtractor) Extract(ctx context.Context, text string) ([]model.CandidateEntity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to run NER: %w", err)
	}
	if len(result.Entities) == 0 {
		return nil, nil
	}

	var candidates []model.CandidateEntity
	for _, entity := range result.Entities[0] {
		label := normalizeEntityType(entity.Entity)
		if len(e.labels) > 0 && !e.labels[label] {
			continue
		}

		candidates = append(candidates, model.CandidateEntity{
			Text:  strings.TrimSpace(entity.Word),
			Label: label,
			Start: int(entity.Start),
			End:   int(entity.End),
		})
	}

	return candidates, nil
}

// Close releases the hugot session.
func (e *NERExtractor) Close() error {
	return e.session.Destroy()
}

// normalizeEntityType removes B- and I- prefixes from NER labels and maps
// model labels to registry labels.
func normalizeEntityType(label string) string {
	label = strings.TrimPrefix(strings.TrimPrefix(label, "B-"), "I-")
	if mapped, ok := nerLabels[label]; ok {
		return mapped
	}
	return label
}
