package pipeline

import (
	"context"
	"errors"

	"github.com/siherrmann/lexent/model"
)

// EntityExtractor finds candidate entities in one segment text.
// Offsets of the returned candidates may be approximate; the pipeline anchors
// them to the text before use.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]model.CandidateEntity, error)
}

// EntityExtractFunc adapts a function to the EntityExtractor interface.
type EntityExtractFunc func(ctx context.Context, text string) ([]model.CandidateEntity, error)

// Extract calls f.
func (f EntityExtractFunc) Extract(ctx context.Context, text string) ([]model.CandidateEntity, error) {
	return f(ctx, text)
}

// MultiExtractor runs several extractors on the same text and concatenates
// their candidates. A failing extractor does not hide the results of the
// others; its error is joined into the returned error.
type MultiExtractor []EntityExtractor

// Extract runs every extractor in order.
func (m MultiExtractor) Extract(ctx context.Context, text string) ([]model.CandidateEntity, error) {
	var candidates []model.CandidateEntity
	var errs []error
	for _, extractor := range m {
		found, err := extractor.Extract(ctx, text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		candidates = append(candidates, found...)
	}
	return candidates, errors.Join(errs...)
}
