package pipeline

import (
	"context"
	"log/slog"

	"github.com/siherrmann/lexent/core/geometry"
	"github.com/siherrmann/lexent/core/locate"
	"github.com/siherrmann/lexent/core/overlap"
	"github.com/siherrmann/lexent/core/registry"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pipeline turns the layout segments of a document into registry mentions and
// geometry-anchored entity boxes.
type Pipeline struct {
	Extractor EntityExtractor
	// TitleCase stores mentions under the title-cased surface text.
	TitleCase bool
	logger    *slog.Logger
}

// Result summarizes the processing of one document.
type Result struct {
	Entities []*model.EntityBox
	// Segments counts the non-empty segments that were processed.
	Segments int
	// Mentions counts the mentions added to the registries.
	Mentions int
	// LocatorMisses and GeometryMisses count dropped candidates.
	LocatorMisses  int
	GeometryMisses int
}

// NewPipeline creates a pipeline using extractor.
func NewPipeline(extractor EntityExtractor, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Extractor: extractor,
		logger:    logger,
	}
}

// ProcessDocument extracts the entities of every segment of doc in order and
// adds their mentions to registries. Segment numbers restart at 1 on every
// page and only count non-empty segments. Failures of one candidate or one
// segment are logged and skipped; only a canceled context stops processing.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *model.Document, registries *registry.Collection) (*Result, error) {
	result := &Result{}
	caser := cases.Title(language.Und)

	currentPage := 0
	segmentNumber := 1
	for _, segment := range doc.Segments {
		if err := ctx.Err(); err != nil {
			return result, helper.NewError("process document", err)
		}

		if segment.PageNumber != currentPage {
			currentPage = segment.PageNumber
			segmentNumber = 1
		}

		text := segment.ReconstructedText()
		if text == "" {
			continue
		}

		p.processSegment(ctx, doc, segment, text, segmentNumber, registries, caser, result)
		result.Segments++
		segmentNumber++
	}

	return result, nil
}

func (p *Pipeline) processSegment(ctx context.Context, doc *model.Document, segment model.SegmentBox, text string, segmentNumber int, registries *registry.Collection, caser cases.Caser, result *Result) {
	candidates, err := p.Extractor.Extract(ctx, text)
	if err != nil {
		p.logger.Warn("extraction failed", "document", doc.Title, "page", segment.PageNumber, "segment", segmentNumber, "error", err)
		if len(candidates) == 0 {
			return
		}
	}

	anchored := make([]model.CandidateEntity, 0, len(candidates))
	for _, candidate := range candidates {
		c, err := locate.Anchor(candidate, text)
		if err != nil {
			result.LocatorMisses++
			p.logger.Debug("entity not found in segment", "entity", candidate.Text, "page", segment.PageNumber, "segment", segmentNumber)
			continue
		}
		anchored = append(anchored, c)
	}

	hasGeometry := len(doc.WordBoxes) > 0
	var segmentWords []model.WordBox
	if hasGeometry {
		segmentWords = geometry.WordBoxesInRectangle(segment.Rectangle(), doc.WordBoxesOnPage(segment.PageNumber))
	}

	for _, c := range overlap.Resolve(anchored) {
		key := c.Text
		if p.TitleCase {
			key = caser.String(key)
		}
		registries.Registry(c.Label).Add(key, model.Mention{
			Page:          doc.PageLabel(segment.PageNumber),
			Text:          text,
			Start:         c.Start,
			End:           c.End,
			SegmentNumber: segmentNumber,
		})
		result.Mentions++

		if !hasGeometry {
			continue
		}
		box, err := geometry.NewEntityBox(c, segmentWords)
		if err != nil {
			result.GeometryMisses++
			p.logger.Debug("entity without word boxes", "entity", c.Text, "page", segment.PageNumber, "segment", segmentNumber)
			continue
		}
		result.Entities = append(result.Entities, box)
	}
}
