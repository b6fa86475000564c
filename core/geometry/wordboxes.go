// Package geometry projects character spans of a segment onto the word boxes
// of its page.
package geometry

import (
	"sort"
	"unicode/utf8"

	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// MinIntersectionPercentage is the share of a word box's own area that must
// lie inside a region for the word to belong to it.
const MinIntersectionPercentage = 50.0

// WordBoxesInRectangle returns the word boxes lying mostly inside rect, in
// their original order.
func WordBoxesInRectangle(rect model.Rectangle, wordBoxes []model.WordBox) []model.WordBox {
	var inside []model.WordBox
	for _, w := range wordBoxes {
		if !w.BoundingBox.Overlaps(rect) {
			continue
		}
		if w.BoundingBox.IntersectionPercentage(rect) > MinIntersectionPercentage {
			inside = append(inside, w)
		}
	}
	return inside
}

// WordBoxesFromSpan returns the word boxes covering the byte range
// [start, end) of the text obtained by joining the words with single spaces.
// Partially covered words are sliced and their box narrowed assuming equal
// letter widths within the word.
func WordBoxesFromSpan(wordBoxes []model.WordBox, start, end int) []model.WordBox {
	var covered []model.WordBox
	if start >= end {
		return covered
	}

	cursor := 0
	for _, w := range wordBoxes {
		wordStart := cursor
		wordEnd := cursor + len(w.Text)
		cursor = wordEnd + 1

		if wordEnd <= start {
			continue
		}
		if wordStart >= end {
			break
		}

		if sliced, ok := sliceWordBox(w, max(0, start-wordStart), min(len(w.Text), end-wordStart)); ok {
			covered = append(covered, sliced)
		}

		if wordEnd >= end {
			break
		}
	}

	return covered
}

// sliceWordBox cuts the byte range [from, to) out of a word box.
func sliceWordBox(w model.WordBox, from, to int) (model.WordBox, bool) {
	for from > 0 && !utf8.RuneStart(w.Text[from]) {
		from--
	}
	for to < len(w.Text) && !utf8.RuneStart(w.Text[to]) {
		to++
	}

	letters := utf8.RuneCountInString(w.Text)
	if letters == 0 || from >= to {
		return model.WordBox{}, false
	}

	letterWidth := w.BoundingBox.Width() / float64(letters)
	offset := utf8.RuneCountInString(w.Text[:from])
	selected := w.Text[from:to]

	sliced := w
	sliced.Text = selected
	sliced.BoundingBox.Left = w.BoundingBox.Left + letterWidth*float64(offset)
	sliced.BoundingBox.Right = sliced.BoundingBox.Left + letterWidth*float64(utf8.RuneCountInString(selected))
	return sliced, true
}

// MergeToLines merges word boxes into one rectangle per visual line, top to
// bottom. A box starts a new line when its top lies below the middle of the
// previous box.
func MergeToLines(wordBoxes []model.WordBox) []model.Rectangle {
	if len(wordBoxes) == 0 {
		return nil
	}

	sorted := make([]model.WordBox, len(wordBoxes))
	copy(sorted, wordBoxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BoundingBox.Top < sorted[j].BoundingBox.Top
	})

	var lines []model.Rectangle
	current := []model.Rectangle{sorted[0].BoundingBox}
	for _, w := range sorted[1:] {
		last := current[len(current)-1]
		if w.BoundingBox.Top > last.Bottom-last.Height()/2 {
			lines = append(lines, model.MergeRectangles(current))
			current = nil
		}
		current = append(current, w.BoundingBox)
	}
	lines = append(lines, model.MergeRectangles(current))

	return lines
}

// NewEntityBox builds the geometry-anchored entity for a span of a segment.
// It returns model.ErrGeometryMiss if the span covers no word box.
func NewEntityBox(candidate model.CandidateEntity, segmentWords []model.WordBox) (*model.EntityBox, error) {
	wordBoxes := WordBoxesFromSpan(segmentWords, candidate.Start, candidate.End)
	if len(wordBoxes) == 0 {
		return nil, helper.NewError("map "+candidate.Text+" to word boxes", model.ErrGeometryMiss)
	}

	return &model.EntityBox{
		Text:            candidate.Text,
		Label:           candidate.Label,
		WordBoxes:       wordBoxes,
		LabelRectangles: MergeToLines(wordBoxes),
		PageNumber:      wordBoxes[0].PageNumber,
		PageWidth:       wordBoxes[0].PageWidth,
		PageHeight:      wordBoxes[0].PageHeight,
	}, nil
}
