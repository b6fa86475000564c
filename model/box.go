package model

import "strings"

// WordBox is a single recognised word with its position on the page.
type WordBox struct {
	Text        string    `json:"text"`
	BoundingBox Rectangle `json:"bounding_box"`
	PageNumber  int       `json:"page_number"`
	PageWidth   float64   `json:"page_width"`
	PageHeight  float64   `json:"page_height"`
}

// SegmentBox is a layout region such as a paragraph or heading.
type SegmentBox struct {
	Text       string  `json:"text"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PageNumber int     `json:"page_number"`
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
	Type       string  `json:"type"`
}

func (s SegmentBox) Rectangle() Rectangle {
	return NewRectangle(s.Left, s.Top, s.Width, s.Height)
}

// ReconstructedText returns the segment text with every whitespace run
// collapsed to a single space.
func (s SegmentBox) ReconstructedText() string {
	return strings.Join(strings.Fields(s.Text), " ")
}

// CandidateEntity is a raw extractor result. Start and End are byte offsets
// into the segment's reconstructed text as claimed by the extractor.
type CandidateEntity struct {
	Text  string `json:"text"`
	Label string `json:"entity_label"`
	Start int    `json:"start_index"`
	End   int    `json:"end_index"`
}

// EntityBox is an entity anchored to page geometry. LabelRectangles holds
// one rectangle per visual line, top to bottom.
type EntityBox struct {
	Text            string      `json:"text"`
	Label           string      `json:"entity_label"`
	WordBoxes       []WordBox   `json:"word_boxes"`
	LabelRectangles []Rectangle `json:"label_rectangles"`
	PageNumber      int         `json:"page_number"`
	PageWidth       float64     `json:"page_width"`
	PageHeight      float64     `json:"page_height"`
}
