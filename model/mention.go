package model

import (
	"encoding/json"
	"fmt"
)

// Mention is one occurrence of an entity. Text is the full reconstructed
// segment text; Start and End are byte offsets of the mention inside it.
type Mention struct {
	Page          string `json:"page"`
	Text          string `json:"mention"`
	Start         int    `json:"mention_start"`
	End           int    `json:"mention_end"`
	SegmentNumber int    `json:"segment_number"`
}

// Surface returns the mentioned text, or an empty string if the offsets do
// not fit the segment text.
func (m Mention) Surface() string {
	if m.Start < 0 || m.End > len(m.Text) || m.Start > m.End {
		return ""
	}
	return m.Text[m.Start:m.End]
}

// EntityInfo is the mention history of one surface form.
type EntityInfo struct {
	Mentions []Mention
}

// Add appends a mention.
func (e *EntityInfo) Add(m Mention) {
	e.Mentions = append(e.Mentions, m)
}

// Extend appends all mentions of other in their original order.
func (e *EntityInfo) Extend(other *EntityInfo) {
	if other == nil {
		return
	}
	e.Mentions = append(e.Mentions, other.Mentions...)
}

// Len returns the number of mentions.
func (e *EntityInfo) Len() int {
	return len(e.Mentions)
}

// Pages returns the distinct pages in order of first mention.
func (e *EntityInfo) Pages() []string {
	seen := map[string]bool{}
	pages := []string{}
	for _, m := range e.Mentions {
		if !seen[m.Page] {
			seen[m.Page] = true
			pages = append(pages, m.Page)
		}
	}
	return pages
}

// entityInfoJSON is the persisted parallel-array layout.
type entityInfoJSON struct {
	Pages          []string `json:"pages"`
	Mentions       []string `json:"mentions"`
	MentionStarts  []int    `json:"mention_starts"`
	MentionEnds    []int    `json:"mention_ends"`
	SegmentNumbers []int    `json:"segment_numbers"`
}

// MarshalJSON writes the five parallel arrays.
func (e EntityInfo) MarshalJSON() ([]byte, error) {
	out := entityInfoJSON{
		Pages:          make([]string, 0, len(e.Mentions)),
		Mentions:       make([]string, 0, len(e.Mentions)),
		MentionStarts:  make([]int, 0, len(e.Mentions)),
		MentionEnds:    make([]int, 0, len(e.Mentions)),
		SegmentNumbers: make([]int, 0, len(e.Mentions)),
	}
	for _, m := range e.Mentions {
		out.Pages = append(out.Pages, m.Page)
		out.Mentions = append(out.Mentions, m.Text)
		out.MentionStarts = append(out.MentionStarts, m.Start)
		out.MentionEnds = append(out.MentionEnds, m.End)
		out.SegmentNumbers = append(out.SegmentNumbers, m.SegmentNumber)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the five parallel arrays and rejects unequal lengths.
func (e *EntityInfo) UnmarshalJSON(data []byte) error {
	var in entityInfoJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	n := len(in.Pages)
	if len(in.Mentions) != n || len(in.MentionStarts) != n || len(in.MentionEnds) != n || len(in.SegmentNumbers) != n {
		return fmt.Errorf(
			"parallel arrays differ in length: pages=%d mentions=%d mention_starts=%d mention_ends=%d segment_numbers=%d",
			n, len(in.Mentions), len(in.MentionStarts), len(in.MentionEnds), len(in.SegmentNumbers),
		)
	}

	e.Mentions = make([]Mention, n)
	for i := 0; i < n; i++ {
		e.Mentions[i] = Mention{
			Page:          in.Pages[i],
			Text:          in.Mentions[i],
			Start:         in.MentionStarts[i],
			End:           in.MentionEnds[i],
			SegmentNumber: in.SegmentNumbers[i],
		}
	}
	return nil
}
