// Package overlap selects non-overlapping entities among competing candidates.
package overlap

import (
	"sort"

	"github.com/siherrmann/lexent/model"
)

// Resolve returns a non-overlapping subset of entities ordered by start.
//
// Entities are sorted by start ascending and span length descending, then
// kept greedily when they start at or after the end of the last kept entity.
// At equal starts the longer span wins, even when its text is shorter, since
// anchoring may widen a span over whitespace drift. This maximises left-to-right coverage
// with a longest-first tie break; it does not maximise the number of kept
// entities (a long early span may shadow two shorter later ones).
// Entities with an end before their start are dropped. The input is not modified.
func Resolve(entities []model.CandidateEntity) []model.CandidateEntity {
	sorted := make([]model.CandidateEntity, 0, len(entities))
	for _, e := range entities {
		if e.End >= e.Start {
			sorted = append(sorted, e)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End-sorted[i].Start > sorted[j].End-sorted[j].Start
	})

	kept := make([]model.CandidateEntity, 0, len(sorted))
	for _, e := range sorted {
		if len(kept) == 0 || e.Start >= kept[len(kept)-1].End {
			kept = append(kept, e)
		}
	}

	return kept
}
