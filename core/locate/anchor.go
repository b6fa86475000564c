package locate

import (
	"fmt"
	"strings"

	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// Anchor fixes the offsets of a candidate in sourceText. A candidate whose
// claimed offsets already select its text is returned unchanged; otherwise
// the occurrence nearest to the claimed start is used. The text is kept.
func Anchor(candidate model.CandidateEntity, sourceText string) (model.CandidateEntity, error) {
	text := strings.TrimSpace(candidate.Text)
	if text == "" {
		return candidate, helper.NewError("anchor empty entity", model.ErrLocatorMiss)
	}
	candidate.Text = text

	if candidate.Start >= 0 && candidate.Start <= candidate.End && candidate.End <= len(sourceText) &&
		sourceText[candidate.Start:candidate.End] == text {
		return candidate, nil
	}

	spans := LocateAll(text, sourceText)
	if len(spans) == 0 {
		return candidate, helper.NewError(fmt.Sprintf("anchor %q", text), model.ErrLocatorMiss)
	}

	best := spans[0]
	for _, s := range spans[1:] {
		if abs(s.Start-candidate.Start) < abs(best.Start-candidate.Start) {
			best = s
		}
	}

	candidate.Start = best.Start
	candidate.End = best.End
	return candidate, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
