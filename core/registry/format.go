package registry

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// ContextWidth is the number of bytes shown on each side of a mention.
const ContextWidth = 50

// Format renders every entity of r with its pages and the context of each
// mention, in registry order.
func Format(r *Registry) string {
	var b strings.Builder
	for _, key := range r.keys {
		info := r.entities[key]
		fmt.Fprintf(&b, "%s %s\n",
			helper.Style(key, color.FgGreen, color.Bold),
			helper.Style(strings.Join(info.Pages(), ", "), color.FgYellow),
		)
		for _, m := range info.Mentions {
			b.WriteString("\t")
			b.WriteString(FormatMention(m))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatMention renders a mention with surrounding context, the mention itself
// bold and underlined, followed by its page and segment number.
func FormatMention(m model.Mention) string {
	if m.Surface() == "" {
		return helper.Style(fmt.Sprintf("[%s - s:%d]", m.Page, m.SegmentNumber), color.Italic)
	}

	from := runeBoundary(m.Text, max(0, m.Start-ContextWidth))
	to := max(m.End, runeBoundary(m.Text, min(len(m.Text), m.End+ContextWidth)))

	return helper.Style(m.Text[from:m.Start], color.FgMagenta) +
		helper.Style(m.Text[m.Start:m.End], color.Bold, color.Underline) +
		helper.Style(m.Text[m.End:to], color.FgMagenta) +
		" " + helper.Style(fmt.Sprintf("[%s - s:%d]", m.Page, m.SegmentNumber), color.Italic)
}

func runeBoundary(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
