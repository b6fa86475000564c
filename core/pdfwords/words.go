// Package pdfwords extracts positioned words from the text layer of a PDF.
package pdfwords

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

const (
	// WordSpaceMultiplier is the share of the font size above which a gap
	// between two glyphs separates words.
	WordSpaceMultiplier = 0.3
	// RowTolerance is the baseline distance in points within which glyphs
	// belong to the same line.
	RowTolerance = 2.0

	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Extract returns the words of every page of the PDF at path in reading order
// and the number of pages.
func Extract(path string) ([]model.WordBox, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, 0, helper.NewError("open pdf", err)
	}
	defer f.Close()

	var words []model.WordBox
	pageCount := r.NumPage()
	for i := 1; i <= pageCount; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		width, height := mediaBox(page.V)
		words = append(words, Words(page.Content().Text, i, width, height)...)
	}

	return words, pageCount, nil
}

// Words groups glyphs of one page into words. Glyphs are sorted into lines by
// baseline, and a line is split on whitespace glyphs and on horizontal gaps
// wider than WordSpaceMultiplier times the font size. Coordinates are
// converted to a top-left origin.
func Words(texts []pdf.Text, pageNumber int, pageWidth, pageHeight float64) []model.WordBox {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Y > glyphs[j].Y
	})

	var words []model.WordBox
	for _, line := range lines(glyphs) {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})

		var current []pdf.Text
		flush := func() {
			if len(current) > 0 {
				words = append(words, wordBox(current, pageNumber, pageWidth, pageHeight))
				current = nil
			}
		}

		for _, g := range line {
			if strings.TrimSpace(g.S) == "" {
				flush()
				continue
			}
			if len(current) > 0 {
				last := current[len(current)-1]
				if g.X-(last.X+last.W) > WordSpaceMultiplier*g.FontSize {
					flush()
				}
			}
			current = append(current, g)
		}
		flush()
	}

	return words
}

// lines splits glyphs sorted by descending baseline into lines.
func lines(glyphs []pdf.Text) [][]pdf.Text {
	var result [][]pdf.Text
	start := 0
	for i := 1; i <= len(glyphs); i++ {
		if i == len(glyphs) || math.Abs(glyphs[i].Y-glyphs[start].Y) > RowTolerance {
			result = append(result, glyphs[start:i])
			start = i
		}
	}
	return result
}

func wordBox(glyphs []pdf.Text, pageNumber int, pageWidth, pageHeight float64) model.WordBox {
	var text strings.Builder
	left, right := glyphs[0].X, glyphs[0].X+glyphs[0].W
	baseline, fontSize := glyphs[0].Y, glyphs[0].FontSize
	for _, g := range glyphs {
		text.WriteString(g.S)
		left = math.Min(left, g.X)
		right = math.Max(right, g.X+g.W)
		baseline = math.Min(baseline, g.Y)
		fontSize = math.Max(fontSize, g.FontSize)
	}

	return model.WordBox{
		Text: strings.TrimSpace(text.String()),
		BoundingBox: model.Rectangle{
			Left:   left,
			Top:    pageHeight - baseline - fontSize,
			Right:  right,
			Bottom: pageHeight - baseline,
		},
		PageNumber: pageNumber,
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
	}
}

// mediaBox returns the page size, following inherited MediaBox entries.
func mediaBox(page pdf.Value) (float64, float64) {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			return box.Index(2).Float64() - box.Index(0).Float64(), box.Index(3).Float64() - box.Index(1).Float64()
		}
	}
	return defaultPageWidth, defaultPageHeight
}
