package model

import "math"

// Rectangle is an axis-aligned box in page coordinates with the origin at the
// top-left corner of the page.
type Rectangle struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewRectangle creates a rectangle from its top-left corner and size.
func NewRectangle(left, top, width, height float64) Rectangle {
	return Rectangle{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

func (r Rectangle) Width() float64 {
	return r.Right - r.Left
}

func (r Rectangle) Height() float64 {
	return r.Bottom - r.Top
}

func (r Rectangle) Area() float64 {
	return math.Max(r.Width(), 0) * math.Max(r.Height(), 0)
}

// Overlaps reports whether the two rectangles share at least an edge.
func (r Rectangle) Overlaps(other Rectangle) bool {
	return r.Top <= other.Bottom &&
		r.Bottom >= other.Top &&
		r.Left <= other.Right &&
		r.Right >= other.Left
}

// IntersectionPercentage returns the area shared with other as a percentage
// of r's own area. A rectangle without area yields 0.
func (r Rectangle) IntersectionPercentage(other Rectangle) float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}

	width := math.Min(r.Right, other.Right) - math.Max(r.Left, other.Left)
	height := math.Min(r.Bottom, other.Bottom) - math.Max(r.Top, other.Top)
	if width <= 0 || height <= 0 {
		return 0
	}

	return width * height / area * 100
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rectangle) Union(other Rectangle) Rectangle {
	return Rectangle{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// MergeRectangles returns the union of all rectangles, or the zero rectangle
// for an empty slice.
func MergeRectangles(rectangles []Rectangle) Rectangle {
	if len(rectangles) == 0 {
		return Rectangle{}
	}
	merged := rectangles[0]
	for _, r := range rectangles[1:] {
		merged = merged.Union(r)
	}
	return merged
}
