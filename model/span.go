package model

import "sort"

// Span is a contiguous run of text sharing one font, size, and style, with
// its position on the page. Spans are immutable once extracted.
type Span struct {
	// Text is the span's text content.
	Text string

	// PageIndex is the 0-based index of the page this span belongs to.
	PageIndex int

	// BBox is the span's bounding box in top-origin page coordinates.
	BBox BBox

	// Baseline is the Y coordinate of the text baseline.
	Baseline float64

	// FontName is the font family name as reported by the source
	// (e.g. "Helvetica-Bold").
	FontName string

	// FontSize is the font size in points.
	FontSize float64

	// Bold and Italic are style flags, derived from font metadata.
	Bold   bool
	Italic bool

	// Color is the fill color of the text.
	Color Color
}

// Page is an ordered sequence of spans plus the page dimensions. Pages are
// produced by the extractor and read-only downstream.
type Page struct {
	// Index is the 0-based page index within the source document.
	Index int

	// Width and Height are the page dimensions in points.
	Width  float64
	Height float64

	// Spans are the page's text spans in reading order.
	Spans []Span
}

// SortReadingOrder sorts spans top-to-bottom, then left-to-right. Spans whose
// vertical centers are within half a line height are treated as one line and
// ordered by X; ties fall back to the original extraction order, which the
// caller preserves by passing spans in that order (sort is stable).
func SortReadingOrder(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		tol := a.BBox.Height() / 2
		if tol <= 0 {
			tol = 2.0
		}
		dy := a.BBox.CenterY() - b.BBox.CenterY()
		if dy < -tol {
			return true
		}
		if dy > tol {
			return false
		}
		return a.BBox.X0 < b.BBox.X0
	})
}

// BandKind identifies which edge of the page a margin band covers.
type BandKind int

const (
	BandTop BandKind = iota
	BandBottom
)

func (k BandKind) String() string {
	if k == BandTop {
		return "top"
	}
	return "bottom"
}

// MarginBand is a vertical page region scanned for recurring header or footer
// content. The fraction is document-wide: the same band applies uniformly to
// every page of one document.
type MarginBand struct {
	// Kind is the page edge this band covers.
	Kind BandKind

	// Fraction is the band height as a fraction of page height, in [0,1].
	Fraction float64

	// Spans are the spans falling inside the band across all pages.
	Spans []Span
}

// Contains reports whether a span's vertical center falls inside the band on
// a page of the given height.
func (m MarginBand) Contains(s Span, pageHeight float64) bool {
	if m.Fraction <= 0 {
		return false
	}
	center := s.BBox.CenterY()
	if m.Kind == BandTop {
		return center < pageHeight*m.Fraction
	}
	return center > pageHeight*(1-m.Fraction)
}
