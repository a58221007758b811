package layout

import (
	"sort"
	"strings"

	"github.com/sthevan027/converso/model"
)

// Line is a single visual line of text on a page: the spans sharing one
// baseline band, sorted left to right.
type Line struct {
	// PageIndex is the 0-based source page.
	PageIndex int

	// BBox is the union of the span boxes.
	BBox model.BBox

	// Spans are the line's spans in left-to-right order.
	Spans []model.Span

	// Text is the assembled line text with inferred word spacing.
	Text string

	// FontSize is the dominant (largest by text weight) font size.
	FontSize float64

	// Indent is the line's left edge.
	Indent float64
}

// Gap returns the vertical gap from the end of l to the start of next.
func (l Line) Gap(next Line) float64 {
	return next.BBox.Y0 - l.BBox.Y1
}

// BuildLines groups a page's spans into lines. Spans whose vertical centers
// lie within half a span height of the running line are part of that line;
// each line is then sorted by X and its text assembled, inserting a space
// wherever the horizontal gap between spans exceeds 30% of the font size.
func BuildLines(page model.Page) []Line {
	if len(page.Spans) == 0 {
		return nil
	}

	spans := make([]model.Span, len(page.Spans))
	copy(spans, page.Spans)
	model.SortReadingOrder(spans)

	var groups [][]model.Span
	current := []model.Span{spans[0]}
	for _, s := range spans[1:] {
		last := current[len(current)-1]
		tol := last.BBox.Height() / 2
		if tol <= 0 {
			tol = 2.0
		}
		if abs(s.BBox.CenterY()-last.BBox.CenterY()) <= tol {
			current = append(current, s)
		} else {
			groups = append(groups, current)
			current = []model.Span{s}
		}
	}
	groups = append(groups, current)

	lines := make([]Line, 0, len(groups))
	for _, group := range groups {
		lines = append(lines, assembleLine(page.Index, group))
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].BBox.Y0 < lines[j].BBox.Y0
	})
	return lines
}

// assembleLine builds one Line from the spans of a single baseline band.
func assembleLine(pageIndex int, group []model.Span) Line {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].BBox.X0 < group[j].BBox.X0
	})

	bbox := group[0].BBox
	var sb strings.Builder
	var lastEndX float64
	sizeWeight := make(map[float64]int)

	for i, s := range group {
		if i > 0 {
			gap := s.BBox.X0 - lastEndX
			if gap > s.FontSize*0.3 && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
			bbox = bbox.Union(s.BBox)
		}
		sb.WriteString(s.Text)
		lastEndX = s.BBox.X1
		sizeWeight[s.FontSize] += len(s.Text)
	}

	dominant := group[0].FontSize
	best := 0
	for size, weight := range sizeWeight {
		if weight > best || (weight == best && size > dominant) {
			best = weight
			dominant = size
		}
	}

	return Line{
		PageIndex: pageIndex,
		BBox:      bbox,
		Spans:     group,
		Text:      sb.String(),
		FontSize:  dominant,
		Indent:    bbox.X0,
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
