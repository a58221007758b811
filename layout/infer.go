package layout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sthevan027/converso/model"
)

// RawBlock is an intermediate block produced by the inference engine: a typed
// group of lines that the paragraph reconstructor turns into a LogicalBlock
// with formatting runs.
type RawBlock struct {
	Kind      model.BlockKind
	Level     int
	Marker    string
	Lines     []Line
	Table     *model.TableRegion
	PageIndex int
	Y         float64
}

// Degradation records a classification that fell back to a safer, more
// generic class. It is a warning signal, not an error: the run continues.
type Degradation struct {
	PageIndex int
	Detail    string
}

// Engine is the structure inference engine. It consumes a page's spans
// (headers and footers already excluded) and produces typed raw blocks using
// the document-wide font statistics and a quality profile's thresholds.
type Engine struct {
	profile        Profile
	stats          *FontStats
	preserveLayout bool
}

// NewEngine creates an inference engine. stats must come from the
// document-wide histogram pass; profile supplies the gap and alignment
// thresholds; preserveLayout enables column-aware ordering.
func NewEngine(profile Profile, stats *FontStats, preserveLayout bool) *Engine {
	return &Engine{profile: profile, stats: stats, preserveLayout: preserveLayout}
}

// listMarkerRe matches bullet glyphs and numbering patterns at the start of
// a line: "•", "-", "*", "1.", "1)", "a.", "a)", roman numerals.
var listMarkerRe = regexp.MustCompile(`^([•‣◦▪→►*]|[-–]|\d{1,3}[.)]|[a-zA-Z][.)]|[ivxIVX]{1,5}[.)])\s+`)

// InferPage classifies one page's lines into raw blocks: headings, list
// items, table regions, and paragraphs. Classification never fails; ambiguous
// input degrades to the next safer class and the degradation is returned as
// a warning.
func (e *Engine) InferPage(page model.Page) ([]RawBlock, []Degradation) {
	lines := BuildLines(page)
	if len(lines) == 0 {
		return nil, nil
	}
	if e.preserveLayout {
		lines = orderByColumns(lines, page.Width)
	}

	var degradations []Degradation

	tables := detectTableRegions(lines, e.profile)
	for _, t := range tables {
		if t.degraded {
			degradations = append(degradations, Degradation{
				PageIndex: page.Index,
				Detail:    "table region with misaligned rows kept as merged cells",
			})
		}
	}

	var blocks []RawBlock
	ti := 0
	i := 0
	for i < len(lines) {
		if ti < len(tables) && tables[ti].start == i {
			t := tables[ti]
			blocks = append(blocks, RawBlock{
				Kind:      model.KindTableRegion,
				Table:     t.table,
				Lines:     lines[t.start:t.end],
				PageIndex: page.Index,
				Y:         lines[t.start].BBox.Y0,
			})
			i = t.end
			ti++
			continue
		}

		next := len(lines)
		if ti < len(tables) {
			next = tables[ti].start
		}
		segment, degs := e.classifyLines(lines[i:next], page.Index)
		blocks = append(blocks, segment...)
		degradations = append(degradations, degs...)
		i = next
	}

	return blocks, degradations
}

// classifyLines runs the sequential heading/list/paragraph state machine
// over a stretch of non-table lines.
func (e *Engine) classifyLines(lines []Line, pageIndex int) ([]RawBlock, []Degradation) {
	var blocks []RawBlock
	var degradations []Degradation

	flushInto := func(b RawBlock) {
		if len(b.Lines) > 0 {
			blocks = append(blocks, b)
		}
	}

	var current RawBlock
	open := false

	for _, line := range lines {
		level := e.stats.HeadingLevel(line.FontSize)
		marker := listMarkerRe.FindString(line.Text)

		// A heading-sized line that reads like running text is safer as a
		// paragraph (under-structuring beats corrupting content).
		if level > 0 && len(strings.Fields(line.Text)) > 20 {
			degradations = append(degradations, Degradation{
				PageIndex: pageIndex,
				Detail:    fmt.Sprintf("heading-sized line with %d words treated as paragraph", len(strings.Fields(line.Text))),
			})
			level = 0
		}

		switch {
		case level > 0:
			if open && current.Kind == model.KindHeading && current.Level == level &&
				len(current.Lines) < 3 && e.sameBlock(current.Lines[len(current.Lines)-1], line) {
				current.Lines = append(current.Lines, line)
				continue
			}
			flushInto(current)
			current = RawBlock{
				Kind:      model.KindHeading,
				Level:     level,
				Lines:     []Line{line},
				PageIndex: pageIndex,
				Y:         line.BBox.Y0,
			}
			open = true

		case marker != "":
			flushInto(current)
			current = RawBlock{
				Kind:      model.KindListItem,
				Marker:    strings.TrimSpace(marker),
				Lines:     []Line{line},
				PageIndex: pageIndex,
				Y:         line.BBox.Y0,
			}
			open = true

		default:
			if open && current.Kind == model.KindListItem &&
				e.sameBlock(current.Lines[len(current.Lines)-1], line) &&
				line.Indent >= current.Lines[0].Indent-e.profile.IndentTolerance {
				// Continuation line of the same list item.
				current.Lines = append(current.Lines, line)
				continue
			}
			if open && current.Kind == model.KindParagraph &&
				e.sameBlock(current.Lines[len(current.Lines)-1], line) {
				current.Lines = append(current.Lines, line)
				continue
			}
			flushInto(current)
			current = RawBlock{
				Kind:      model.KindParagraph,
				Lines:     []Line{line},
				PageIndex: pageIndex,
				Y:         line.BBox.Y0,
			}
			open = true
		}
	}
	flushInto(current)

	return blocks, degradations
}

// sameBlock reports whether next continues the block ending at prev: the
// vertical gap stays under the profile threshold and the left indent does not
// shift beyond tolerance.
func (e *Engine) sameBlock(prev, next Line) bool {
	lineHeight := prev.BBox.Height()
	if lineHeight <= 0 {
		lineHeight = prev.FontSize * 1.2
	}
	if prev.Gap(next) > lineHeight*e.profile.GapFactor {
		return false
	}
	if abs(next.Indent-prev.Indent) > e.profile.IndentTolerance {
		return false
	}
	return true
}

// orderByColumns reorders lines column-by-column when the page shows a clear
// two-column gutter: a vertical band in the middle of the page that almost no
// line crosses, with substantial text on both sides. Full-width lines are
// kept with the left column in Y order.
func orderByColumns(lines []Line, pageWidth float64) []Line {
	gutter, ok := findGutter(lines, pageWidth)
	if !ok {
		return lines
	}

	var left, right []Line
	for _, l := range lines {
		if l.BBox.X0 >= gutter {
			right = append(right, l)
		} else {
			left = append(left, l)
		}
	}
	sort.SliceStable(left, func(i, j int) bool { return left[i].BBox.Y0 < left[j].BBox.Y0 })
	sort.SliceStable(right, func(i, j int) bool { return right[i].BBox.Y0 < right[j].BBox.Y0 })
	return append(left, right...)
}

// findGutter scans candidate gutter positions across the middle of the page
// and returns the first one that at least 90% of lines do not cross, with at
// least 20% of lines on each side.
func findGutter(lines []Line, pageWidth float64) (float64, bool) {
	if len(lines) < 6 || pageWidth <= 0 {
		return 0, false
	}

	const halfBand = 6.0
	for frac := 0.40; frac <= 0.60; frac += 0.05 {
		x := pageWidth * frac
		crossing, leftOnly, rightOnly := 0, 0, 0
		for _, l := range lines {
			switch {
			case l.BBox.X1 < x-halfBand:
				leftOnly++
			case l.BBox.X0 > x+halfBand:
				rightOnly++
			default:
				crossing++
			}
		}
		total := len(lines)
		if crossing <= total/10 &&
			leftOnly >= total/5 && rightOnly >= total/5 {
			return x, true
		}
	}
	return 0, false
}
