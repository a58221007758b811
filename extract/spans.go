package extract

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sthevan027/converso/model"
)

// ascentRatio approximates a font's ascent above the baseline as a fraction
// of its size, used to place span boxes without parsing font metrics.
const ascentRatio = 0.8

// buildSpans converts a page's raw text items into merged spans. Items come
// from the content stream in draw order; they are re-sorted into reading
// order and fused wherever consecutive items share a baseline and style and
// sit close enough to belong to the same word cluster.
func buildSpans(texts []pdf.Text, pageIndex int, pageHeight float64) []model.Span {
	items := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || t.S == "\n" {
			continue
		}
		items = append(items, t)
	}
	if len(items) == 0 {
		return nil
	}

	// Reading order: top of page first (higher bottom-origin Y), then left
	// to right.
	sort.SliceStable(items, func(i, j int) bool {
		yi, yj := items[i].Y, items[j].Y
		if diff := yi - yj; diff > 0.5 || diff < -0.5 {
			return yi > yj
		}
		return items[i].X < items[j].X
	})

	var spans []model.Span
	var cur *spanBuilder
	for _, t := range items {
		if cur != nil && cur.accepts(t) {
			cur.add(t)
			continue
		}
		if cur != nil {
			spans = append(spans, cur.span(pageIndex, pageHeight))
		}
		cur = newSpanBuilder(t)
	}
	if cur != nil {
		spans = append(spans, cur.span(pageIndex, pageHeight))
	}
	return spans
}

// spanBuilder accumulates adjacent text items into one span.
type spanBuilder struct {
	font     string
	size     float64
	baseline float64 // bottom-origin
	x0, x1   float64
	text     strings.Builder
}

func newSpanBuilder(t pdf.Text) *spanBuilder {
	b := &spanBuilder{
		font:     t.Font,
		size:     t.FontSize,
		baseline: t.Y,
		x0:       t.X,
		x1:       t.X + t.W,
	}
	b.text.WriteString(t.S)
	return b
}

// accepts reports whether the item continues the current span: same font and
// size, same baseline, and no gap wide enough to be a word or column break.
func (b *spanBuilder) accepts(t pdf.Text) bool {
	if t.Font != b.font || abs(t.FontSize-b.size) > 0.1 {
		return false
	}
	if abs(t.Y-b.baseline) > 0.5 {
		return false
	}
	gap := t.X - b.x1
	return gap <= b.size*0.25 && gap >= -b.size
}

func (b *spanBuilder) add(t pdf.Text) {
	if gap := t.X - b.x1; gap > b.size*0.12 && !strings.HasSuffix(lastRune(b), " ") && !strings.HasPrefix(t.S, " ") {
		b.text.WriteByte(' ')
	}
	b.text.WriteString(t.S)
	if end := t.X + t.W; end > b.x1 {
		b.x1 = end
	}
}

func lastRune(b *spanBuilder) string {
	s := b.text.String()
	if s == "" {
		return ""
	}
	return s[len(s)-1:]
}

// span finalizes the builder into a model span, flipping to top-origin
// coordinates.
func (b *spanBuilder) span(pageIndex int, pageHeight float64) model.Span {
	top := pageHeight - b.baseline - b.size*ascentRatio
	name := cleanFontName(b.font)
	return model.Span{
		Text:      b.text.String(),
		PageIndex: pageIndex,
		BBox:      model.BBox{X0: b.x0, Y0: top, X1: b.x1, Y1: top + b.size},
		Baseline:  pageHeight - b.baseline,
		FontName:  name,
		FontSize:  b.size,
		Bold:      fontIsBold(name),
		Italic:    fontIsItalic(name),
		Color:     model.Black,
	}
}

// cleanFontName strips the subset prefix embedded fonts carry
// ("ABCDEF+Times-Bold" reads as "Times-Bold").
func cleanFontName(name string) string {
	if i := strings.IndexByte(name, '+'); i >= 0 && i == 6 {
		return name[i+1:]
	}
	return name
}

func fontIsBold(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "bold") || strings.Contains(n, "black") || strings.Contains(n, "heavy")
}

func fontIsItalic(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "italic") || strings.Contains(n, "oblique")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
