package extract

import (
	"context"
	"strings"

	"github.com/sthevan027/converso/model"
)

// TextProvider supplies fallback text for a page whose embedded text layer is
// empty. Implementations receive the source path and the 1-based page number
// and return the recognized plain text, empty when nothing was found.
type TextProvider interface {
	PageText(ctx context.Context, path string, pageNum int) (string, error)
}

// syntheticSpans lays recognized text onto a page as body-sized spans, one
// per line, stacked from the top margin. The geometry is nominal; it exists
// so the downstream line and paragraph heuristics have something to work
// with.
func syntheticSpans(text string, pageIndex int, pageWidth float64) []model.Span {
	const (
		size      = 12.0
		leading   = size * 1.5
		marginX   = 72.0
		marginY   = 72.0
		charWidth = size * 0.5
	)

	var spans []model.Span
	y := marginY
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			y += leading
			continue
		}
		width := float64(len([]rune(line))) * charWidth
		if max := pageWidth - 2*marginX; width > max && max > 0 {
			width = max
		}
		spans = append(spans, model.Span{
			Text:      line,
			PageIndex: pageIndex,
			BBox:      model.BBox{X0: marginX, Y0: y, X1: marginX + width, Y1: y + size},
			Baseline:  y + size,
			FontName:  "ocr",
			FontSize:  size,
			Color:     model.Black,
		})
		y += leading
	}
	return spans
}
