package layout

import (
	"testing"

	"github.com/sthevan027/converso/model"
)

// span builds a test span at (x, y) with the given width, font size and
// style flags. Height follows the font size.
func span(text string, page int, x, y, w, size float64, bold, italic bool) model.Span {
	return model.Span{
		Text:      text,
		PageIndex: page,
		BBox:      model.BBox{X0: x, Y0: y, X1: x + w, Y1: y + size},
		Baseline:  y + size,
		FontName:  "Helvetica",
		FontSize:  size,
		Bold:      bold,
		Italic:    italic,
		Color:     model.Black,
	}
}

// bodySpan is the common case: plain body text.
func bodySpan(text string, page int, x, y, w float64) model.Span {
	return span(text, page, x, y, w, 11, false, false)
}

// page builds a Letter-sized test page from spans.
func page(index int, spans ...model.Span) model.Page {
	return model.Page{Index: index, Width: 612, Height: 792, Spans: spans}
}

func TestBuildLinesGroupsByBaseline(t *testing.T) {
	p := page(0,
		bodySpan("Hello", 0, 72, 100, 40),
		bodySpan("world", 0, 120, 100.4, 40), // same line, slight jitter
		bodySpan("Second line", 0, 72, 116, 90),
	)

	lines := BuildLines(p)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "Hello world" {
		t.Errorf("first line = %q, want %q", lines[0].Text, "Hello world")
	}
	if lines[1].Text != "Second line" {
		t.Errorf("second line = %q", lines[1].Text)
	}
}

func TestBuildLinesInsertsWordSpacing(t *testing.T) {
	// Two spans with a gap larger than 30% of the font size get a space;
	// hard-adjacent spans do not.
	p := page(0,
		bodySpan("foo", 0, 72, 100, 20),
		bodySpan("bar", 0, 100, 100, 20),  // 8pt gap > 3.3 -> space
		bodySpan("baz!", 0, 120.5, 100, 25), // 0.5pt gap -> no space
	)

	lines := BuildLines(p)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Text != "foo barbaz!" {
		t.Errorf("line text = %q, want %q", lines[0].Text, "foo barbaz!")
	}
}

func TestBuildLinesSortsTopToBottom(t *testing.T) {
	p := page(0,
		bodySpan("lower", 0, 72, 300, 50),
		bodySpan("upper", 0, 72, 100, 50),
	)

	lines := BuildLines(p)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "upper" || lines[1].Text != "lower" {
		t.Errorf("order = %q, %q", lines[0].Text, lines[1].Text)
	}
}

func TestBuildLinesDominantFontSize(t *testing.T) {
	p := page(0,
		span("Mostly body text here", 0, 72, 100, 150, 11, false, false),
		span("x", 0, 230, 100, 5, 18, false, false),
	)

	lines := BuildLines(p)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].FontSize != 11 {
		t.Errorf("dominant font size = %v, want 11", lines[0].FontSize)
	}
}

func TestBuildLinesEmptyPage(t *testing.T) {
	if lines := BuildLines(page(0)); lines != nil {
		t.Errorf("empty page should yield no lines, got %d", len(lines))
	}
}

func TestLineGap(t *testing.T) {
	p := page(0,
		bodySpan("a", 0, 72, 100, 10),
		bodySpan("b", 0, 72, 130, 10),
	)
	lines := BuildLines(p)
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	gap := lines[0].Gap(lines[1])
	if gap != 19 { // 130 - (100+11)
		t.Errorf("gap = %v, want 19", gap)
	}
}
