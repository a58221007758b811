package extract

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		pageCount  int
		wantStart  int
		wantEnd    int
		wantErr    bool
	}{
		{"defaults to full document", 0, 0, 10, 1, 10, false},
		{"explicit subrange", 3, 7, 10, 3, 7, false},
		{"single page", 5, 5, 10, 5, 5, false},
		{"open end", 4, 0, 10, 4, 10, false},
		{"start below one", -1, 5, 10, 0, 0, true},
		{"end past document", 1, 11, 10, 0, 0, true},
		{"inverted range", 8, 3, 10, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := resolveRange(tt.start, tt.end, tt.pageCount)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d-%d", start, end)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("resolved %d-%d, want %d-%d", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// item builds a raw text item at a bottom-origin baseline.
func item(s string, x, y, w, size float64, font string) pdf.Text {
	return pdf.Text{Font: font, FontSize: size, X: x, Y: y, W: w, S: s}
}

func TestBuildSpansMergesAdjacentItems(t *testing.T) {
	texts := []pdf.Text{
		item("Hel", 72, 700, 18, 11, "Times-Roman"),
		item("lo", 90, 700, 12, 11, "Times-Roman"),
	}

	spans := buildSpans(texts, 0, 792)
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Text != "Hello" {
		t.Errorf("merged text = %q, want %q", spans[0].Text, "Hello")
	}
	if spans[0].BBox.X0 != 72 || spans[0].BBox.X1 != 102 {
		t.Errorf("span box = %+v", spans[0].BBox)
	}
}

func TestBuildSpansSplitsOnWideGap(t *testing.T) {
	texts := []pdf.Text{
		item("left", 72, 700, 25, 11, "Times-Roman"),
		item("right", 300, 700, 30, 11, "Times-Roman"),
	}

	spans := buildSpans(texts, 0, 792)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2 across a column gap", len(spans))
	}
}

func TestBuildSpansSplitsOnStyleChange(t *testing.T) {
	texts := []pdf.Text{
		item("plain ", 72, 700, 35, 11, "Times-Roman"),
		item("strong", 107, 700, 38, 11, "Times-Bold"),
	}

	spans := buildSpans(texts, 0, 792)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Bold {
		t.Errorf("plain span marked bold")
	}
	if !spans[1].Bold {
		t.Errorf("Times-Bold span not marked bold")
	}
}

func TestBuildSpansTopOriginConversion(t *testing.T) {
	// A baseline near the bottom-origin top of the page must come out with
	// a small top-origin Y, and above lower content.
	texts := []pdf.Text{
		item("upper", 72, 750, 30, 12, "Helvetica"),
		item("lower", 72, 100, 30, 12, "Helvetica"),
	}

	spans := buildSpans(texts, 0, 792)
	if len(spans) != 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	if spans[0].Text != "upper" {
		t.Fatalf("reading order wrong: first span %q", spans[0].Text)
	}
	if spans[0].BBox.Y0 >= spans[1].BBox.Y0 {
		t.Errorf("top-origin order inverted: upper Y0=%v, lower Y0=%v",
			spans[0].BBox.Y0, spans[1].BBox.Y0)
	}
	if spans[0].Baseline != 792-750 {
		t.Errorf("baseline = %v, want %v", spans[0].Baseline, 792-750)
	}
}

func TestBuildSpansReadingOrder(t *testing.T) {
	// Draw order differs from reading order.
	texts := []pdf.Text{
		item("second", 72, 600, 40, 11, "Helvetica"),
		item("first", 72, 700, 30, 11, "Helvetica"),
		item("also first line", 110, 700, 90, 11, "Helvetica"),
	}

	spans := buildSpans(texts, 0, 792)
	if len(spans) < 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	if spans[0].Baseline >= spans[len(spans)-1].Baseline {
		t.Errorf("spans not in top-down order")
	}
}

func TestBuildSpansDropsEmptyItems(t *testing.T) {
	texts := []pdf.Text{
		item("", 72, 700, 0, 11, "Helvetica"),
		item("\n", 72, 700, 0, 11, "Helvetica"),
	}
	if spans := buildSpans(texts, 0, 792); spans != nil {
		t.Errorf("empty items produced %d spans", len(spans))
	}
}

func TestCleanFontName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ABCDEF+Times-Bold", "Times-Bold"},
		{"Helvetica", "Helvetica"},
		{"BA+X", "BA+X"}, // not a six-letter subset tag
	}
	for _, tt := range tests {
		if got := cleanFontName(tt.in); got != tt.want {
			t.Errorf("cleanFontName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFontStyleInference(t *testing.T) {
	tests := []struct {
		name   string
		bold   bool
		italic bool
	}{
		{"Times-Bold", true, false},
		{"Helvetica-Oblique", false, true},
		{"Arial-BoldItalic", true, true},
		{"Georgia", false, false},
		{"NotoSans-Black", true, false},
	}
	for _, tt := range tests {
		if got := fontIsBold(tt.name); got != tt.bold {
			t.Errorf("fontIsBold(%q) = %v", tt.name, got)
		}
		if got := fontIsItalic(tt.name); got != tt.italic {
			t.Errorf("fontIsItalic(%q) = %v", tt.name, got)
		}
	}
}

func TestSyntheticSpans(t *testing.T) {
	spans := syntheticSpans("First recognized line\n\nSecond block", 3, 612)
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Text != "First recognized line" || spans[1].Text != "Second block" {
		t.Errorf("texts = %q, %q", spans[0].Text, spans[1].Text)
	}
	if spans[0].PageIndex != 3 {
		t.Errorf("page index = %d", spans[0].PageIndex)
	}
	if spans[1].BBox.Y0 <= spans[0].BBox.Y0 {
		t.Errorf("lines not stacked downward")
	}
	// The blank line widens the vertical gap past one leading.
	if gap := spans[1].BBox.Y0 - spans[0].BBox.Y0; gap <= 18 {
		t.Errorf("blank line not reflected in spacing, gap = %v", gap)
	}
}

func TestSyntheticSpansEmpty(t *testing.T) {
	if spans := syntheticSpans("", 0, 612); spans != nil {
		t.Errorf("empty text produced %d spans", len(spans))
	}
}
