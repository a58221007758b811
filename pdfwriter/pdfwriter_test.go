package pdfwriter

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/sthevan027/converso/model"
)

// checkPDF asserts buf holds a complete PDF document.
func checkPDF(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Fatalf("output has no PDF trailer")
	}
}

func TestWriteTextProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter().WriteText(&buf, "First line\n\nSecond paragraph of text")
	if err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	checkPDF(t, &buf)
}

func TestWriteTextPaginatesLongInput(t *testing.T) {
	// Enough lines to overflow one A4 page at 11pt and 1.5 leading.
	long := strings.Repeat("A line of body text that fills some width on the page.\n", 120)

	var short, many bytes.Buffer
	if err := NewWriter().WriteText(&short, "one line"); err != nil {
		t.Fatalf("short: %v", err)
	}
	if err := NewWriter().WriteText(&many, long); err != nil {
		t.Fatalf("long: %v", err)
	}
	checkPDF(t, &many)
	if many.Len() <= short.Len() {
		t.Errorf("long input did not grow the document (%d vs %d bytes)", many.Len(), short.Len())
	}
}

func TestWriteMarkdownHeadings(t *testing.T) {
	var buf bytes.Buffer
	md := "# Top\n\nBody text under the top heading.\n\n## Second\n\n### Third\n\nMore body."
	if err := NewWriter().WriteMarkdown(&buf, md); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	checkPDF(t, &buf)
}

func TestWriteBlocks(t *testing.T) {
	blocks := []model.LogicalBlock{
		{Kind: model.KindHeading, Level: 1, Runs: []model.Run{{Text: "Section", Bold: true}}},
		{Kind: model.KindParagraph, Runs: []model.Run{
			{Text: "Mixed "},
			{Text: "bold", Bold: true},
			{Text: " and "},
			{Text: "italic", Italic: true},
		}},
		{Kind: model.KindListItem, Marker: "•", Runs: []model.Run{{Text: "bullet"}}},
		{Kind: model.KindTableRegion, Table: &model.TableRegion{
			Cells: [][]string{{"a", "b"}, {"c", "d"}},
		}},
		{Kind: model.KindParagraph}, // blank paragraph: vertical air only
		{Kind: model.KindHeaderText, Runs: []model.Run{{Text: "skipped furniture"}}},
	}

	var buf bytes.Buffer
	if err := NewWriter().WriteBlocks(&buf, blocks); err != nil {
		t.Fatalf("WriteBlocks: %v", err)
	}
	checkPDF(t, &buf)
}

func TestWriteBlocksEmbedsImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 120, A: 255})
		}
	}
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		t.Fatal(err)
	}

	blocks := []model.LogicalBlock{
		{Kind: model.KindImage, Image: &model.ExtractedImage{
			Data:   payload.Bytes(),
			Format: "png",
			Width:  40,
			Height: 20,
		}},
	}

	var buf bytes.Buffer
	if err := NewWriter().WriteBlocks(&buf, blocks); err != nil {
		t.Fatalf("WriteBlocks: %v", err)
	}
	checkPDF(t, &buf)
}

func TestWriteBlocksRejectsBadImage(t *testing.T) {
	blocks := []model.LogicalBlock{
		{Kind: model.KindImage, Image: &model.ExtractedImage{
			Data:   []byte("not a png"),
			Format: "png",
			Width:  40,
			Height: 20,
		}},
	}
	var buf bytes.Buffer
	if err := NewWriter().WriteBlocks(&buf, blocks); err == nil {
		t.Fatalf("expected error for undecodable embedded image")
	}
}

func TestHeadingSize(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 18}, {2, 14}, {3, 12}, {4, 12}, {6, 12},
	}
	for _, tt := range tests {
		if got := headingSize(tt.level); got != tt.want {
			t.Errorf("headingSize(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
