// Package pdfwriter renders flow documents back onto pages: logical blocks
// (the DOCX to PDF path), plain text, and a Markdown subset all become
// paginated A4 output with wrapped lines and automatic page breaks.
package pdfwriter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/sthevan027/converso/model"
)

// Config holds the page geometry and type defaults.
type Config struct {
	// Margin is the uniform page margin in points.
	Margin float64

	// BodySize is the base font size in points.
	BodySize float64

	// LineSpacing is the leading as a multiple of the font size.
	LineSpacing float64
}

// DefaultConfig returns the standard geometry: A4, one inch margins, 11pt
// body set at 1.5 leading.
func DefaultConfig() Config {
	return Config{
		Margin:      72,
		BodySize:    11,
		LineSpacing: 1.5,
	}
}

// headingSize maps a heading level to its point size. Levels past three keep
// the smallest heading size.
func headingSize(level int) float64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 14
	default:
		return 12
	}
}

// titleSize is the point size for a Title-styled source paragraph.
const titleSize = 20

// Writer renders documents to PDF.
type Writer struct {
	config Config
}

// NewWriter creates a writer with default configuration.
func NewWriter() *Writer {
	return &Writer{config: DefaultConfig()}
}

// NewWriterWithConfig creates a writer with custom configuration.
func NewWriterWithConfig(config Config) *Writer {
	return &Writer{config: config}
}

// newPDF builds the gofpdf document with the configured geometry.
func (w *Writer) newPDF() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(w.config.Margin, w.config.Margin, w.config.Margin)
	pdf.SetAutoPageBreak(true, w.config.Margin)
	pdf.AddPage()
	return pdf
}

func (w *Writer) leading(size float64) float64 {
	return size * w.config.LineSpacing
}

// WriteBlocks renders a logical block sequence. Headings map to 18/14/12pt
// bold (Title-styled paragraphs to 20pt), list items keep their markers,
// tables render one "cell | cell" line per row, images embed inline at their
// display size. Header and footer text blocks are page furniture, not flow
// content; they are skipped here.
func (w *Writer) WriteBlocks(out io.Writer, blocks []model.LogicalBlock) error {
	pdf := w.newPDF()

	for i := range blocks {
		b := &blocks[i]
		switch b.Kind {
		case model.KindHeaderText, model.KindFooterText:
			continue

		case model.KindHeading:
			size := headingSize(b.Level)
			if b.Marker == "title" {
				size = titleSize
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, w.leading(size), b.Text(), "", "L", false)
			pdf.Ln(w.leading(size) * 0.3)

		case model.KindListItem:
			w.writeRuns(pdf, append([]model.Run{{Text: b.Marker + " "}}, b.Runs...))

		case model.KindTableRegion:
			w.writeTable(pdf, b.Table)

		case model.KindImage:
			w.writeImage(pdf, b.Image)

		default:
			if len(b.Runs) == 0 {
				// Blank source paragraph keeps half a line of air.
				pdf.Ln(w.leading(w.config.BodySize) / 2)
				continue
			}
			w.writeRuns(pdf, b.Runs)
		}
	}
	return w.output(pdf, out)
}

// writeRuns flows styled runs as one wrapped paragraph. The trailing air
// keeps paragraph gaps clearly wider than the wrapped-line leading, so
// paragraph breaks survive re-extraction.
func (w *Writer) writeRuns(pdf *gofpdf.Fpdf, runs []model.Run) {
	size := w.config.BodySize
	for _, r := range runs {
		style := ""
		if r.Bold {
			style += "B"
		}
		if r.Italic {
			style += "I"
		}
		pdf.SetFont("Helvetica", style, size)
		pdf.Write(w.leading(size), r.Text)
	}
	pdf.Ln(w.leading(size))
	pdf.Ln(w.leading(size) * 0.8)
}

// writeTable renders rows as "cell | cell" lines.
func (w *Writer) writeTable(pdf *gofpdf.Fpdf, t *model.TableRegion) {
	if t == nil {
		return
	}
	const size = 10.0
	pdf.SetFont("Helvetica", "", size)
	for _, row := range t.Cells {
		line := strings.Join(row, " | ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.MultiCell(0, w.leading(size), line, "", "L", false)
	}
	pdf.Ln(w.leading(w.config.BodySize) * 0.3)
}

// writeImage embeds one extracted image at its display size, scaled from
// 96dpi pixels to points and clamped to the text width.
func (w *Writer) writeImage(pdf *gofpdf.Fpdf, img *model.ExtractedImage) {
	if img == nil || len(img.Data) == 0 {
		return
	}
	imageType := "JPG"
	if img.Format == "png" {
		imageType = "PNG"
	}
	name := fmt.Sprintf("img-%p", img)
	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))

	width := float64(img.Width) * 72 / 96
	pageW, _ := pdf.GetPageSize()
	if max := pageW - 2*w.config.Margin; width > max {
		width = max
	}
	pdf.ImageOptions(name, w.config.Margin, pdf.GetY(), width, 0, true, opts, 0, "")
	pdf.Ln(w.leading(w.config.BodySize) * 0.3)
}

// WriteText renders plain text: body-sized lines in source order, wrapped to
// the text width.
func (w *Writer) WriteText(out io.Writer, text string) error {
	pdf := w.newPDF()
	size := w.config.BodySize
	pdf.SetFont("Helvetica", "", size)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(w.leading(size))
			continue
		}
		pdf.MultiCell(0, w.leading(size), line, "", "L", false)
	}
	return w.output(pdf, out)
}

// WriteMarkdown renders the Markdown heading subset: "#", "##", "###" become
// 18/14/12pt bold lines, everything else flows as body text.
func (w *Writer) WriteMarkdown(out io.Writer, text string) error {
	pdf := w.newPDF()

	for _, line := range strings.Split(text, "\n") {
		size := w.config.BodySize
		style := ""
		switch {
		case strings.HasPrefix(line, "### "):
			size, style, line = headingSize(3), "B", line[4:]
		case strings.HasPrefix(line, "## "):
			size, style, line = headingSize(2), "B", line[3:]
		case strings.HasPrefix(line, "# "):
			size, style, line = headingSize(1), "B", line[2:]
		}

		pdf.SetFont("Helvetica", style, size)
		if strings.TrimSpace(line) == "" {
			pdf.Ln(w.leading(size))
			continue
		}
		pdf.MultiCell(0, w.leading(size), line, "", "L", false)
		if style == "B" {
			pdf.Ln(5)
		}
	}
	return w.output(pdf, out)
}

func (w *Writer) output(pdf *gofpdf.Fpdf, out io.Writer) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
