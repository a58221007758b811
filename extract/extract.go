package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/sthevan027/converso/model"
)

// ErrEncrypted is returned when the source PDF is password protected.
// Encrypted input is rejected rather than partially decoded.
var ErrEncrypted = errors.New("pdf is encrypted")

// Document is an open PDF source. It owns the underlying file handle;
// callers must Close it when done.
type Document struct {
	path      string
	file      *os.File
	reader    *pdf.Reader
	pageCount int

	provider TextProvider
}

// Open opens and validates a PDF. The file is first run through pdfcpu's
// validator, which rejects corrupt and encrypted input with a useful error
// before any page is touched.
func Open(path string) (*Document, error) {
	vf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ctx, err := api.ReadValidateAndOptimize(vf, pdfcpumodel.NewDefaultConfiguration())
	vf.Close()
	if err != nil {
		if isEncryptedErr(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrEncrypted)
		}
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Document{
		path:      path,
		file:      f,
		reader:    r,
		pageCount: ctx.PageCount,
	}, nil
}

// isEncryptedErr sniffs pdfcpu's error text for encryption; pdfcpu does not
// export a sentinel for it.
func isEncryptedErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "encrypt") || strings.Contains(msg, "password")
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// Path returns the source file path.
func (d *Document) Path() string { return d.path }

// PageCount returns the validated page count.
func (d *Document) PageCount() int { return d.pageCount }

// WithTextProvider sets the fallback provider consulted for pages that have
// no embedded text layer. A nil provider leaves such pages empty.
func (d *Document) WithTextProvider(p TextProvider) *Document {
	d.provider = p
	return d
}

// ResolveRange validates a 1-based inclusive page range against the document.
// Zero values default to the full document. The returned bounds are always
// valid to pass to Pages.
func (d *Document) ResolveRange(start, end int) (int, int, error) {
	return resolveRange(start, end, d.pageCount)
}

func resolveRange(start, end, pageCount int) (int, int, error) {
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = pageCount
	}
	if start < 1 {
		return 0, 0, fmt.Errorf("start page %d: pages are numbered from 1", start)
	}
	if end > pageCount {
		return 0, 0, fmt.Errorf("end page %d exceeds document length %d", end, pageCount)
	}
	if start > end {
		return 0, 0, fmt.Errorf("page range %d-%d is empty", start, end)
	}
	return start, end, nil
}

// Pages extracts positioned spans for the 1-based inclusive page range.
// Page indices in the result are 0-based and relative to the document, not
// the range. Unreadable individual pages yield empty pages rather than
// failing the whole extraction.
func (d *Document) Pages(ctx context.Context, start, end int) ([]model.Page, error) {
	start, end, err := d.ResolveRange(start, end)
	if err != nil {
		return nil, err
	}

	var pages []model.Page
	for num := start; num <= end; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := d.extractPage(ctx, num)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", num, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// extractPage pulls one page's text layer and converts it to spans.
func (d *Document) extractPage(ctx context.Context, num int) (model.Page, error) {
	width, height := 612.0, 792.0 // US Letter fallback

	p := d.reader.Page(num)
	out := model.Page{Index: num - 1, Width: width, Height: height}
	if p.V.IsNull() {
		return out, nil
	}

	if w, h, ok := pageSize(p); ok {
		out.Width, out.Height = w, h
	}

	content := p.Content()
	out.Spans = buildSpans(content.Text, out.Index, out.Height)

	if len(out.Spans) == 0 && d.provider != nil {
		text, err := d.provider.PageText(ctx, d.path, num)
		if err != nil {
			return out, err
		}
		out.Spans = syntheticSpans(text, out.Index, out.Width)
	}
	return out, nil
}

// pageSize reads the page's MediaBox. Missing or malformed boxes are common
// in the wild, so failure just keeps the fallback size.
func pageSize(p pdf.Page) (w, h float64, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	box := p.V.Key("MediaBox")
	if box.IsNull() || box.Kind() != pdf.Array || box.Len() != 4 {
		return 0, 0, false
	}
	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v := box.Index(i)
		switch v.Kind() {
		case pdf.Integer:
			coords[i] = float64(v.Int64())
		case pdf.Real:
			coords[i] = v.Float64()
		default:
			return 0, 0, false
		}
	}
	w = coords[2] - coords[0]
	h = coords[3] - coords[1]
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
