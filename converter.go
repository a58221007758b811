package converso

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sthevan027/converso/docx"
	"github.com/sthevan027/converso/extract"
	"github.com/sthevan027/converso/format"
	"github.com/sthevan027/converso/images"
	"github.com/sthevan027/converso/layout"
	"github.com/sthevan027/converso/model"
	"github.com/sthevan027/converso/pdfwriter"
	"github.com/sthevan027/converso/render"
)

// Converter is a fluent conversion builder. Chain methods return a modified
// copy, so a configured Converter can be reused and branched safely:
//
//	base := converso.Open("report.pdf").Quality("high")
//	docxResult, err := base.To("docx").Run()
//	mdResult, err := base.To("md").Run()
type Converter struct {
	source   string
	target   format.Format
	output   string
	config   ConversionConfig
	progress ProgressFunc
}

// clone creates a copy of the Converter with a deep copy of the config.
func (c *Converter) clone() *Converter {
	return &Converter{
		source:   c.source,
		target:   c.target,
		output:   c.output,
		config:   c.config.clone(),
		progress: c.progress,
	}
}

// To sets the target format by name: "pdf", "docx", "txt", or "md". Without
// it, PDF sources convert to DOCX and everything else converts to PDF.
func (c *Converter) To(name string) *Converter {
	out := c.clone()
	out.target = format.Parse(name)
	return out
}

// Output sets the output path. Without it, the output is written next to the
// source with the target format's extension.
func (c *Converter) Output(path string) *Converter {
	out := c.clone()
	out.output = path
	return out
}

// WithConfig replaces the whole configuration.
func (c *Converter) WithConfig(config ConversionConfig) *Converter {
	out := c.clone()
	out.config = config.clone()
	return out
}

// OnProgress registers a callback for progress events during Run.
func (c *Converter) OnProgress(fn ProgressFunc) *Converter {
	out := c.clone()
	out.progress = fn
	return out
}

// PageRange limits conversion to the 1-based inclusive page interval
// [start, end]. A zero end means through the last page.
func (c *Converter) PageRange(start, end int) *Converter {
	out := c.clone()
	out.config.PageRange = &PageRange{Start: start, End: end}
	return out
}

// HeaderMode sets the header policy: "keep", "remove", or "convert".
func (c *Converter) HeaderMode(mode string) *Converter {
	out := c.clone()
	out.config.HeaderMode = mode
	return out
}

// FooterMode sets the footer policy: "keep", "remove", or "convert".
func (c *Converter) FooterMode(mode string) *Converter {
	out := c.clone()
	out.config.FooterMode = mode
	return out
}

// Quality selects the heuristic profile: "fast", "balanced", or "high".
func (c *Converter) Quality(profile string) *Converter {
	out := c.clone()
	out.config.Quality = profile
	return out
}

// KeepHyphenation preserves end-of-line hyphens instead of joining the
// broken word halves.
func (c *Converter) KeepHyphenation() *Converter {
	out := c.clone()
	out.config.KeepHyphenation = true
	return out
}

// WithoutImages disables image extraction and embedding.
func (c *Converter) WithoutImages() *Converter {
	out := c.clone()
	out.config.ExtractImages = false
	return out
}

// Run executes the conversion and reports the result. Failures are returned
// as *ConversionError with the failing stage; non-fatal issues land in the
// result's Warnings and the run continues.
func (c *Converter) Run() (*ConversionResult, error) {
	return c.RunContext(context.Background())
}

// RunContext is Run with a context for cancellation of long extractions.
func (c *Converter) RunContext(ctx context.Context) (*ConversionResult, error) {
	if err := c.config.Validate(); err != nil {
		return nil, formatErr("config", err)
	}

	source := format.Detect(c.source)
	if source == format.Unknown {
		return nil, formatErr("detect", fmt.Errorf("unrecognized source format: %s", c.source))
	}

	target := c.target
	if target == format.Unknown {
		t, err := format.DefaultTarget(source)
		if err != nil {
			return nil, formatErr("detect", err)
		}
		target = t
	}
	if err := format.ValidatePair(source, target); err != nil {
		return nil, formatErr("detect", err)
	}

	output := c.output
	if output == "" {
		output = strings.TrimSuffix(c.source, filepath.Ext(c.source)) + target.Extension()
	}

	result := &ConversionResult{
		WrittenPath:  output,
		SourceFormat: source,
		TargetFormat: target,
	}

	var err error
	switch source {
	case format.PDF:
		err = c.convertPDF(ctx, target, output, result)
	case format.DOCX:
		err = c.convertDOCX(output, result)
	case format.TXT:
		err = c.convertText(output, result)
	case format.MD:
		err = c.convertMarkdown(output, result)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Converter) emit(stage string, page, pages int, detail string) {
	if c.progress != nil {
		c.progress(ProgressEvent{Stage: stage, Page: page, Pages: pages, Detail: detail})
	}
}

// convertPDF runs the structural pipeline: extract spans, classify margin
// bands, infer blocks, reconstruct paragraphs, interleave images, and write
// the target.
func (c *Converter) convertPDF(ctx context.Context, target format.Format, output string, result *ConversionResult) error {
	doc, err := extract.Open(c.source)
	if err != nil {
		return extractionErr("open", err)
	}
	defer doc.Close()

	start, end := 0, 0
	if pr := c.config.PageRange; pr != nil {
		start, end = pr.Start, pr.End
		if start < 1 {
			return extractionErr("page-range", fmt.Errorf("start page %d: pages are numbered from 1", start))
		}
		if end != 0 && end < start {
			return extractionErr("page-range", fmt.Errorf("page range %d-%d is empty", start, end))
		}
	}
	start, end, err = doc.ResolveRange(start, end)
	if err != nil {
		return extractionErr("page-range", err)
	}

	total := end - start + 1
	c.emit("extract", 0, total, c.source)
	pages, err := doc.Pages(ctx, start, end)
	if err != nil {
		return extractionErr("extract", err)
	}
	result.PagesConverted = len(pages)
	for _, page := range pages {
		if len(page.Spans) == 0 {
			result.Warnings = append(result.Warnings, Warning{
				Stage:  "extract",
				Page:   page.Index + 1,
				Detail: "no text layer on page",
			})
		}
	}

	classifier := layout.NewClassifierWithConfig(layout.ClassifierConfig{
		HeaderMargin:       c.config.HeaderMargin,
		FooterMargin:       c.config.FooterMargin,
		MinOccurrenceRatio: layout.DefaultClassifierConfig().MinOccurrenceRatio,
		MinPages:           layout.DefaultClassifierConfig().MinPages,
	})
	classification := classifier.Classify(pages)
	result.HeadersDetected = len(classification.Headers)
	result.FootersDetected = len(classification.Footers)
	c.emit("classify", 0, total, fmt.Sprintf("%d headers, %d footers",
		result.HeadersDetected, result.FootersDetected))

	pages, bands := classification.Apply(pages,
		layout.ParseMode(c.config.HeaderMode),
		layout.ParseMode(c.config.FooterMode))

	stats := layout.BuildFontStats(pages)
	engine := layout.NewEngine(layout.ProfileFor(c.config.Quality), stats, c.config.PreserveLayout)

	var raws []layout.RawBlock
	for _, page := range pages {
		blocks, degradations := engine.InferPage(page)
		raws = append(raws, blocks...)
		for _, d := range degradations {
			result.Warnings = append(result.Warnings, Warning{
				Stage:  "infer",
				Page:   d.PageIndex + 1,
				Detail: d.Detail,
			})
		}
		c.emit("infer", page.Index+1, total, "")
	}

	reconstructor := layout.NewReconstructor(layout.ReconstructorConfig{
		MergeParagraphs:    c.config.MergeParagraphs,
		KeepHyphenation:    c.config.KeepHyphenation,
		PreserveFormatting: c.config.PreserveFormatting,
	})
	blocks := reconstructor.Build(raws)

	if c.config.ExtractImages && target != format.TXT {
		blocks = c.extractImages(ctx, blocks, start, end, total, result)
	}

	blocks = arrangeBands(blocks, bands)
	result.BlocksClassified = len(blocks)

	c.emit("write", 0, total, output)
	switch target {
	case format.DOCX:
		return c.writeOutput(output, func(w io.Writer) error {
			return docx.NewWriter().Write(w, blocks)
		})
	case format.TXT:
		return c.writeOutput(output, func(w io.Writer) error {
			_, err := io.WriteString(w, render.Text(blocks))
			return err
		})
	case format.MD:
		return c.writeMarkdownOutput(output, blocks)
	default:
		return formatErr("write", fmt.Errorf("no writer for target %s", target))
	}
}

// extractImages pulls raster images from the source and interleaves them
// into the block sequence by anchor position. Extraction failures degrade to
// warnings; the text conversion proceeds without the images.
func (c *Converter) extractImages(ctx context.Context, blocks []model.LogicalBlock, start, end, total int, result *ConversionResult) []model.LogicalBlock {
	c.emit("images", 0, total, "")
	extractor := images.NewExtractorWithConfig(images.ExtractorConfig{
		MaxWidth: c.config.MaxImageWidth,
		Quality:  c.config.ImageQuality,
		Profile:  c.config.Quality,
	})
	extracted, warnings, err := extractor.Extract(ctx, c.source, start, end)
	if err != nil {
		result.Warnings = append(result.Warnings, Warning{Stage: "images", Detail: err.Error()})
		return blocks
	}
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, Warning{
			Stage:  "images",
			Page:   w.PageIndex + 1,
			Detail: w.Detail,
		})
	}
	result.ImagesExtracted = len(extracted)
	return interleaveImages(blocks, extracted)
}

// interleaveImages merges images into the block sequence ordered by page and
// vertical anchor. Both inputs are already in reading order.
func interleaveImages(blocks []model.LogicalBlock, imgs []model.ExtractedImage) []model.LogicalBlock {
	if len(imgs) == 0 {
		return blocks
	}
	out := make([]model.LogicalBlock, 0, len(blocks)+len(imgs))
	i := 0
	for _, b := range blocks {
		for i < len(imgs) && imageBefore(&imgs[i], &b) {
			out = append(out, imageBlock(&imgs[i]))
			i++
		}
		out = append(out, b)
	}
	for ; i < len(imgs); i++ {
		out = append(out, imageBlock(&imgs[i]))
	}
	return out
}

func imageBefore(img *model.ExtractedImage, b *model.LogicalBlock) bool {
	if img.Anchor.PageIndex != b.PageIndex {
		return img.Anchor.PageIndex < b.PageIndex
	}
	return img.Anchor.YOffset <= b.Y
}

func imageBlock(img *model.ExtractedImage) model.LogicalBlock {
	return model.LogicalBlock{
		Kind:      model.KindImage,
		Image:     img,
		PageIndex: img.Anchor.PageIndex,
		Y:         img.Anchor.YOffset,
	}
}

// arrangeBands places converted header text before the body and converted
// footer text after it. The DOCX writer routes these into section parts
// regardless of position; textual targets render them in this order.
func arrangeBands(blocks, bands []model.LogicalBlock) []model.LogicalBlock {
	if len(bands) == 0 {
		return blocks
	}
	var headers, footers []model.LogicalBlock
	for _, b := range bands {
		if b.Kind == model.KindHeaderText {
			headers = append(headers, b)
		} else {
			footers = append(footers, b)
		}
	}
	out := make([]model.LogicalBlock, 0, len(blocks)+len(bands))
	out = append(out, headers...)
	out = append(out, blocks...)
	out = append(out, footers...)
	return out
}

// convertDOCX reads a DOCX source and renders its blocks to PDF.
func (c *Converter) convertDOCX(output string, result *ConversionResult) error {
	reader, err := docx.Open(c.source)
	if err != nil {
		return extractionErr("open", err)
	}
	defer reader.Close()

	blocks := reader.Blocks()
	result.BlocksClassified = len(blocks)

	c.emit("write", 0, 0, output)
	return c.writeOutput(output, func(w io.Writer) error {
		return pdfwriter.NewWriter().WriteBlocks(w, blocks)
	})
}

// convertText renders a plain text source to PDF.
func (c *Converter) convertText(output string, result *ConversionResult) error {
	data, err := os.ReadFile(c.source)
	if err != nil {
		return extractionErr("open", err)
	}
	c.emit("write", 0, 0, output)
	return c.writeOutput(output, func(w io.Writer) error {
		return pdfwriter.NewWriter().WriteText(w, string(data))
	})
}

// convertMarkdown renders a Markdown source to PDF with basic heading
// support.
func (c *Converter) convertMarkdown(output string, result *ConversionResult) error {
	data, err := os.ReadFile(c.source)
	if err != nil {
		return extractionErr("open", err)
	}
	c.emit("write", 0, 0, output)
	return c.writeOutput(output, func(w io.Writer) error {
		return pdfwriter.NewWriter().WriteMarkdown(w, string(data))
	})
}

// writeMarkdownOutput renders blocks to Markdown and writes the document
// plus any extracted image files referenced by its links. Images land in a
// sibling directory named after the output file.
func (c *Converter) writeMarkdownOutput(output string, blocks []model.LogicalBlock) error {
	base := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	imageDir := base + "_images"

	text, files := render.Markdown(blocks, imageDir)
	if err := c.writeOutput(output, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	}); err != nil {
		return err
	}

	if len(files) == 0 {
		return nil
	}
	dir := filepath.Join(filepath.Dir(output), imageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeErr("write", err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o644); err != nil {
			return writeErr("write", err)
		}
	}
	return nil
}

// writeOutput writes through a temp file in the destination directory and
// renames on success, so a failed run leaves no partial output behind.
func (c *Converter) writeOutput(output string, write func(io.Writer) error) error {
	dir := filepath.Dir(output)
	tmp, err := os.CreateTemp(dir, ".converso-*"+filepath.Ext(output))
	if err != nil {
		return writeErr("write", err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return writeErr("write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return writeErr("write", err)
	}
	if err := os.Rename(tmp.Name(), output); err != nil {
		os.Remove(tmp.Name())
		return writeErr("write", err)
	}
	return nil
}
