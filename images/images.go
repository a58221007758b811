// Package images pulls raster images out of PDF pages and re-encodes them
// under the conversion's quality and size constraints. Extraction is
// best-effort: one undecodable image drops with a warning and the run
// continues.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"sort"

	_ "image/gif"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/sthevan027/converso/model"
)

// ExtractorConfig holds the image extraction constraints.
type ExtractorConfig struct {
	// MaxWidth is the maximum output width in pixels. Wider sources are
	// downscaled preserving aspect ratio; narrower ones are never upscaled.
	MaxWidth int

	// Quality is the JPEG re-encode quality (1-100).
	Quality int

	// Profile selects the rescale interpolator ("fast", "balanced", "high").
	Profile string
}

// DefaultExtractorConfig returns the default extraction constraints.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxWidth: 800,
		Quality:  95,
		Profile:  "balanced",
	}
}

// Warning records a non-fatal, per-image extraction failure.
type Warning struct {
	// PageIndex is the 0-based page the image sits on.
	PageIndex int

	// Detail describes what went wrong.
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s", w.PageIndex+1, w.Detail)
}

// Extractor pulls and re-encodes page images.
type Extractor struct {
	config ExtractorConfig
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return &Extractor{config: DefaultExtractorConfig()}
}

// NewExtractorWithConfig creates an extractor with custom configuration.
func NewExtractorWithConfig(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// interpolatorFor maps a quality profile to a rescale kernel. Fast trades
// sharpness for speed; high pays for Catmull-Rom.
func interpolatorFor(profile string) draw.Interpolator {
	switch profile {
	case "fast":
		return draw.ApproxBiLinear
	case "high":
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// Extract pulls every image on the 1-based inclusive page range. The page
// primitive reports which images a page references but not where they sit,
// so anchors distribute a page's images evenly down the page in extraction
// order. Decode failures drop the image and append a warning.
func (e *Extractor) Extract(ctx context.Context, path string, start, end int) ([]model.ExtractedImage, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	pdfctx, err := api.ReadValidateAndOptimize(f, pdfcpumodel.NewDefaultConfiguration())
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if start == 0 {
		start = 1
	}
	if end == 0 || end > pdfctx.PageCount {
		end = pdfctx.PageCount
	}

	heights := pageHeights(pdfctx)

	var out []model.ExtractedImage
	var warnings []Warning
	for pageNr := start; pageNr <= end; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		pageImages, err := pdfcpu.ExtractPageImages(pdfctx, pageNr, false)
		if err != nil {
			warnings = append(warnings, Warning{
				PageIndex: pageNr - 1,
				Detail:    fmt.Sprintf("image extraction failed: %v", err),
			})
			continue
		}
		if len(pageImages) == 0 {
			continue
		}

		objNrs := make([]int, 0, len(pageImages))
		for nr := range pageImages {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		height := 792.0
		if pageNr-1 < len(heights) && heights[pageNr-1] > 0 {
			height = heights[pageNr-1]
		}

		for i, nr := range objNrs {
			img, err := e.convert(pageImages[nr])
			if err != nil {
				warnings = append(warnings, Warning{
					PageIndex: pageNr - 1,
					Detail:    fmt.Sprintf("image %d dropped: %v", nr, err),
				})
				continue
			}
			img.Anchor = model.Anchor{
				PageIndex: pageNr - 1,
				YOffset:   height * float64(i+1) / float64(len(objNrs)+1),
			}
			out = append(out, *img)
		}
	}
	return out, warnings, nil
}

// pageHeights reads per-page media box heights; an empty slice falls back to
// the Letter default.
func pageHeights(pdfctx *pdfcpumodel.Context) []float64 {
	dims, err := pdfctx.PageDims()
	if err != nil {
		return nil
	}
	heights := make([]float64, len(dims))
	for i, d := range dims {
		heights[i] = d.Height
	}
	return heights
}

// convert decodes one page image and re-encodes it under the configured
// constraints.
func (e *Extractor) convert(src io.Reader) (*model.ExtractedImage, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := decoded.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()
	w, h := fitWidth(origW, origH, e.config.MaxWidth)

	if w != origW {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		interpolatorFor(e.config.Profile).Scale(dst, dst.Bounds(), decoded, bounds, draw.Over, nil)
		decoded = dst
	}

	format := "jpeg"
	if hasAlpha(decoded) {
		format = "png"
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, decoded)
	default:
		err = jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: e.config.Quality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return &model.ExtractedImage{
		Data:       buf.Bytes(),
		Format:     format,
		Width:      w,
		Height:     h,
		OrigWidth:  origW,
		OrigHeight: origH,
		Quality:    e.config.Quality,
	}, nil
}

// fitWidth scales (w, h) down so w <= maxWidth, preserving aspect ratio.
// Sources already narrow enough keep their dimensions.
func fitWidth(w, h, maxWidth int) (int, int) {
	if maxWidth <= 0 || w <= maxWidth {
		return w, h
	}
	scaled := h * maxWidth / w
	if scaled < 1 {
		scaled = 1
	}
	return maxWidth, scaled
}

// hasAlpha reports whether the image has any transparency worth keeping.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}
