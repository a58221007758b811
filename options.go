package converso

import "fmt"

// PageRange selects a 1-based inclusive page interval of the source PDF.
type PageRange struct {
	Start int
	End   int
}

// ConversionConfig holds the knobs for one conversion run. Build it with
// DefaultConfig, adjust fields, and pass it to Convert or WithConfig; the
// Converter snapshots it at that point and never mutates it.
type ConversionConfig struct {
	// HeaderMode and FooterMode select the policy for recurring header and
	// footer content: "keep", "remove", or "convert".
	HeaderMode string
	FooterMode string

	// HeaderMargin and FooterMargin are the scanned band heights as
	// fractions of page height, in [0,1].
	HeaderMargin float64
	FooterMargin float64

	// Quality selects the heuristic profile: "fast", "balanced", or "high".
	Quality string

	// PreserveFormatting maps bold/italic styles onto output runs. When
	// false, all text is emitted plain.
	PreserveFormatting bool

	// PreserveLayout enables column-aware reading order on multi-column
	// pages.
	PreserveLayout bool

	// MergeParagraphs joins wrapped source lines into paragraphs. When
	// false, every extracted line becomes its own paragraph.
	MergeParagraphs bool

	// KeepHyphenation preserves end-of-line hyphens and their breaks
	// literally instead of joining the word halves.
	KeepHyphenation bool

	// ExtractImages embeds raster images from the source PDF in the
	// output. Ignored for plain-text output, which has nowhere to put them.
	ExtractImages bool

	// ImageQuality is the JPEG re-encoding quality, 1-100.
	ImageQuality int

	// MaxImageWidth is the maximum image width in pixels; wider images are
	// downscaled proportionally, narrower ones are never upscaled.
	MaxImageWidth int

	// PageRange limits conversion to a page interval. Nil means all pages.
	PageRange *PageRange
}

// DefaultConfig returns the default conversion configuration: convert
// headers and footers, 10% margin bands, balanced quality, formatting and
// layout preserved, paragraphs merged, hyphens joined, images extracted at
// quality 95 with a 800px width cap, all pages.
func DefaultConfig() ConversionConfig {
	return ConversionConfig{
		HeaderMode:         "convert",
		FooterMode:         "convert",
		HeaderMargin:       0.10,
		FooterMargin:       0.10,
		Quality:            "balanced",
		PreserveFormatting: true,
		PreserveLayout:     true,
		MergeParagraphs:    true,
		KeepHyphenation:    false,
		ExtractImages:      true,
		ImageQuality:       95,
		MaxImageWidth:      800,
		PageRange:          nil,
	}
}

// clone creates a deep copy of the configuration.
func (c ConversionConfig) clone() ConversionConfig {
	out := c
	if c.PageRange != nil {
		pr := *c.PageRange
		out.PageRange = &pr
	}
	return out
}

var modeNames = map[string]bool{"keep": true, "remove": true, "convert": true}

var qualityNames = map[string]bool{"fast": true, "balanced": true, "high": true}

// Validate checks the configuration for out-of-range values. Page range
// bounds are checked at run time against the open document, so that range
// failures carry the extraction error kind.
func (c ConversionConfig) Validate() error {
	if !modeNames[c.HeaderMode] {
		return fmt.Errorf("invalid header mode %q (want keep, remove, or convert)", c.HeaderMode)
	}
	if !modeNames[c.FooterMode] {
		return fmt.Errorf("invalid footer mode %q (want keep, remove, or convert)", c.FooterMode)
	}
	if c.HeaderMargin < 0 || c.HeaderMargin > 1 {
		return fmt.Errorf("header margin %v out of range [0,1]", c.HeaderMargin)
	}
	if c.FooterMargin < 0 || c.FooterMargin > 1 {
		return fmt.Errorf("footer margin %v out of range [0,1]", c.FooterMargin)
	}
	if !qualityNames[c.Quality] {
		return fmt.Errorf("invalid quality %q (want fast, balanced, or high)", c.Quality)
	}
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		return fmt.Errorf("image quality %d out of range [1,100]", c.ImageQuality)
	}
	if c.MaxImageWidth < 1 {
		return fmt.Errorf("max image width %d must be positive", c.MaxImageWidth)
	}
	return nil
}
