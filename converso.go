// Package converso converts documents between PDF, DOCX, plain text, and
// Markdown. Conversion out of PDF is structural: instead of dumping the text
// layer, the pipeline reconstructs headings, paragraphs, lists, and
// table-like regions from glyph geometry and font statistics, so the output
// is an editable document rather than a page facsimile.
//
// Basic usage:
//
//	result, err := converso.Open("report.pdf").To("docx").Run()
//	if err != nil {
//	    // handle error
//	}
//	if len(result.Warnings) > 0 {
//	    log.Println("Warnings:", converso.FormatWarnings(result.Warnings))
//	}
//
// With options:
//
//	result, err := converso.Open("report.pdf").
//	    To("md").
//	    Output("out/report.md").
//	    PageRange(2, 10).
//	    HeaderMode("remove").
//	    Quality("high").
//	    Run()
//
// Conversion into PDF accepts DOCX, plain text, and Markdown sources. For
// advanced use cases the lower-level extract, layout, and render packages are
// also available.
package converso

// Open prepares a conversion of the given file and returns a Converter for
// fluent configuration. The source format is inferred from the filename
// extension; nothing is read until a terminal operation like Run is called.
//
// Example:
//
//	result, err := converso.Open("document.pdf").Run()
func Open(filename string) *Converter {
	return &Converter{
		source: filename,
		config: DefaultConfig(),
	}
}

// Convert runs a single conversion with an explicit configuration. It is the
// non-fluent equivalent of Open(source).To(target).Output(output).
// WithConfig(config).Run(). Empty target and output select the defaults.
func Convert(source, target, output string, config ConversionConfig) (*ConversionResult, error) {
	c := Open(source).WithConfig(config)
	if target != "" {
		c = c.To(target)
	}
	if output != "" {
		c = c.Output(output)
	}
	return c.Run()
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := converso.Must(converso.Open("document.pdf").Run())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
