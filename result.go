package converso

import (
	"fmt"
	"strings"

	"github.com/sthevan027/converso/format"
)

// Warning reports a non-fatal issue encountered during conversion: a
// heuristic that degraded to a safer classification, an image that could not
// be decoded, a page without a text layer. The run continues past warnings.
type Warning struct {
	// Stage is the pipeline stage that produced the warning.
	Stage string

	// Page is the 1-based source page, or 0 for document-wide warnings.
	Page int

	// Detail describes the issue.
	Detail string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("%s (page %d): %s", w.Stage, w.Page, w.Detail)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Detail)
}

// FormatWarnings joins warnings into a display string, one per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}

// ProgressEvent describes one step of a running conversion.
type ProgressEvent struct {
	// Stage is the pipeline stage: "extract", "classify", "infer",
	// "images", "write".
	Stage string

	// Page is the 1-based page just processed, or 0 for whole-document
	// stages.
	Page int

	// Pages is the total page count of the run.
	Pages int

	// Detail carries stage-specific information.
	Detail string
}

// ProgressFunc receives progress events during Run. The callback runs on the
// converting goroutine and should return promptly.
type ProgressFunc func(ProgressEvent)

// ConversionResult summarizes a completed conversion.
type ConversionResult struct {
	// WrittenPath is the path of the output file.
	WrittenPath string

	// SourceFormat and TargetFormat are the resolved conversion pair.
	SourceFormat format.Format
	TargetFormat format.Format

	// PagesConverted is the number of source pages processed. Zero for
	// non-PDF sources, which are not paginated on input.
	PagesConverted int

	// BlocksClassified is the number of logical blocks in the output.
	BlocksClassified int

	// ImagesExtracted is the number of images embedded in the output.
	ImagesExtracted int

	// HeadersDetected and FootersDetected count the recurring regions the
	// classifier found, regardless of the configured mode.
	HeadersDetected int
	FootersDetected int

	// Warnings are the non-fatal issues encountered, in pipeline order.
	Warnings []Warning
}
