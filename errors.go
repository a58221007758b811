package converso

import "fmt"

// ErrorKind classifies a conversion failure.
type ErrorKind int

const (
	// KindExtraction covers unreadable, encrypted, or malformed sources
	// and invalid page ranges.
	KindExtraction ErrorKind = iota

	// KindUnsupportedFormat covers unrecognized source formats and
	// conversion pairs outside the supported matrix.
	KindUnsupportedFormat

	// KindWrite covers output failures: unwritable paths, encoding errors.
	KindWrite
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported-format"
	case KindWrite:
		return "write"
	default:
		return "extraction"
	}
}

// ConversionError is a classified conversion failure with the pipeline stage
// it occurred in and, when page-specific, the 1-based page number. It wraps
// the underlying error for errors.Is and errors.As.
type ConversionError struct {
	Kind  ErrorKind
	Stage string
	Page  int
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s: %s (page %d): %v", e.Kind, e.Stage, e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func extractionErr(stage string, err error) *ConversionError {
	return &ConversionError{Kind: KindExtraction, Stage: stage, Err: err}
}

func formatErr(stage string, err error) *ConversionError {
	return &ConversionError{Kind: KindUnsupportedFormat, Stage: stage, Err: err}
}

func writeErr(stage string, err error) *ConversionError {
	return &ConversionError{Kind: KindWrite, Stage: stage, Err: err}
}
