// Package format provides file format detection and conversion-pair
// validation for the converso pipeline.
package format

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// TXT indicates a plain text file.
	TXT
	// MD indicates a Markdown file.
	MD
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "pdf"
	case DOCX:
		return "docx"
	case TXT:
		return "txt"
	case MD:
		return "md"
	default:
		return "unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case DOCX:
		return ".docx"
	case TXT:
		return ".txt"
	case MD:
		return ".md"
	default:
		return ""
	}
}

// Parse maps a format name ("pdf", "docx", "txt", "md") to a Format.
func Parse(name string) Format {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	case "txt", "text":
		return TXT
	case "md", "markdown":
		return MD
	default:
		return Unknown
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".txt":
		return TXT
	case ".md", ".markdown":
		return MD
	default:
		return Unknown
	}
}

// targets lists the supported output formats per input format, in preference
// order: the first entry is the default target when none is requested.
var targets = map[Format][]Format{
	PDF:  {DOCX, TXT, MD},
	DOCX: {PDF},
	TXT:  {PDF},
	MD:   {PDF},
}

// DefaultTarget returns the default output format for an input format:
// PDF converts to DOCX, everything else converts to PDF.
func DefaultTarget(source Format) (Format, error) {
	t, ok := targets[source]
	if !ok || len(t) == 0 {
		return Unknown, fmt.Errorf("unsupported input format: %s", source)
	}
	return t[0], nil
}

// ValidatePair reports whether source can be converted to target.
func ValidatePair(source, target Format) error {
	for _, t := range targets[source] {
		if t == target {
			return nil
		}
	}
	return fmt.Errorf("conversion %s -> %s is not supported", source, target)
}

// DetectFromMagic checks leading magic bytes to determine format. ZIP-based
// containers need DetectFromReader to distinguish DOCX from other archives.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	return Unknown
}

// DetectFromReader inspects content to determine format. It is more reliable
// than extension-based detection and distinguishes DOCX from other ZIP-based
// containers by looking for the word/ part inside the archive.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if f := DetectFromMagic(magic); f != Unknown {
		return f, nil
	}

	// ZIP magic: PK\x03\x04
	if len(magic) >= 4 && magic[0] == 0x50 && magic[1] == 0x4B && magic[2] == 0x03 && magic[3] == 0x04 {
		return detectZIPFormat(r, size)
	}

	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive and reports DOCX when it contains
// the WordprocessingML document part.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return DOCX, nil
		}
	}

	return Unknown, nil
}
