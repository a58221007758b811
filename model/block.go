package model

import "strings"

// BlockKind is the type tag of a LogicalBlock.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindListItem
	KindTableRegion
	KindImage
	KindHeaderText
	KindFooterText
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list-item"
	case KindTableRegion:
		return "table"
	case KindImage:
		return "image"
	case KindHeaderText:
		return "header"
	case KindFooterText:
		return "footer"
	default:
		return "paragraph"
	}
}

// Run is a formatting run within a block: a stretch of text over which bold
// and italic do not change. Run boundaries occur exactly where style changes,
// never mid-style.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// TableRegion is the cell grid of a detected table-like region. Detection is
// heuristic: BestEffort marks the region as approximate so writers and tests
// can treat misdetected tables as degraded paragraphs rather than defects.
type TableRegion struct {
	// Cells holds the cell text, row-major.
	Cells [][]string

	// BestEffort is set when column assignment was ambiguous and text was
	// merged into wider cells instead of being split.
	BestEffort bool
}

// Rows returns the number of rows in the region.
func (t *TableRegion) Rows() int {
	if t == nil {
		return 0
	}
	return len(t.Cells)
}

// Cols returns the widest row's column count.
func (t *TableRegion) Cols() int {
	if t == nil {
		return 0
	}
	cols := 0
	for _, row := range t.Cells {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Anchor places an extracted image in the block sequence: the page it came
// from and its approximate vertical offset on that page.
type Anchor struct {
	PageIndex int
	YOffset   float64
}

// ExtractedImage is a raster image pulled from a page, re-encoded under the
// configured quality and size constraints.
type ExtractedImage struct {
	// Data is the encoded payload.
	Data []byte

	// Format is the encoding of Data ("jpeg" or "png").
	Format string

	// Width and Height are the target pixel dimensions after rescaling.
	Width, Height int

	// OrigWidth and OrigHeight are the source pixel dimensions.
	OrigWidth, OrigHeight int

	// Quality is the JPEG quality the payload was encoded at (1-100).
	Quality int

	// Anchor positions the image in the reconstructed block sequence.
	Anchor Anchor
}

// LogicalBlock is a reconstructed structural unit in reading order: a leveled
// heading, a paragraph, a list item, a table-like region, an image
// placeholder, or converted header/footer text.
type LogicalBlock struct {
	// Kind is the block's type tag.
	Kind BlockKind

	// Level is the heading level (1-6) when Kind is KindHeading.
	Level int

	// Marker is the list marker text when Kind is KindListItem (e.g. "•", "1.").
	Marker string

	// Runs is the block's text as formatting runs, in order.
	Runs []Run

	// Table holds the cell grid when Kind is KindTableRegion.
	Table *TableRegion

	// Image holds the extracted image when Kind is KindImage.
	Image *ExtractedImage

	// PageIndex is the 0-based source page, for image/position correlation.
	PageIndex int

	// Y is the block's top position on the source page.
	Y float64
}

// Text returns the concatenated run text of the block.
func (b *LogicalBlock) Text() string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsTextual reports whether the block carries body text (heading, paragraph,
// or list item).
func (b *LogicalBlock) IsTextual() bool {
	if b == nil {
		return false
	}
	switch b.Kind {
	case KindHeading, KindParagraph, KindListItem:
		return true
	}
	return false
}
