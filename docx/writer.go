package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/sthevan027/converso/model"
)

// emuPerPixel converts 96dpi pixels to English Metric Units.
const emuPerPixel = 9525

// pageFieldMarker tags a header/footer block whose text is a page number;
// the writer substitutes a live PAGE field for it.
const pageFieldMarker = "page-number"

// Writer serializes logical blocks into a DOCX package.
type Writer struct {
	images  []imagePart
	headers []model.LogicalBlock
	footers []model.LogicalBlock
}

// imagePart is one embedded media file plus its relationship id.
type imagePart struct {
	name  string
	relID string
	data  []byte
}

// NewWriter creates a writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write serializes the block sequence to w as a complete DOCX package.
// HeaderText and FooterText blocks become the section header and footer,
// applied once; everything else goes into the body in order.
func (d *Writer) Write(w io.Writer, blocks []model.LogicalBlock) error {
	d.images = nil
	d.headers = nil
	d.footers = nil

	var body []model.LogicalBlock
	for _, b := range blocks {
		switch b.Kind {
		case model.KindHeaderText:
			d.headers = append(d.headers, b)
		case model.KindFooterText:
			d.footers = append(d.footers, b)
		default:
			body = append(body, b)
		}
	}

	document := d.documentXML(body)

	zw := zip.NewWriter(w)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", d.contentTypesXML()},
		{"_rels/.rels", rootRelsXML},
		{"word/_rels/document.xml.rels", d.documentRelsXML()},
		{"word/document.xml", document},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
	}
	if len(d.headers) > 0 {
		parts = append(parts, struct{ name, content string }{"word/header1.xml", d.headerXML()})
	}
	if len(d.footers) > 0 {
		parts = append(parts, struct{ name, content string }{"word/footer1.xml", d.footerXML()})
	}

	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.content); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	for _, img := range d.images {
		f, err := zw.Create("word/media/" + img.name)
		if err != nil {
			return fmt.Errorf("create media %s: %w", img.name, err)
		}
		if _, err := f.Write(img.data); err != nil {
			return fmt.Errorf("write media %s: %w", img.name, err)
		}
	}
	return zw.Close()
}

// documentXML builds word/document.xml, registering image parts on the way.
func (d *Writer) documentXML(blocks []model.LogicalBlock) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:wp="` + nsWPDrawing + `" xmlns:a="` + nsDrawML + `" xmlns:pic="` + nsPic + `">`)
	sb.WriteString(`<w:body>`)

	for i := range blocks {
		d.writeBlock(&sb, &blocks[i])
	}

	sb.WriteString(`<w:sectPr>`)
	if len(d.headers) > 0 {
		sb.WriteString(`<w:headerReference w:type="default" r:id="rIdHeader"/>`)
	}
	if len(d.footers) > 0 {
		sb.WriteString(`<w:footerReference w:type="default" r:id="rIdFooter"/>`)
	}
	sb.WriteString(`<w:pgSz w:w="12240" w:h="15840"/>`)
	sb.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720"/>`)
	sb.WriteString(`</w:sectPr>`)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func (d *Writer) writeBlock(sb *strings.Builder, b *model.LogicalBlock) {
	switch b.Kind {
	case model.KindHeading:
		level := b.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		writeParagraph(sb, fmt.Sprintf("Heading%d", level), "", b.Runs)

	case model.KindListItem:
		numID := "1"
		if isNumberedMarker(b.Marker) {
			numID = "2"
		}
		numPr := `<w:numPr><w:ilvl w:val="0"/><w:numId w:val="` + numID + `"/></w:numPr>`
		writeParagraph(sb, "ListParagraph", numPr, b.Runs)

	case model.KindTableRegion:
		d.writeTable(sb, b.Table)

	case model.KindImage:
		d.writeImage(sb, b.Image)

	default:
		writeParagraph(sb, "", "", b.Runs)
	}
}

// isNumberedMarker distinguishes "1.", "a)", "iv." markers from bullets.
func isNumberedMarker(marker string) bool {
	if marker == "" {
		return false
	}
	c := marker[0]
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// writeParagraph emits one <w:p> with optional style and extra paragraph
// properties.
func writeParagraph(sb *strings.Builder, style, extraPPr string, runs []model.Run) {
	sb.WriteString(`<w:p>`)
	if style != "" || extraPPr != "" {
		sb.WriteString(`<w:pPr>`)
		if style != "" {
			sb.WriteString(`<w:pStyle w:val="` + style + `"/>`)
		}
		sb.WriteString(extraPPr)
		sb.WriteString(`</w:pPr>`)
	}
	for _, r := range runs {
		writeRun(sb, r)
	}
	sb.WriteString(`</w:p>`)
}

func writeRun(sb *strings.Builder, r model.Run) {
	sb.WriteString(`<w:r>`)
	if r.Bold || r.Italic {
		sb.WriteString(`<w:rPr>`)
		if r.Bold {
			sb.WriteString(`<w:b/>`)
		}
		if r.Italic {
			sb.WriteString(`<w:i/>`)
		}
		sb.WriteString(`</w:rPr>`)
	}
	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(escapeXML(r.Text))
	sb.WriteString(`</w:t></w:r>`)
}

func (d *Writer) writeTable(sb *strings.Builder, t *model.TableRegion) {
	if t == nil || len(t.Cells) == 0 {
		return
	}
	sb.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr>`)
	sb.WriteString(`<w:tblGrid>`)
	for range t.Cells[0] {
		sb.WriteString(`<w:gridCol/>`)
	}
	sb.WriteString(`</w:tblGrid>`)
	for _, row := range t.Cells {
		sb.WriteString(`<w:tr>`)
		for _, cell := range row {
			sb.WriteString(`<w:tc><w:tcPr/><w:p><w:r><w:t xml:space="preserve">`)
			sb.WriteString(escapeXML(cell))
			sb.WriteString(`</w:t></w:r></w:p></w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}
	sb.WriteString(`</w:tbl>`)
}

// writeImage registers the payload as a media part and emits an inline
// drawing at the image's display size.
func (d *Writer) writeImage(sb *strings.Builder, img *model.ExtractedImage) {
	if img == nil || len(img.Data) == 0 {
		return
	}
	ext := "jpeg"
	if img.Format == "png" {
		ext = "png"
	}
	n := len(d.images) + 1
	part := imagePart{
		name:  fmt.Sprintf("image%d.%s", n, ext),
		relID: fmt.Sprintf("rIdImg%d", n),
		data:  img.Data,
	}
	d.images = append(d.images, part)

	cx := img.Width * emuPerPixel
	cy := img.Height * emuPerPixel

	sb.WriteString(`<w:p><w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`)
	fmt.Fprintf(sb, `<wp:extent cx="%d" cy="%d"/>`, cx, cy)
	fmt.Fprintf(sb, `<wp:docPr id="%d" name="%s"/>`, n, part.name)
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	sb.WriteString(`<pic:pic><pic:nvPicPr>`)
	fmt.Fprintf(sb, `<pic:cNvPr id="%d" name="%s"/>`, n, part.name)
	sb.WriteString(`<pic:cNvPicPr/></pic:nvPicPr><pic:blipFill>`)
	fmt.Fprintf(sb, `<a:blip r:embed="%s"/>`, part.relID)
	sb.WriteString(`<a:stretch><a:fillRect/></a:stretch></pic:blipFill><pic:spPr><a:xfrm><a:off x="0" y="0"/>`)
	fmt.Fprintf(sb, `<a:ext cx="%d" cy="%d"/>`, cx, cy)
	sb.WriteString(`</a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic>`)
	sb.WriteString(`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)
}

// headerXML renders the collected HeaderText blocks as word/header1.xml.
func (d *Writer) headerXML() string {
	return bandXML("hdr", d.headers)
}

// footerXML renders the collected FooterText blocks as word/footer1.xml.
func (d *Writer) footerXML() string {
	return bandXML("ftr", d.footers)
}

// bandXML renders header/footer paragraphs. A block carrying the page-number
// marker becomes a centered PAGE field instead of its frozen source text.
func bandXML(root string, blocks []model.LogicalBlock) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<w:` + root + ` xmlns:w="` + nsW + `">`)
	for i := range blocks {
		b := &blocks[i]
		if b.Marker == pageFieldMarker {
			sb.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
			sb.WriteString(`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple></w:p>`)
			continue
		}
		writeParagraph(&sb, "", "", b.Runs)
	}
	sb.WriteString(`</w:` + root + `>`)
	return sb.String()
}

func (d *Writer) contentTypesXML() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	sb.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	sb.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`)
	if len(d.headers) > 0 {
		sb.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
	}
	if len(d.footers) > 0 {
		sb.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func (d *Writer) documentRelsXML() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rIdStyles" Type="` + relTypeStyles + `" Target="styles.xml"/>`)
	sb.WriteString(`<Relationship Id="rIdNumbering" Type="` + relTypeNumbering + `" Target="numbering.xml"/>`)
	if len(d.headers) > 0 {
		sb.WriteString(`<Relationship Id="rIdHeader" Type="` + relTypeHeader + `" Target="header1.xml"/>`)
	}
	if len(d.footers) > 0 {
		sb.WriteString(`<Relationship Id="rIdFooter" Type="` + relTypeFooter + `" Target="footer1.xml"/>`)
	}
	for _, img := range d.images {
		sb.WriteString(`<Relationship Id="` + img.relID + `" Type="` + relTypeImage + `" Target="media/` + img.name + `"/>`)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// escapeXML escapes text content for embedding in the OOXML parts.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)
