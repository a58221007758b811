package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sthevan027/converso/model"
)

func sampleBlocks() []model.LogicalBlock {
	return []model.LogicalBlock{
		{Kind: model.KindHeading, Level: 1, Runs: []model.Run{{Text: "Report", Bold: true}}},
		{Kind: model.KindParagraph, Runs: []model.Run{
			{Text: "Plain then "},
			{Text: "bold", Bold: true},
			{Text: " then "},
			{Text: "italic", Italic: true},
			{Text: "."},
		}},
		{Kind: model.KindListItem, Marker: "•", Runs: []model.Run{{Text: "first bullet"}}},
		{Kind: model.KindListItem, Marker: "1.", Runs: []model.Run{{Text: "first step"}}},
		{Kind: model.KindTableRegion, Table: &model.TableRegion{
			Cells: [][]string{{"Name", "Role"}, {"Ada", "Engineer"}},
		}},
		{Kind: model.KindHeaderText, Runs: []model.Run{{Text: "Quarterly Review"}}},
		{Kind: model.KindFooterText, Marker: "page-number", Runs: []model.Run{{Text: "3"}}},
	}
}

// writePackage writes blocks to a buffer and returns the package's files by
// name.
func writePackage(t *testing.T, blocks []model.LogicalBlock) map[string]string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewWriter().Write(&buf, blocks); err != nil {
		t.Fatalf("write: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reopen zip: %v", err)
	}
	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestWriterProducesRequiredParts(t *testing.T) {
	files := writePackage(t, sampleBlocks())

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/document.xml",
		"word/styles.xml",
		"word/numbering.xml",
		"word/header1.xml",
		"word/footer1.xml",
	} {
		if _, ok := files[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
}

func TestWriterBlockMarkup(t *testing.T) {
	files := writePackage(t, sampleBlocks())
	doc := files["word/document.xml"]

	for _, want := range []string{
		`<w:pStyle w:val="Heading1"/>`,
		`<w:pStyle w:val="ListParagraph"/>`,
		`<w:numId w:val="1"/>`,
		`<w:numId w:val="2"/>`,
		`<w:b/>`,
		`<w:i/>`,
		`<w:tbl>`,
		`<w:headerReference w:type="default" r:id="rIdHeader"/>`,
		`<w:footerReference w:type="default" r:id="rIdFooter"/>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}

	// Header/footer content lives in its parts, applied once, not in the body.
	if strings.Contains(doc, "Quarterly Review") {
		t.Errorf("header text leaked into the body")
	}
	if !strings.Contains(files["word/header1.xml"], "Quarterly Review") {
		t.Errorf("header1.xml missing header text")
	}
	if !strings.Contains(files["word/footer1.xml"], `w:instr=" PAGE "`) {
		t.Errorf("page-number footer did not become a PAGE field")
	}
	if strings.Contains(files["word/footer1.xml"], `<w:t xml:space="preserve">3</w:t>`) {
		t.Errorf("frozen page number written instead of a field")
	}
}

func TestWriterEscapesText(t *testing.T) {
	files := writePackage(t, []model.LogicalBlock{
		{Kind: model.KindParagraph, Runs: []model.Run{{Text: `a < b & "c"`}}},
	})
	doc := files["word/document.xml"]
	if !strings.Contains(doc, "a &lt; b &amp; &quot;c&quot;") {
		t.Errorf("text not escaped: %s", doc)
	}
}

func TestWriterEmbedsImages(t *testing.T) {
	img := &model.ExtractedImage{
		Data:   []byte{0x89, 0x50, 0x4e, 0x47},
		Format: "png",
		Width:  200,
		Height: 100,
	}
	files := writePackage(t, []model.LogicalBlock{
		{Kind: model.KindImage, Image: img},
	})

	if _, ok := files["word/media/image1.png"]; !ok {
		t.Fatalf("media part missing")
	}
	doc := files["word/document.xml"]
	if !strings.Contains(doc, `<wp:extent cx="1905000" cy="952500"/>`) {
		t.Errorf("inline extent not in EMU: %s", doc)
	}
	if !strings.Contains(doc, `r:embed="rIdImg1"`) {
		t.Errorf("image relationship not referenced")
	}
	if !strings.Contains(files["word/_rels/document.xml.rels"], `Target="media/image1.png"`) {
		t.Errorf("image relationship not declared")
	}
	if !strings.Contains(files["[Content_Types].xml"], `Extension="png"`) {
		t.Errorf("png content type missing")
	}
}

func TestWriterOmitsBandPartsWithoutBands(t *testing.T) {
	files := writePackage(t, []model.LogicalBlock{
		{Kind: model.KindParagraph, Runs: []model.Run{{Text: "solo"}}},
	})
	if _, ok := files["word/header1.xml"]; ok {
		t.Errorf("header part written without header blocks")
	}
	if strings.Contains(files["word/document.xml"], "headerReference") {
		t.Errorf("dangling header reference")
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.docx")

	var buf bytes.Buffer
	if err := NewWriter().Write(&buf, sampleBlocks()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("save: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	blocks := r.Blocks()
	// Header/footer blocks live in their own parts; the body carries the rest.
	if len(blocks) != 5 {
		t.Fatalf("got %d body blocks, want 5", len(blocks))
	}

	h := blocks[0]
	if h.Kind != model.KindHeading || h.Level != 1 || h.Text() != "Report" {
		t.Errorf("heading round-trip = %v level %d %q", h.Kind, h.Level, h.Text())
	}

	p := blocks[1]
	if p.Kind != model.KindParagraph {
		t.Fatalf("block 1 kind = %v", p.Kind)
	}
	if p.Text() != "Plain then bold then italic." {
		t.Errorf("paragraph text = %q", p.Text())
	}
	var sawBold, sawItalic bool
	for _, run := range p.Runs {
		if run.Bold && run.Text == "bold" {
			sawBold = true
		}
		if run.Italic && run.Text == "italic" {
			sawItalic = true
		}
	}
	if !sawBold || !sawItalic {
		t.Errorf("formatting lost: %+v", p.Runs)
	}

	if blocks[2].Kind != model.KindListItem || blocks[2].Marker != "•" {
		t.Errorf("bullet item = %v %q", blocks[2].Kind, blocks[2].Marker)
	}
	if blocks[3].Kind != model.KindListItem || blocks[3].Marker != "1." {
		t.Errorf("numbered item = %v %q", blocks[3].Kind, blocks[3].Marker)
	}

	tbl := blocks[4]
	if tbl.Kind != model.KindTableRegion || tbl.Table == nil {
		t.Fatalf("table block = %v", tbl.Kind)
	}
	if tbl.Table.Rows() != 2 || tbl.Table.Cols() != 2 {
		t.Errorf("table %dx%d, want 2x2", tbl.Table.Rows(), tbl.Table.Cols())
	}
	if tbl.Table.Cells[1][0] != "Ada" {
		t.Errorf("cell[1][0] = %q", tbl.Table.Cells[1][0])
	}
}

func TestReaderTitleStyle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "title.docx")

	// Hand-build a minimal package using the Title style.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	doc, _ := zw.Create("word/document.xml")
	io.WriteString(doc, xmlHeader+`<w:document xmlns:w="`+nsW+`"><w:body>`+
		`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Big Title</w:t></w:r></w:p>`+
		`</w:body></w:document>`)
	styles, _ := zw.Create("word/styles.xml")
	io.WriteString(styles, stylesXML)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	blocks := r.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if blocks[0].Kind != model.KindHeading || blocks[0].Marker != TitleMarker {
		t.Errorf("title block = %v marker %q", blocks[0].Kind, blocks[0].Marker)
	}
}

func TestOpenRejectsMissingDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.docx")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("word/styles.xml")
	io.WriteString(f, stylesXML)
	zw.Close()
	os.WriteFile(path, buf.Bytes(), 0o644)

	if _, err := Open(path); err == nil {
		t.Fatalf("expected error for package without document.xml")
	}
}
