package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sthevan027/converso/model"
)

// TitleMarker tags a heading block whose source style was Title rather than
// a numbered heading level.
const TitleMarker = "title"

// Reader pulls the block sequence out of an existing DOCX file.
type Reader struct {
	zr     *zip.ReadCloser
	styles map[string]string // styleId -> lowercased style name
	blocks []model.LogicalBlock
}

// Open opens a DOCX file and parses its body into logical blocks.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := &Reader{zr: zr, styles: make(map[string]string)}
	doc := r.part("word/document.xml")
	if doc == nil {
		zr.Close()
		return nil, fmt.Errorf("%s: missing word/document.xml", path)
	}

	if styles := r.part("word/styles.xml"); styles != nil {
		r.parseStyles(styles) // optional; heading detection falls back to style ids
	}
	if err := r.parseDocument(doc); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return r, nil
}

// Close releases the underlying archive.
func (r *Reader) Close() error {
	if r.zr == nil {
		return nil
	}
	err := r.zr.Close()
	r.zr = nil
	return err
}

// Blocks returns the parsed body blocks in document order.
func (r *Reader) Blocks() []model.LogicalBlock {
	return r.blocks
}

// part finds a named file in the archive.
func (r *Reader) part(name string) *zip.File {
	for _, f := range r.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// minimal views of the OOXML structures; only what block reconstruction
// needs.

type valAttr struct {
	Val string `xml:"val,attr"`
}

type paraXML struct {
	PPr  pPrXML   `xml:"pPr"`
	Runs []runXML `xml:"r"`
}

type pPrXML struct {
	Style valAttr   `xml:"pStyle"`
	NumPr *numPrXML `xml:"numPr"`
}

type numPrXML struct {
	NumID valAttr `xml:"numId"`
}

type runXML struct {
	Props rPrXML   `xml:"rPr"`
	Text  []string `xml:"t"`
}

type rPrXML struct {
	B *valAttr `xml:"b"`
	I *valAttr `xml:"i"`
}

type tblXML struct {
	Rows []struct {
		Cells []struct {
			Paras []paraXML `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

type styleXML struct {
	ID   string  `xml:"styleId,attr"`
	Name valAttr `xml:"name"`
}

// parseStyles records the styleId to name mapping.
func (r *Reader) parseStyles(f *zip.File) {
	rc, err := f.Open()
	if err != nil {
		return
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "style" {
			var s styleXML
			if dec.DecodeElement(&s, &start) == nil && s.ID != "" {
				r.styles[s.ID] = strings.ToLower(s.Name.Val)
			}
		}
	}
}

// parseDocument walks the body in element order so paragraphs and tables
// interleave the way the document lays them out.
func (r *Reader) parseDocument(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	inBody := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !inBody {
			if start.Name.Local == "body" {
				inBody = true
			}
			continue
		}

		switch start.Name.Local {
		case "p":
			var p paraXML
			if err := dec.DecodeElement(&p, &start); err != nil {
				return err
			}
			r.blocks = append(r.blocks, r.paragraphBlock(&p))
		case "tbl":
			var t tblXML
			if err := dec.DecodeElement(&t, &start); err != nil {
				return err
			}
			r.blocks = append(r.blocks, tableBlock(&t))
		default:
			if err := dec.Skip(); err != nil {
				return err
			}
		}
	}
}

var headingStyleRe = regexp.MustCompile(`^heading\s?([1-6])$`)

// paragraphBlock maps one parsed paragraph to a logical block using its
// style and numbering properties.
func (r *Reader) paragraphBlock(p *paraXML) model.LogicalBlock {
	b := model.LogicalBlock{Kind: model.KindParagraph, Runs: blockRuns(p.Runs)}

	styleID := p.PPr.Style.Val
	name := r.styles[styleID]
	if name == "" {
		name = strings.ToLower(styleID)
	}

	switch {
	case headingStyleRe.MatchString(name):
		b.Kind = model.KindHeading
		b.Level = int(headingStyleRe.FindStringSubmatch(name)[1][0] - '0')
	case name == "title":
		b.Kind = model.KindHeading
		b.Level = 1
		b.Marker = TitleMarker
	case p.PPr.NumPr != nil:
		b.Kind = model.KindListItem
		if p.PPr.NumPr.NumID.Val == "2" {
			b.Marker = "1."
		} else {
			b.Marker = "•"
		}
	}
	return b
}

func blockRuns(runs []runXML) []model.Run {
	var out []model.Run
	for _, r := range runs {
		text := strings.Join(r.Text, "")
		if text == "" {
			continue
		}
		out = append(out, model.Run{
			Text:   text,
			Bold:   flagSet(r.Props.B),
			Italic: flagSet(r.Props.I),
		})
	}
	return out
}

// flagSet interprets an OOXML boolean property: present counts as on unless
// explicitly valued off.
func flagSet(v *valAttr) bool {
	if v == nil {
		return false
	}
	return v.Val != "false" && v.Val != "0" && v.Val != "off"
}

func tableBlock(t *tblXML) model.LogicalBlock {
	table := &model.TableRegion{}
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, c := range row.Cells {
			var parts []string
			for _, p := range c.Paras {
				var texts []string
				for _, run := range p.Runs {
					texts = append(texts, strings.Join(run.Text, ""))
				}
				if s := strings.Join(texts, ""); s != "" {
					parts = append(parts, s)
				}
			}
			cells = append(cells, strings.Join(parts, "\n"))
		}
		table.Cells = append(table.Cells, cells)
	}
	return model.LogicalBlock{Kind: model.KindTableRegion, Table: table}
}
