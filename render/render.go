// Package render serializes logical blocks into the flow text formats:
// plain text and a Markdown subset. Both renderers are pure functions over
// the block sequence; file IO stays with the caller.
package render

import (
	"fmt"
	"strings"

	"github.com/sthevan027/converso/model"
)

// ImageFile is an image payload the Markdown renderer referenced; the caller
// writes it next to the rendered document.
type ImageFile struct {
	// Name is the file name the Markdown link points at.
	Name string

	// Data is the encoded payload.
	Data []byte
}

// Text renders blocks as plain text, one block per paragraph separated by
// blank lines. Structure markers are flattened: headings keep only their
// text, list items keep their markers, table rows join with " | ". Images
// have no text rendering and are dropped.
func Text(blocks []model.LogicalBlock) string {
	var parts []string
	for i := range blocks {
		b := &blocks[i]
		switch b.Kind {
		case model.KindImage:
			continue
		case model.KindListItem:
			parts = append(parts, b.Marker+" "+b.Text())
		case model.KindTableRegion:
			if rows := tableRows(b.Table, " | "); len(rows) > 0 {
				parts = append(parts, strings.Join(rows, "\n"))
			}
		default:
			if text := b.Text(); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Markdown renders blocks as Markdown: "#" repeated by heading level, "-"
// bullets (numbered markers kept as-is), pipe tables, bold/italic run
// emphasis, and image links into imageDir. The returned files back those
// links and are written by the caller.
func Markdown(blocks []model.LogicalBlock, imageDir string) (string, []ImageFile) {
	var parts []string
	var files []ImageFile

	for i := range blocks {
		b := &blocks[i]
		switch b.Kind {
		case model.KindHeading:
			level := b.Level
			if level < 1 {
				level = 1
			} else if level > 6 {
				level = 6
			}
			parts = append(parts, strings.Repeat("#", level)+" "+b.Text())

		case model.KindListItem:
			marker := "-"
			if isNumbered(b.Marker) {
				marker = b.Marker
			}
			parts = append(parts, marker+" "+runsMarkdown(b.Runs))

		case model.KindTableRegion:
			if md := tableMarkdown(b.Table); md != "" {
				parts = append(parts, md)
			}

		case model.KindImage:
			if b.Image == nil || len(b.Image.Data) == 0 {
				continue
			}
			ext := "jpg"
			if b.Image.Format == "png" {
				ext = "png"
			}
			name := fmt.Sprintf("image%d.%s", len(files)+1, ext)
			files = append(files, ImageFile{Name: name, Data: b.Image.Data})
			ref := name
			if imageDir != "" {
				ref = imageDir + "/" + name
			}
			parts = append(parts, fmt.Sprintf("![%s](%s)", name, ref))

		default:
			if text := runsMarkdown(b.Runs); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n\n") + "\n", files
}

// isNumbered reports whether a list marker is ordered ("1.", "a)", "iv.").
func isNumbered(marker string) bool {
	if marker == "" {
		return false
	}
	c := marker[0]
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// runsMarkdown emits runs with emphasis markers. Edge whitespace moves
// outside the markers so the emphasis stays valid Markdown.
func runsMarkdown(runs []model.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		core := strings.TrimSpace(r.Text)
		if core == "" {
			sb.WriteString(r.Text)
			continue
		}
		lead := r.Text[:strings.Index(r.Text, core[:1])]
		trail := r.Text[len(lead)+len(core):]

		marker := ""
		switch {
		case r.Bold && r.Italic:
			marker = "***"
		case r.Bold:
			marker = "**"
		case r.Italic:
			marker = "*"
		}
		sb.WriteString(lead)
		sb.WriteString(marker)
		sb.WriteString(core)
		sb.WriteString(marker)
		sb.WriteString(trail)
	}
	return sb.String()
}

// tableRows flattens table cells into joined row strings.
func tableRows(t *model.TableRegion, sep string) []string {
	if t == nil {
		return nil
	}
	rows := make([]string, 0, len(t.Cells))
	for _, row := range t.Cells {
		rows = append(rows, strings.Join(row, sep))
	}
	return rows
}

// tableMarkdown renders a pipe table, treating the first row as the header.
func tableMarkdown(t *model.TableRegion) string {
	if t == nil || len(t.Cells) == 0 {
		return ""
	}
	cols := len(t.Cells[0])

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			text := ""
			if i < len(cells) {
				text = strings.ReplaceAll(cells[i], "|", `\|`)
			}
			sb.WriteString(" " + text + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(t.Cells[0])
	sb.WriteString("|")
	for i := 0; i < cols; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range t.Cells[1:] {
		writeRow(row)
	}
	return strings.TrimRight(sb.String(), "\n")
}
