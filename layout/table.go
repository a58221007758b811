package layout

import (
	"strings"

	"github.com/sthevan027/converso/model"
)

// cell is one column-slice of a line during table detection.
type cell struct {
	x    float64
	text string
}

// tableRegion is a detected run of aligned multi-column lines.
type tableRegion struct {
	start, end int // line index range, end exclusive
	table      *model.TableRegion
	degraded   bool
}

// splitCells cuts a line into cells wherever the horizontal gap between
// consecutive spans exceeds the profile's column-separator threshold.
func splitCells(line Line, p Profile) []cell {
	if len(line.Spans) == 0 {
		return nil
	}
	minGap := line.FontSize * p.TableGapFactor
	if minGap <= 0 {
		minGap = 30
	}

	cells := []cell{{x: line.Spans[0].BBox.X0}}
	var sb strings.Builder
	sb.WriteString(line.Spans[0].Text)
	lastEnd := line.Spans[0].BBox.X1

	for _, s := range line.Spans[1:] {
		gap := s.BBox.X0 - lastEnd
		if gap > minGap {
			cells[len(cells)-1].text = strings.TrimSpace(sb.String())
			sb.Reset()
			cells = append(cells, cell{x: s.BBox.X0})
		} else if gap > s.FontSize*0.3 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Text)
		lastEnd = s.BBox.X1
	}
	cells[len(cells)-1].text = strings.TrimSpace(sb.String())
	return cells
}

// alignedWith reports whether a line's cells line up with the column starts
// of the current run, within the profile's drift tolerance.
func alignedWith(cols []float64, cells []cell, p Profile) bool {
	if len(cells) != len(cols) {
		return false
	}
	for i, c := range cells {
		if abs(c.x-cols[i]) > p.ColumnTolerance {
			return false
		}
	}
	return true
}

// detectTableRegions finds runs of consecutive lines whose spans split into
// the same columns at consistent positions. Detection is best-effort by
// design: a region whose rows disagree on column count is still emitted, with
// the surplus cells merged rightward and the region marked degraded, because
// under-structuring beats corrupting content.
func detectTableRegions(lines []Line, p Profile) []tableRegion {
	minRows := p.TableMinRows
	if minRows < 2 {
		minRows = 2
	}

	var regions []tableRegion
	i := 0
	for i < len(lines) {
		first := splitCells(lines[i], p)
		if len(first) < 2 {
			i++
			continue
		}

		cols := make([]float64, len(first))
		for k, c := range first {
			cols[k] = c.x
		}

		rows := [][]cell{first}
		j := i + 1
		degraded := false
		for j < len(lines) {
			cells := splitCells(lines[j], p)
			if len(cells) < 2 {
				break
			}
			if !alignedWith(cols, cells, p) {
				// Same column count drifting slightly, or a row with
				// a merged cell: absorb it as degraded rather than
				// splitting the table.
				if len(cells) == len(cols) || len(cells) == len(cols)-1 {
					degraded = true
				} else {
					break
				}
			}
			rows = append(rows, cells)
			j++
		}

		if len(rows) >= minRows {
			table := buildTable(rows, len(cols))
			if degraded {
				table.BestEffort = true
			}
			regions = append(regions, tableRegion{
				start:    i,
				end:      j,
				table:    table,
				degraded: degraded,
			})
			i = j
			continue
		}
		i++
	}
	return regions
}

// buildTable assembles the cell grid, padding short rows so every row has the
// region's column count.
func buildTable(rows [][]cell, cols int) *model.TableRegion {
	t := &model.TableRegion{}
	for _, row := range rows {
		texts := make([]string, cols)
		for i, c := range row {
			if i < cols {
				texts[i] = c.text
			} else {
				// Surplus cell: merge into the last column.
				texts[cols-1] = strings.TrimSpace(texts[cols-1] + " " + c.text)
				t.BestEffort = true
			}
		}
		if len(row) < cols {
			t.BestEffort = true
		}
		t.Cells = append(t.Cells, texts)
	}
	return t
}
