package layout

import (
	"strings"

	"github.com/sthevan027/converso/model"
)

// ReconstructorConfig holds the paragraph reconstruction options.
type ReconstructorConfig struct {
	// MergeParagraphs enables line merging. When false, every extracted
	// line becomes its own Paragraph block regardless of gap heuristics.
	MergeParagraphs bool

	// KeepHyphenation preserves end-of-line hyphens and their line breaks
	// as literal text. When false (the default), a hyphen joined hard
	// against the next merged line is removed and the word halves joined.
	KeepHyphenation bool

	// PreserveFormatting maps bold/italic span styles onto runs. When
	// false, all text is emitted as plain runs.
	PreserveFormatting bool
}

// DefaultReconstructorConfig returns the default reconstruction options.
func DefaultReconstructorConfig() ReconstructorConfig {
	return ReconstructorConfig{
		MergeParagraphs:    true,
		KeepHyphenation:    false,
		PreserveFormatting: true,
	}
}

// Reconstructor merges the fragmented source lines inside raw blocks into
// fluent text and assigns formatting runs. A run boundary occurs exactly
// where bold or italic changes, never mid-style.
type Reconstructor struct {
	config ReconstructorConfig
}

// NewReconstructor creates a reconstructor with the given options.
func NewReconstructor(config ReconstructorConfig) *Reconstructor {
	return &Reconstructor{config: config}
}

// Build converts raw blocks into logical blocks. Table blocks pass through
// with their cell grids; textual blocks get their lines merged into runs.
func (r *Reconstructor) Build(raws []RawBlock) []model.LogicalBlock {
	var blocks []model.LogicalBlock
	for _, raw := range raws {
		switch raw.Kind {
		case model.KindTableRegion:
			blocks = append(blocks, model.LogicalBlock{
				Kind:      model.KindTableRegion,
				Table:     raw.Table,
				PageIndex: raw.PageIndex,
				Y:         raw.Y,
			})

		case model.KindParagraph:
			if !r.config.MergeParagraphs {
				for _, line := range raw.Lines {
					blocks = append(blocks, model.LogicalBlock{
						Kind:      model.KindParagraph,
						Runs:      r.lineRuns(line),
						PageIndex: raw.PageIndex,
						Y:         line.BBox.Y0,
					})
				}
				continue
			}
			blocks = append(blocks, r.textualBlock(raw))

		default:
			blocks = append(blocks, r.textualBlock(raw))
		}
	}
	return blocks
}

// textualBlock merges a raw block's lines into one logical block.
func (r *Reconstructor) textualBlock(raw RawBlock) model.LogicalBlock {
	b := model.LogicalBlock{
		Kind:      raw.Kind,
		Level:     raw.Level,
		Marker:    raw.Marker,
		PageIndex: raw.PageIndex,
		Y:         raw.Y,
	}

	var runs []model.Run
	for i, line := range raw.Lines {
		lineRuns := r.lineRuns(line)
		if raw.Kind == model.KindListItem && i == 0 {
			lineRuns = stripMarker(lineRuns, raw.Marker)
		}

		if i > 0 && len(runs) > 0 {
			last := &runs[len(runs)-1]
			if hardHyphen(last.Text, lineRuns) {
				if r.config.KeepHyphenation {
					last.Text += "\n"
				} else {
					last.Text = strings.TrimSuffix(last.Text, "-")
				}
			} else {
				last.Text += " "
			}
		}
		runs = append(runs, lineRuns...)
	}

	b.Runs = mergeRuns(runs)
	return b
}

// hardHyphen reports whether the previous line ends in a hyphen joined
// directly to a continuation (no intervening space before or after).
func hardHyphen(prevText string, nextRuns []model.Run) bool {
	if !strings.HasSuffix(prevText, "-") || strings.HasSuffix(prevText, " -") {
		return false
	}
	if len(nextRuns) == 0 {
		return false
	}
	next := nextRuns[0].Text
	return next != "" && !strings.HasPrefix(next, " ")
}

// lineRuns converts one line's spans to runs, inserting inferred word
// spacing between spans.
func (r *Reconstructor) lineRuns(line Line) []model.Run {
	var runs []model.Run
	var lastEndX float64

	for i, s := range line.Spans {
		text := s.Text
		if i > 0 {
			gap := s.BBox.X0 - lastEndX
			if gap > s.FontSize*0.3 && len(runs) > 0 && !strings.HasSuffix(runs[len(runs)-1].Text, " ") {
				runs[len(runs)-1].Text += " "
			}
		}
		lastEndX = s.BBox.X1

		run := model.Run{Text: text}
		if r.config.PreserveFormatting {
			run.Bold = s.Bold
			run.Italic = s.Italic
		}
		runs = append(runs, run)
	}
	return mergeRuns(runs)
}

// mergeRuns joins consecutive runs with identical style so boundaries fall
// only where the style changes.
func mergeRuns(runs []model.Run) []model.Run {
	var merged []model.Run
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].Bold == run.Bold && merged[n-1].Italic == run.Italic {
			merged[n-1].Text += run.Text
			continue
		}
		merged = append(merged, run)
	}
	return merged
}

// stripMarker removes the list marker from the head of an item's first line
// so the marker is carried once, on the block, not in the text.
func stripMarker(runs []model.Run, marker string) []model.Run {
	if len(runs) == 0 || marker == "" {
		return runs
	}
	head := strings.TrimPrefix(runs[0].Text, marker)
	runs[0].Text = strings.TrimLeft(head, " \t")
	if runs[0].Text == "" {
		return runs[1:]
	}
	return runs
}
