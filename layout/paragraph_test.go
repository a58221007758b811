package layout

import (
	"testing"

	"github.com/sthevan027/converso/model"
)

// rawParagraph wraps test lines into a paragraph raw block.
func rawParagraph(lines ...Line) RawBlock {
	return RawBlock{Kind: model.KindParagraph, Lines: lines, PageIndex: lines[0].PageIndex, Y: lines[0].BBox.Y0}
}

// line builds one text line from a single span.
func line(s model.Span) Line {
	built := BuildLines(page(s.PageIndex, s))
	return built[0]
}

func TestBuildMergesLinesWithSpace(t *testing.T) {
	r := NewReconstructor(DefaultReconstructorConfig())
	blocks := r.Build([]RawBlock{rawParagraph(
		line(bodySpan("The quick brown fox", 0, 72, 100, 140)),
		line(bodySpan("jumps over the lazy dog.", 0, 72, 116, 180)),
	)})

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if got := blocks[0].Text(); got != "The quick brown fox jumps over the lazy dog." {
		t.Errorf("merged text = %q", got)
	}
	if len(blocks[0].Runs) != 1 {
		t.Errorf("uniform style yielded %d runs, want 1", len(blocks[0].Runs))
	}
}

func TestBuildHyphenationRemoved(t *testing.T) {
	r := NewReconstructor(DefaultReconstructorConfig())
	blocks := r.Build([]RawBlock{rawParagraph(
		line(bodySpan("This is an exam-", 0, 72, 100, 120)),
		line(bodySpan("ple text for testing.", 0, 72, 116, 150)),
	)})

	if got := blocks[0].Text(); got != "This is an example text for testing." {
		t.Errorf("dehyphenated text = %q", got)
	}
}

func TestBuildHyphenationKept(t *testing.T) {
	config := DefaultReconstructorConfig()
	config.KeepHyphenation = true
	r := NewReconstructor(config)
	blocks := r.Build([]RawBlock{rawParagraph(
		line(bodySpan("This is an exam-", 0, 72, 100, 120)),
		line(bodySpan("ple text for testing.", 0, 72, 116, 150)),
	)})

	if got := blocks[0].Text(); got != "This is an exam-\nple text for testing." {
		t.Errorf("preserved text = %q", got)
	}
}

func TestBuildSpacedHyphenNotJoined(t *testing.T) {
	// "x -" at end of line is punctuation, not a word break.
	r := NewReconstructor(DefaultReconstructorConfig())
	blocks := r.Build([]RawBlock{rawParagraph(
		line(bodySpan("scores of 4 -", 0, 72, 100, 100)),
		line(bodySpan("sometimes higher.", 0, 72, 116, 130)),
	)})

	if got := blocks[0].Text(); got != "scores of 4 - sometimes higher." {
		t.Errorf("text = %q", got)
	}
}

func TestBuildRunBoundariesAtStyleChanges(t *testing.T) {
	r := NewReconstructor(DefaultReconstructorConfig())
	l := Line{
		PageIndex: 0,
		Spans: []model.Span{
			span("This is ", 0, 72, 100, 50, 11, false, false),
			span("important", 0, 122, 100, 60, 11, true, false),
			span(" and ", 0, 182, 100, 30, 11, false, false),
			span("subtle", 0, 212, 100, 40, 11, false, true),
			span(".", 0, 252, 100, 4, 11, false, false),
		},
	}
	blocks := r.Build([]RawBlock{{Kind: model.KindParagraph, Lines: []Line{l}}})

	runs := blocks[0].Runs
	if len(runs) != 5 {
		t.Fatalf("got %d runs, want 5: %+v", len(runs), runs)
	}
	if !runs[1].Bold || runs[1].Text != "important" {
		t.Errorf("run 1 = %+v, want bold %q", runs[1], "important")
	}
	if !runs[3].Italic || runs[3].Text != "subtle" {
		t.Errorf("run 3 = %+v, want italic %q", runs[3], "subtle")
	}
	if got := blocks[0].Text(); got != "This is important and subtle." {
		t.Errorf("text = %q", got)
	}
}

func TestBuildFormattingDisabled(t *testing.T) {
	config := DefaultReconstructorConfig()
	config.PreserveFormatting = false
	r := NewReconstructor(config)

	l := Line{
		Spans: []model.Span{
			span("Plain and ", 0, 72, 100, 60, 11, false, false),
			span("bold", 0, 132, 100, 30, 11, true, false),
		},
	}
	blocks := r.Build([]RawBlock{{Kind: model.KindParagraph, Lines: []Line{l}}})

	if len(blocks[0].Runs) != 1 {
		t.Fatalf("got %d runs, want 1 plain run", len(blocks[0].Runs))
	}
	if blocks[0].Runs[0].Bold {
		t.Errorf("formatting leaked through with PreserveFormatting off")
	}
}

func TestBuildNoMergeParagraphs(t *testing.T) {
	config := DefaultReconstructorConfig()
	config.MergeParagraphs = false
	r := NewReconstructor(config)

	blocks := r.Build([]RawBlock{rawParagraph(
		line(bodySpan("First line.", 0, 72, 100, 80)),
		line(bodySpan("Second line.", 0, 72, 116, 90)),
	)})

	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want one per line", len(blocks))
	}
	if blocks[0].Text() != "First line." || blocks[1].Text() != "Second line." {
		t.Errorf("texts = %q, %q", blocks[0].Text(), blocks[1].Text())
	}
}

func TestBuildListMarkerStripped(t *testing.T) {
	r := NewReconstructor(DefaultReconstructorConfig())
	raw := RawBlock{
		Kind:   model.KindListItem,
		Marker: "•",
		Lines: []Line{
			line(bodySpan("• First option here", 0, 90, 100, 140)),
			line(bodySpan("wrapping to a second line.", 0, 100, 116, 180)),
		},
	}
	blocks := r.Build([]RawBlock{raw})

	b := blocks[0]
	if b.Kind != model.KindListItem || b.Marker != "•" {
		t.Fatalf("block = %v marker %q", b.Kind, b.Marker)
	}
	if got := b.Text(); got != "First option here wrapping to a second line." {
		t.Errorf("item text = %q", got)
	}
}

func TestBuildTablePassthrough(t *testing.T) {
	table := &model.TableRegion{Cells: [][]string{{"a", "b"}, {"c", "d"}}}
	r := NewReconstructor(DefaultReconstructorConfig())
	blocks := r.Build([]RawBlock{{Kind: model.KindTableRegion, Table: table, PageIndex: 2, Y: 140}})

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	b := blocks[0]
	if b.Kind != model.KindTableRegion || b.Table != table {
		t.Errorf("table not passed through: %+v", b)
	}
	if b.PageIndex != 2 || b.Y != 140 {
		t.Errorf("anchor = page %d y %v", b.PageIndex, b.Y)
	}
}

func TestBuildHeadingLevelCarried(t *testing.T) {
	r := NewReconstructor(DefaultReconstructorConfig())
	raw := RawBlock{
		Kind:  model.KindHeading,
		Level: 2,
		Lines: []Line{line(span("Background", 0, 72, 72, 90, 14, true, false))},
	}
	blocks := r.Build([]RawBlock{raw})

	b := blocks[0]
	if b.Kind != model.KindHeading || b.Level != 2 {
		t.Errorf("block = %v level %d, want level-2 heading", b.Kind, b.Level)
	}
	if len(b.Runs) != 1 || !b.Runs[0].Bold {
		t.Errorf("heading runs = %+v", b.Runs)
	}
}
