package layout

import "strings"

// Profile bundles the heuristic thresholds tied to one transcription quality
// level. Profiles live in a single lookup table; adding a quality level means
// adding a row, not another conditional.
type Profile struct {
	// Name is the profile identifier ("fast", "balanced", "high").
	Name string

	// GapFactor is the paragraph-break threshold: two consecutive lines
	// belong to one paragraph while their vertical gap stays below
	// GapFactor times the line height. A generous factor merges
	// aggressively, a tight factor conservatively.
	GapFactor float64

	// IndentTolerance is the maximum left-indent shift, in points, that
	// still continues the current paragraph.
	IndentTolerance float64

	// TableMinRows is the minimum number of consecutive aligned lines
	// required to form a table region.
	TableMinRows int

	// TableGapFactor is the minimum horizontal gap between spans on one
	// line, as a multiple of font size, to count as a column separator.
	TableGapFactor float64

	// ColumnTolerance is the maximum drift, in points, between column
	// boundaries on consecutive lines of a table region.
	ColumnTolerance float64
}

// profiles is the quality lookup table. Fast merges paragraphs aggressively
// and tolerates sloppier alignment; high splits conservatively and demands
// tighter alignment before committing to a table.
var profiles = map[string]Profile{
	"fast": {
		Name:            "fast",
		GapFactor:       1.9,
		IndentTolerance: 18.0,
		TableMinRows:    2,
		TableGapFactor:  2.5,
		ColumnTolerance: 14.0,
	},
	"balanced": {
		Name:            "balanced",
		GapFactor:       1.5,
		IndentTolerance: 12.0,
		TableMinRows:    3,
		TableGapFactor:  3.0,
		ColumnTolerance: 10.0,
	},
	"high": {
		Name:            "high",
		GapFactor:       1.25,
		IndentTolerance: 8.0,
		TableMinRows:    3,
		TableGapFactor:  3.5,
		ColumnTolerance: 6.0,
	},
}

// ProfileFor returns the profile for a quality name. Unknown names fall back
// to the balanced profile.
func ProfileFor(quality string) Profile {
	if p, ok := profiles[strings.ToLower(quality)]; ok {
		return p
	}
	return profiles["balanced"]
}
