package layout

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sthevan027/converso/model"
)

// Mode selects the header/footer policy for one band.
type Mode int

const (
	// ModeKeep leaves band spans in the body stream, unclassified.
	ModeKeep Mode = iota
	// ModeRemove drops classified header/footer spans entirely.
	ModeRemove
	// ModeConvert removes classified spans from the body stream and
	// re-emits them as HeaderText/FooterText blocks, once per document
	// section rather than once per page.
	ModeConvert
)

// ParseMode maps a mode name to a Mode. Unknown names convert.
func ParseMode(name string) Mode {
	switch strings.ToLower(name) {
	case "keep":
		return ModeKeep
	case "remove":
		return ModeRemove
	default:
		return ModeConvert
	}
}

func (m Mode) String() string {
	switch m {
	case ModeKeep:
		return "keep"
	case ModeRemove:
		return "remove"
	default:
		return "convert"
	}
}

// PageNumberMarker tags a converted HeaderText/FooterText block whose content
// is a page number, so writers can substitute a native page field.
const PageNumberMarker = "page-number"

// ClassifierConfig holds configuration for header/footer classification.
type ClassifierConfig struct {
	// HeaderMargin is the top band height as a fraction of page height.
	HeaderMargin float64

	// FooterMargin is the bottom band height as a fraction of page height.
	FooterMargin float64

	// MinOccurrenceRatio is the fraction of pages a normalized text must
	// recur on to be classified. Default 0.5 (a majority of pages).
	MinOccurrenceRatio float64

	// MinPages is the minimum document length for classification; shorter
	// documents keep all band content in the body.
	MinPages int
}

// DefaultClassifierConfig returns the default classification thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		HeaderMargin:       0.10,
		FooterMargin:       0.10,
		MinOccurrenceRatio: 0.5,
		MinPages:           2,
	}
}

// Region is one detected header or footer: a normalized text that recurs
// across pages at a consistent band, or a page-number sequence.
type Region struct {
	// Kind is the band the region was found in.
	Kind model.BandKind

	// Text is the representative text (first occurrence).
	Text string

	// Normalized is the comparison key (digits replaced, case folded).
	Normalized string

	// IsPageNumber marks page-number content. When a region matches both a
	// recurring-text and a page-number pattern, page-number wins: it is
	// the more specific classification.
	IsPageNumber bool

	// Pages are the 0-based page indices the region occurs on.
	Pages []int
}

// Classification is the result of scanning a document's margin bands.
type Classification struct {
	// HeaderBand and FooterBand are the document-wide margin bands.
	HeaderBand model.MarginBand
	FooterBand model.MarginBand

	// Headers and Footers are the classified regions.
	Headers []Region
	Footers []Region

	config ClassifierConfig
}

// Classifier detects recurring header and footer content across a document's
// pages. The band fractions are document-wide: one fraction applies uniformly
// to all pages.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultClassifierConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// Classify scans every page's margin bands and finds recurring text and
// page-number sequences. Non-recurring band content (a one-off footnote, say)
// is not classified and stays in the body stream.
func (c *Classifier) Classify(pages []model.Page) *Classification {
	result := &Classification{
		HeaderBand: model.MarginBand{Kind: model.BandTop, Fraction: c.config.HeaderMargin},
		FooterBand: model.MarginBand{Kind: model.BandBottom, Fraction: c.config.FooterMargin},
		config:     c.config,
	}
	if len(pages) < c.config.MinPages {
		return result
	}

	headerLines := c.bandLines(pages, &result.HeaderBand)
	footerLines := c.bandLines(pages, &result.FooterBand)

	result.Headers = c.findRegions(headerLines, len(pages), model.BandTop)
	result.Footers = c.findRegions(footerLines, len(pages), model.BandBottom)
	return result
}

// bandLines collects, per page, the text lines falling inside one band, and
// records the band's spans on the way.
func (c *Classifier) bandLines(pages []model.Page, band *model.MarginBand) []Line {
	var lines []Line
	for _, page := range pages {
		sub := model.Page{Index: page.Index, Width: page.Width, Height: page.Height}
		for _, s := range page.Spans {
			if band.Contains(s, page.Height) {
				sub.Spans = append(sub.Spans, s)
				band.Spans = append(band.Spans, s)
			}
		}
		lines = append(lines, BuildLines(sub)...)
	}
	return lines
}

// findRegions groups band lines by normalized text and keeps the groups that
// recur on enough pages or form page-number sequences.
func (c *Classifier) findRegions(lines []Line, pageCount int, kind model.BandKind) []Region {
	if len(lines) == 0 {
		return nil
	}

	type group struct {
		first    string
		pages    map[int]bool
		anyPgNum bool
	}
	groups := make(map[string]*group)

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		key := NormalizeText(text)
		g, ok := groups[key]
		if !ok {
			g = &group{first: text, pages: make(map[int]bool)}
			groups[key] = g
		}
		g.pages[line.PageIndex] = true
		if isPageNumberText(text) {
			g.anyPgNum = true
		}
	}

	minOccur := int(math.Ceil(float64(pageCount) * c.config.MinOccurrenceRatio))
	if minOccur < 2 {
		minOccur = 2
	}

	var regions []Region
	for key, g := range groups {
		isPgNum := g.anyPgNum
		if len(g.pages) < minOccur && !isPgNum {
			continue
		}
		// Page-number groups still need to appear on more than one page:
		// a single "3" in a footer is just text.
		if isPgNum && len(g.pages) < 2 {
			continue
		}
		// Very short non-number fragments are likely slivers of larger text.
		if !isPgNum && len(key) <= 2 {
			continue
		}

		pageIdx := make([]int, 0, len(g.pages))
		for p := range g.pages {
			pageIdx = append(pageIdx, p)
		}
		sort.Ints(pageIdx)

		regions = append(regions, Region{
			Kind:         kind,
			Text:         g.first,
			Normalized:   key,
			IsPageNumber: isPgNum,
			Pages:        pageIdx,
		})
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Normalized < regions[j].Normalized
	})
	return regions
}

// Apply enforces the band modes on the given pages. It returns the body pages
// (classified spans removed under remove/convert) plus the HeaderText and
// FooterText blocks produced by convert mode, attached once per document.
// Under keep, pages pass through untouched.
func (cl *Classification) Apply(pages []model.Page, headerMode, footerMode Mode) ([]model.Page, []model.LogicalBlock) {
	if (headerMode == ModeKeep || len(cl.Headers) == 0) &&
		(footerMode == ModeKeep || len(cl.Footers) == 0) {
		return pages, nil
	}

	headerKeys := regionKeys(cl.Headers)
	footerKeys := regionKeys(cl.Footers)

	out := make([]model.Page, len(pages))
	for i, page := range pages {
		stripped := model.Page{Index: page.Index, Width: page.Width, Height: page.Height}
		dropHeader := cl.lineKeysToDrop(page, cl.HeaderBand, headerMode, headerKeys)
		dropFooter := cl.lineKeysToDrop(page, cl.FooterBand, footerMode, footerKeys)

		for _, s := range page.Spans {
			if dropHeader[spanID(s)] || dropFooter[spanID(s)] {
				continue
			}
			stripped.Spans = append(stripped.Spans, s)
		}
		out[i] = stripped
	}

	var blocks []model.LogicalBlock
	if headerMode == ModeConvert {
		blocks = append(blocks, convertRegions(cl.Headers, model.KindHeaderText)...)
	}
	if footerMode == ModeConvert {
		blocks = append(blocks, convertRegions(cl.Footers, model.KindFooterText)...)
	}
	return out, blocks
}

// lineKeysToDrop decides, for one page and one band, which spans are removed.
// A span is removed when its whole line matches a classified region.
func (cl *Classification) lineKeysToDrop(page model.Page, band model.MarginBand, mode Mode, keys map[string]bool) map[spanKey]bool {
	drop := make(map[spanKey]bool)
	if mode == ModeKeep || len(keys) == 0 {
		return drop
	}

	sub := model.Page{Index: page.Index, Width: page.Width, Height: page.Height}
	for _, s := range page.Spans {
		if band.Contains(s, page.Height) {
			sub.Spans = append(sub.Spans, s)
		}
	}
	for _, line := range BuildLines(sub) {
		if keys[NormalizeText(line.Text)] || isPageNumberText(line.Text) && keys[pageNumberKey] {
			for _, s := range line.Spans {
				drop[spanID(s)] = true
			}
		}
	}
	return drop
}

// pageNumberKey is the shared drop key for page-number regions: their
// normalized forms differ across numbering styles ("3", "iv", "Page 5 of 9")
// but they are all the same logical footer.
const pageNumberKey = "\x00page-number"

func regionKeys(regions []Region) map[string]bool {
	keys := make(map[string]bool, len(regions))
	for _, r := range regions {
		if r.IsPageNumber {
			keys[pageNumberKey] = true
		}
		keys[r.Normalized] = true
	}
	return keys
}

// convertRegions emits one block per region. Page-number regions carry
// PageNumberMarker so the DOCX writer can emit a native page field instead of
// a frozen number.
func convertRegions(regions []Region, kind model.BlockKind) []model.LogicalBlock {
	var blocks []model.LogicalBlock
	for _, r := range regions {
		b := model.LogicalBlock{
			Kind: kind,
			Runs: []model.Run{{Text: r.Text}},
		}
		if len(r.Pages) > 0 {
			b.PageIndex = r.Pages[0]
		}
		if r.IsPageNumber {
			b.Marker = PageNumberMarker
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// spanKey identifies a span by position; spans are immutable so page, corner
// and text length are a stable identity within one run.
type spanKey struct {
	page   int
	x, y   float64
	length int
}

func spanID(s model.Span) spanKey {
	return spanKey{page: s.PageIndex, x: s.BBox.X0, y: s.BBox.Y0, length: len(s.Text)}
}

var (
	digitRun   = regexp.MustCompile(`\d+`)
	whitespace = regexp.MustCompile(`\s+`)
	romanToken = regexp.MustCompile(`^[ivxlcdm]{1,7}$`)
)

// NormalizeText produces the comparison key used for recurrence detection:
// Unicode NFKC fold, digit runs replaced with "#", whitespace collapsed,
// case folded.
func NormalizeText(text string) string {
	t := norm.NFKC.String(text)
	t = digitRun.ReplaceAllString(t, "#")
	t = whitespace.ReplaceAllString(strings.TrimSpace(t), " ")
	return strings.ToLower(t)
}

// pageNumberForms are the normalized shapes of arabic page numbers, possibly
// combined with literal text.
var pageNumberForms = map[string]bool{
	"#":           true,
	"page #":      true,
	"- # -":       true,
	"# of #":      true,
	"page # of #": true,
	"#/#":         true,
	"p. #":        true,
	"p.#":         true,
	"pg #":        true,
	"pg. #":       true,
}

// isPageNumberText reports whether a line looks like a page number: arabic
// digits, roman numerals (i, ii, iii, ...), or letter sequences (A, B, C),
// possibly combined with literal text ("Page X of Y").
func isPageNumberText(text string) bool {
	normalized := NormalizeText(text)
	if pageNumberForms[normalized] {
		return true
	}

	// Roman numerals and letter sequences survive normalization unchanged;
	// strip the literal vocabulary and require every remaining token to be
	// number-like.
	tokens := strings.Fields(normalized)
	numberLike := 0
	for _, tok := range tokens {
		switch tok {
		case "page", "p.", "pg", "pg.", "of", "-", "–", "—":
			continue
		}
		tok = strings.Trim(tok, ".-–—")
		if tok == "" {
			continue
		}
		if tok == "#" || romanToken.MatchString(tok) || len(tok) == 1 && tok[0] >= 'a' && tok[0] <= 'z' {
			numberLike++
			continue
		}
		return false
	}
	return numberLike > 0 && len(tokens) <= 4
}
