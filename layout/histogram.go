package layout

import (
	"sort"

	"github.com/sthevan027/converso/model"
)

// sizeBucket quantizes a font size to 0.5pt resolution so that rendering
// jitter does not split one logical size into several histogram entries.
func sizeBucket(size float64) int {
	return int(size*2 + 0.5)
}

// FontStats is the document-wide font-size histogram over body spans. The
// most frequent size is the body size; sizes strictly greater than it map to
// heading levels 1..6 in descending size order, the largest size taking
// level 1. Sizes at or below the body size are never headings.
type FontStats struct {
	// BodySize is the most frequent font size, the non-heading baseline.
	BodySize float64

	levelOf map[int]int // size bucket -> heading level 1..6
}

// BuildFontStats computes the histogram across all body spans of the given
// pages, weighting each size by the amount of text set in it.
func BuildFontStats(pages []model.Page) *FontStats {
	weight := make(map[int]int)
	for _, page := range pages {
		for _, s := range page.Spans {
			if s.FontSize <= 0 {
				continue
			}
			weight[sizeBucket(s.FontSize)] += len(s.Text)
		}
	}

	stats := &FontStats{BodySize: 12.0, levelOf: make(map[int]int)}
	if len(weight) == 0 {
		return stats
	}

	bodyBucket := 0
	best := -1
	for bucket, w := range weight {
		if w > best || (w == best && bucket < bodyBucket) {
			best = w
			bodyBucket = bucket
		}
	}
	stats.BodySize = float64(bodyBucket) / 2

	var headingBuckets []int
	for bucket := range weight {
		if bucket > bodyBucket {
			headingBuckets = append(headingBuckets, bucket)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(headingBuckets)))

	for i, bucket := range headingBuckets {
		level := i + 1
		if level > 6 {
			level = 6
		}
		stats.levelOf[bucket] = level
	}

	return stats
}

// HeadingLevel returns the heading level (1-6) assigned to a font size, or 0
// when the size is at or below the body size.
func (s *FontStats) HeadingLevel(size float64) int {
	if s == nil {
		return 0
	}
	return s.levelOf[sizeBucket(size)]
}
