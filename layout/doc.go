// Package layout is the structure inference core of the conversion pipeline.
// It reconstructs a flow document model from positioned spans: it identifies
// recurring header and footer content in the page margin bands, builds a
// document-wide font-size histogram to map sizes to heading levels, groups
// spans into lines and lines into typed logical blocks (headings, paragraphs,
// list items, table-like regions), and merges fragmented lines into fluent
// paragraphs with bold/italic formatting runs.
//
// Classification never fails: ambiguous input degrades to the safer, more
// generic class (an unclear heading becomes a paragraph, an unclear table a
// paragraph sequence) and the degradation is surfaced as a warning.
//
// Heuristic thresholds are grouped into named quality profiles (fast,
// balanced, high) held in a single lookup table, so new profiles are additive.
package layout
