// Package model defines the document model shared by every stage of the
// conversion pipeline: positioned text spans as extracted from a page, the
// margin bands scanned for headers and footers, and the typed logical blocks
// that structure inference reconstructs from them.
//
// Coordinates are in page points with the origin at the top-left corner and Y
// increasing downward. Extractors working in PDF bottom-origin space convert
// before constructing Spans, so downstream code never branches on coordinate
// direction.
//
// Spans are immutable once extracted. Pages are owned by the extractor's
// output and read-only downstream. LogicalBlocks are created by the structure
// inference engine and paragraph reconstructor and consumed read-only by the
// target writers.
package model
