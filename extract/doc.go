// Package extract reads the geometry and typography layer of a PDF: it opens
// and validates the file, then pulls positioned text spans page by page.
//
// Validation and page accounting go through pdfcpu; the text layer itself is
// read with ledongthuc/pdf. Coordinates are converted from PDF bottom-origin
// to the top-origin convention the model package uses, so a smaller Y always
// means higher on the page.
//
// Pages without an embedded text layer (scanned documents) come back with no
// spans. A TextProvider, when supplied, fills those pages in; the ocr package
// provides one backed by Tesseract.
package extract
