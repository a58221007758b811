// Package docx reads and writes DOCX (Office Open XML) documents at the
// level the conversion pipeline needs: ordered paragraphs with styles and
// formatting runs, tables, inline images, and one section header/footer.
//
// The writer serializes a reconstructed block sequence into a minimal but
// valid package: document, styles, numbering, content types, relationships,
// and the optional header1/footer1 parts. The reader walks document.xml in
// element order and resolves paragraph styles back into the same block
// model, which is what the DOCX to PDF path consumes.
package docx
