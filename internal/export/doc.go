// Package export writes a filtered course list as Markdown or PDF.
//
// Markdown keeps the table's links by converting each cell's HTML with
// html-to-markdown; PDF renders the same table with gofpdf.
package export
