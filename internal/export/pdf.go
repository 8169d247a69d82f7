package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 12.0
	lineHeight = 5.0
)

// PDF renders doc as a landscape A4 table.
func PDF(w io.Writer, doc Document) error {
	pdf := render(doc)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func render(doc Document) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(doc.Title), "", "L", false)
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	if doc.Source != "" {
		pdf.MultiCell(0, lineHeight, tr("Source: "+doc.Source), "", "L", false)
	}
	pdf.MultiCell(0, lineHeight, tr(doc.Summary()), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	cols := doc.columns()
	if cols > 0 {
		pageWidth, _ := pdf.GetPageSize()
		colWidth := (pageWidth - 2*pageMargin) / float64(cols)

		if doc.Header != nil {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetFillColor(230, 230, 230)
			writeRow(pdf, tr, doc.Header.Cells, cols, colWidth, true)
		}

		pdf.SetFont("Helvetica", "", 9)
		for _, r := range doc.Rows {
			writeRow(pdf, tr, r.Cells, cols, colWidth, false)
		}
	}

	return pdf
}

// writeRow draws one table row, wrapping cell text and starting a new page
// when the row would not fit.
func writeRow(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, cols int, colWidth float64, fill bool) {
	lines := make([][]string, cols)
	height := 1
	for i := 0; i < cols; i++ {
		text := ""
		if i < len(cells) {
			text = tr(cells[i])
		}
		for _, l := range pdf.SplitLines([]byte(text), colWidth-2) {
			lines[i] = append(lines[i], string(l))
		}
		if len(lines[i]) > height {
			height = len(lines[i])
		}
	}
	rowHeight := float64(height) * lineHeight

	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+rowHeight > pageHeight-pageMargin {
		pdf.AddPage()
	}

	style := "D"
	if fill {
		style = "FD"
	}
	x, y := pdf.GetXY()
	for i := 0; i < cols; i++ {
		pdf.Rect(x+float64(i)*colWidth, y, colWidth, rowHeight, style)
		for j, l := range lines[i] {
			pdf.SetXY(x+float64(i)*colWidth+1, y+float64(j)*lineHeight)
			pdf.CellFormat(colWidth-2, lineHeight, l, "", 0, "L", false, 0, "")
		}
	}
	pdf.SetXY(x, y+rowHeight)
}
