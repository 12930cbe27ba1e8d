package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// pdfFontFamily is the registered name of the embedded export font.
const pdfFontFamily = "diary"

// RenderPDF lays the table out as a simple grid, one record per row. Long
// cells are truncated rather than wrapped; the CSV export carries full text.
//
// utf8Font is the raw TTF to embed. Diary content is mostly Hangul, which
// the built-in cp1252 fonts cannot draw, so callers should supply a CJK
// capable font; with a nil font the renderer falls back to the built-ins
// and only Latin text survives.
func RenderPDF(table Table, utf8Font []byte) ([]byte, error) {
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	family := "Arial"
	if len(utf8Font) > 0 {
		family = pdfFontFamily
		pdf.AddUTF8FontFromBytes(family, "", utf8Font)
		pdf.AddUTF8FontFromBytes(family, "B", utf8Font)
	}
	pdf.SetTitle(table.Title, true)
	pdf.AddPage()

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 10, table.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(table.Headers))

	pdf.SetFont(family, "B", 10)
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, record := range table.Records {
		for i := range table.Headers {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			pdf.CellFormat(colWidth, 7, truncate(cell, 60), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens a cell to max runes. Counting runes, not bytes, keeps
// multi-byte Hangul and emoji intact at the cut point.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
