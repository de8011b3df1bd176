package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 10.0
	// Tables wider than this many columns switch to landscape.
	landscapeColumns = 6
)

// PDFExporter renders a Table as a paginated A4 report.
type PDFExporter struct {
	FontFamily string
}

// NewPDFExporter constructs a PDF exporter using the core Arial font.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{FontFamily: "Arial"}
}

// Render lays out the title block, a repeated header row and tinted body rows.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	font := e.FontFamily
	if font == "" {
		font = "Arial"
	}

	orientation := "P"
	if len(table.Columns) > landscapeColumns {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(font, "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pageWidth, _ := pdf.GetPageSize()
	widths := columnWidths(table.Columns, pageWidth-2*pageMargin)

	header := func() {
		pdf.SetFont(font, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], 8, col.Header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(font, "", 8)
	}

	pdf.AddPage()
	if table.Title != "" {
		pdf.SetFont(font, "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(table.Title), "", 1, "C", false, 0, "")
	}
	if table.Subtitle != "" {
		pdf.SetFont(font, "", 9)
		pdf.CellFormat(0, 6, table.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
	header()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()
	for _, row := range table.Rows {
		if pdf.GetY()+7 > pageHeight-15 {
			pdf.AddPage()
			header()
		}
		fill := false
		if c, ok := table.tint(row); ok {
			pdf.SetFillColor(c.R, c.G, c.B)
			fill = true
		}
		for i, value := range row {
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, "", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns []Column, usable float64) []float64 {
	total := 0.0
	for _, col := range columns {
		total += weight(col)
	}
	widths := make([]float64, len(columns))
	for i, col := range columns {
		widths[i] = usable * weight(col) / total
	}
	return widths
}

func weight(col Column) float64 {
	if col.Weight <= 0 {
		return 1
	}
	return col.Weight
}
