package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates a quote workbook with two sheets: the customer quote
// and the materials takeoff. Returns the file contents as a byte slice.
func GenerateExcel(data *QuoteExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	quoteSheet := "Quote"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, quoteSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	materialsSheet := "Materials"
	if _, err := f.NewSheet(materialsSheet); err != nil {
		return nil, fmt.Errorf("create materials sheet: %w", err)
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#2E6D33"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Quote sheet ─────────────────────────────────────────────────────

	quoteCols := []string{"A", "B", "C", "D", "E"}
	quoteWidths := []float64{10, 40, 8, 14, 14}
	for i, col := range quoteCols {
		if err := f.SetColWidth(quoteSheet, col, col, quoteWidths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	lastQuoteCol := quoteCols[len(quoteCols)-1]

	// Header block: title, customer, address, reference, date.
	if err := f.MergeCell(quoteSheet, "A1", lastQuoteCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(quoteSheet, "A1", sanitizeExcelCell(data.CompanyName+" — Quote"))
	f.SetCellStyle(quoteSheet, "A1", lastQuoteCol+"1", titleStyle)

	headerRow := 2
	writeHeaderLine := func(label, value string) {
		if value == "" {
			return
		}
		cell := fmt.Sprintf("A%d", headerRow)
		last := fmt.Sprintf("%s%d", lastQuoteCol, headerRow)
		f.MergeCell(quoteSheet, cell, last)
		f.SetCellValue(quoteSheet, cell, sanitizeExcelCell(label+": "+value))
		f.SetCellStyle(quoteSheet, cell, last, subtitleStyle)
		headerRow++
	}
	writeHeaderLine("Project", data.Title)
	writeHeaderLine("Customer", data.Customer)
	writeHeaderLine("Address", data.Address)
	writeHeaderLine("Ref", data.ReferenceNumber)
	writeHeaderLine("Date", data.CreatedDate)

	// Column headers.
	tableRow := headerRow + 1
	headers := []string{"Qty", "Item", "Unit", "Price Each", "Line Total"}
	for i, h := range headers {
		f.SetCellValue(quoteSheet, fmt.Sprintf("%s%d", quoteCols[i], tableRow), h)
	}
	f.SetCellStyle(quoteSheet,
		fmt.Sprintf("A%d", tableRow), fmt.Sprintf("%s%d", lastQuoteCol, tableRow), headerStyle)

	// Data rows.
	row := tableRow + 1
	for _, line := range data.Lines {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(quoteSheet, "A"+rowStr, line.Qty)
		f.SetCellValue(quoteSheet, "B"+rowStr, sanitizeExcelCell(line.Description))
		f.SetCellValue(quoteSheet, "C"+rowStr, sanitizeExcelCell(line.Unit))
		f.SetCellValue(quoteSheet, "D"+rowStr, FormatUSD(line.UnitPrice))
		f.SetCellValue(quoteSheet, "E"+rowStr, FormatUSD(line.LineTotal))
		f.SetCellStyle(quoteSheet, "A"+rowStr, lastQuoteCol+rowStr, rowStyle)
		row++
	}

	// Summary rows.
	row++
	writeSummary := func(label, value string) {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(quoteSheet, "D"+rowStr, label)
		f.SetCellStyle(quoteSheet, "D"+rowStr, "D"+rowStr, summaryLabelStyle)
		f.SetCellValue(quoteSheet, "E"+rowStr, value)
		f.SetCellStyle(quoteSheet, "E"+rowStr, "E"+rowStr, summaryValueStyle)
		row++
	}
	writeSummary("Subtotal:", FormatUSD(data.Subtotal))
	taxLabel := fmt.Sprintf("Sales Tax (%.2f%%):", data.DisplayTaxRate())
	if data.RemoveSalesTax {
		taxLabel = "Sales Tax (removed):"
	}
	writeSummary(taxLabel, FormatUSD(data.SalesTax))
	writeSummary("Grand Total:", FormatUSD(data.GrandTotal))

	// ── Materials sheet ─────────────────────────────────────────────────

	matCols := []string{"A", "B", "C", "D"}
	matWidths := []float64{10, 30, 8, 30}
	for i, col := range matCols {
		if err := f.SetColWidth(materialsSheet, col, col, matWidths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	lastMatCol := matCols[len(matCols)-1]

	matHeaders := []string{"Qty", "Item", "Unit", "Notes"}
	for i, h := range matHeaders {
		f.SetCellValue(materialsSheet, fmt.Sprintf("%s1", matCols[i]), h)
	}
	f.SetCellStyle(materialsSheet, "A1", lastMatCol+"1", headerStyle)

	row = 2
	for _, item := range data.Takeoff {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(materialsSheet, "A"+rowStr, item.Qty)
		f.SetCellValue(materialsSheet, "B"+rowStr, sanitizeExcelCell(item.Description))
		f.SetCellValue(materialsSheet, "C"+rowStr, sanitizeExcelCell(item.Unit))
		f.SetCellValue(materialsSheet, "D"+rowStr, sanitizeExcelCell(item.Note))
		f.SetCellStyle(materialsSheet, "A"+rowStr, lastMatCol+rowStr, rowStyle)
		row++
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// thinBorders returns the standard thin border set used for table cells.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#CCCCCC", Style: 1},
		{Type: "right", Color: "#CCCCCC", Style: 1},
		{Type: "top", Color: "#CCCCCC", Style: 1},
		{Type: "bottom", Color: "#CCCCCC", Style: 1},
	}
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +,
// -, @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
