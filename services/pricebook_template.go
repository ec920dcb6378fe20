package services

import (
	"bytes"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/xuri/excelize/v2"
)

// GeneratePricebookTemplate builds the import template workbook, pre-filled
// with the current pricebook so edits can start from live prices.
func GeneratePricebookTemplate(app *pocketbase.PocketBase) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#2E6D33"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetColWidth(sheet, "A", "A", 26)
	f.SetColWidth(sheet, "B", "B", 44)
	f.SetColWidth(sheet, "C", "C", 12)

	headers := []string{"SKU", "Description", "Unit Price"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)

	records, err := app.FindRecordsByFilter("pricebook", "id != ''", "sku", 0, 0)
	if err != nil {
		records = nil
	}

	row := 2
	for _, r := range records {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(r.GetString("sku")))
		f.SetCellValue(sheet, "B"+rowStr, sanitizeExcelCell(r.GetString("description")))
		f.SetCellValue(sheet, "C"+rowStr, r.GetFloat("unit_price"))
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}
