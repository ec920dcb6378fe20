package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// GenerateCustomerCSV renders the customer printout table as CSV, followed by
// the totals computed from the rows being exported.
func GenerateCustomerCSV(data *QuoteExportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Qty", "Item", "Unit", "Price Each", "Line Total"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, line := range data.Lines {
		record := []string{
			formatQty(line.Qty),
			line.Description,
			line.Unit,
			strconv.FormatFloat(line.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(line.LineTotal, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write line item: %w", err)
		}
	}

	// Trailing totals block.
	w.Write([]string{})
	w.Write([]string{"", "", "", "Subtotal", strconv.FormatFloat(data.Subtotal, 'f', 2, 64)})
	taxLabel := fmt.Sprintf("Sales Tax (%.2f%%)", data.DisplayTaxRate())
	if data.RemoveSalesTax {
		taxLabel = "Sales Tax (removed)"
	}
	w.Write([]string{"", "", "", taxLabel, strconv.FormatFloat(data.SalesTax, 'f', 2, 64)})
	w.Write([]string{"", "", "", "Grand Total", strconv.FormatFloat(data.GrandTotal, 'f', 2, 64)})

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateMaterialsCSV renders the materials takeoff as CSV.
func GenerateMaterialsCSV(data *QuoteExportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Qty", "Item", "Unit", "Notes"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, item := range data.Takeoff {
		record := []string{
			strconv.Itoa(item.Qty),
			item.Description,
			item.Unit,
			item.Note,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write takeoff item: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
