package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// QuoteExportData holds everything the export adapters (CSV, Excel, PDF,
// email) need to render a quote. Totals are recomputed from the line item
// table being rendered, so manual edits carry through to every format.
type QuoteExportData struct {
	CompanyName     string
	Title           string
	Customer        string
	Address         string
	ReferenceNumber string
	CreatedDate     string

	Lines   []LineItem
	Takeoff []TakeoffItem

	RemoveSalesTax bool
	TaxRate        float64
	Subtotal       float64
	SalesTax       float64
	GrandTotal     float64
	AmountInWords  string
}

// BuildQuoteExportData assembles export data for a stored estimate: the
// persisted (possibly hand-edited) line item table, a freshly derived
// materials takeoff, and totals recomputed from the table.
func BuildQuoteExportData(app *pocketbase.PocketBase, estimateID, companyName string, rates Rates) (*QuoteExportData, error) {
	estimate, err := app.FindRecordById("estimates", estimateID)
	if err != nil {
		return nil, fmt.Errorf("estimate not found: %w", err)
	}

	lines, err := LineItemsForEstimate(app, estimateID)
	if err != nil {
		return nil, err
	}

	cfg := JobConfigFromRecord(estimate)

	// The takeoff is derived data, not user-editable; recompute it.
	result := ComputeEstimate(cfg, NewRecordPrices(app), rates)

	subtotal, salesTax, grandTotal := TotalsFromLineItems(lines, cfg.RemoveSalesTax, rates.SalesTaxRate)

	createdDate := ""
	if dt := estimate.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("Jan 02, 2006")
	}

	title := cfg.Title
	if title == "" {
		title = "Fencing"
	}

	return &QuoteExportData{
		CompanyName:     companyName,
		Title:           title,
		Customer:        cfg.Customer,
		Address:         cfg.Address,
		ReferenceNumber: estimate.GetString("reference_number"),
		CreatedDate:     createdDate,
		Lines:           lines,
		Takeoff:         result.MaterialsTakeoff,
		RemoveSalesTax:  cfg.RemoveSalesTax,
		TaxRate:         rates.SalesTaxRate,
		Subtotal:        subtotal,
		SalesTax:        salesTax,
		GrandTotal:      grandTotal,
		AmountInWords:   AmountToWords(grandTotal),
	}, nil
}

// DisplayTaxRate returns the percentage shown on customer documents: zero
// when the tax line is suppressed.
func (d *QuoteExportData) DisplayTaxRate() float64 {
	if d.RemoveSalesTax {
		return 0
	}
	return d.TaxRate * 100
}
