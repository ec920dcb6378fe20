package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfHeaderBg   = &props.Color{Red: 46, Green: 109, Blue: 51}
	pdfHeaderText = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfSubtle     = &props.Color{Red: 120, Green: 120, Blue: 120}
)

// GeneratePDF creates the customer quote PDF using maroto/v2. It returns the
// raw PDF bytes or an error.
func GeneratePDF(data *QuoteExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfSubtle,
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, data)
	addQuoteTable(m, data)
	addQuoteTotals(m, data)
	addTakeoffTable(m, data)
	addQuoteFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuoteHeader adds the company title, date, and job identification block.
func addQuoteHeader(m core.Maroto, data *QuoteExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.CompanyName+" — Quote", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New("Date: "+data.CreatedDate, props.Text{
					Size:  9,
					Align: align.Left,
					Color: pdfSubtle,
				}),
			),
		),
	)

	detail := func(label, value string) {
		if value == "" {
			value = "-"
		}
		m.AddRows(
			row.New(5).Add(
				col.New(2).Add(
					text.New(label, props.Text{Size: 9, Style: fontstyle.Bold}),
				),
				col.New(10).Add(
					text.New(value, props.Text{Size: 9}),
				),
			),
		)
	}
	detail("Project:", data.Title)
	detail("Customer:", data.Customer)
	detail("Address:", data.Address)
	if data.ReferenceNumber != "" {
		detail("Reference:", data.ReferenceNumber)
	}

	m.AddRows(row.New(4))
}

// addQuoteTable renders the customer line item table.
func addQuoteTable(m core.Maroto, data *QuoteExportData) {
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New("Customer Printout", props.Text{Size: 11, Style: fontstyle.Bold}),
			),
		),
	)

	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: pdfHeaderText,
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(7).Add(
			col.New(2).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Item", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unit", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Price Each", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Line Total", headerText)).WithStyle(&headerCell),
		),
	)

	if len(data.Lines) == 0 {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New("No line items.", props.Text{Size: 8, Color: pdfSubtle}),
				),
			),
		)
		return
	}

	cellText := props.Text{Size: 8, Align: align.Center}
	cellTextLeft := props.Text{Size: 8, Align: align.Left}
	cellTextRight := props.Text{Size: 8, Align: align.Right}

	for _, line := range data.Lines {
		m.AddRows(
			row.New(6).Add(
				col.New(2).Add(text.New(formatQty(line.Qty), cellText)),
				col.New(4).Add(text.New(line.Description, cellTextLeft)),
				col.New(1).Add(text.New(line.Unit, cellText)),
				col.New(2).Add(text.New(FormatUSD(line.UnitPrice), cellTextRight)),
				col.New(3).Add(text.New(FormatUSD(line.LineTotal), cellTextRight)),
			),
		)
	}
}

// addQuoteTotals renders the subtotal, tax, and grand total block.
func addQuoteTotals(m core.Maroto, data *QuoteExportData) {
	m.AddRows(row.New(3))

	totalRow := func(label, value string, bold bool) {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		m.AddRows(
			row.New(5).Add(
				col.New(9).Add(
					text.New(label, props.Text{Size: 9, Style: style, Align: align.Right}),
				),
				col.New(3).Add(
					text.New(value, props.Text{Size: 9, Style: style, Align: align.Right}),
				),
			),
		)
	}

	totalRow("Subtotal:", FormatUSD(data.Subtotal), false)
	taxLabel := fmt.Sprintf("Sales Tax (%.2f%%):", data.DisplayTaxRate())
	if data.RemoveSalesTax {
		taxLabel = "Sales Tax (removed):"
	}
	totalRow(taxLabel, FormatUSD(data.SalesTax), false)
	totalRow("Grand Total:", FormatUSD(data.GrandTotal), true)

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New("Amount in words: "+data.AmountInWords, props.Text{
					Size:  8,
					Align: align.Right,
					Color: pdfSubtle,
				}),
			),
		),
	)
}

// addTakeoffTable renders the internal materials takeoff table.
func addTakeoffTable(m core.Maroto, data *QuoteExportData) {
	m.AddRows(row.New(4))
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New("Material Takeoff", props.Text{Size: 11, Style: fontstyle.Bold}),
			),
		),
	)

	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: pdfHeaderText,
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(7).Add(
			col.New(2).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Item", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unit", headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Notes", headerTextLeft)).WithStyle(&headerCell),
		),
	)

	if len(data.Takeoff) == 0 {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New("No materials.", props.Text{Size: 8, Color: pdfSubtle}),
				),
			),
		)
		return
	}

	cellText := props.Text{Size: 8, Align: align.Center}
	cellTextLeft := props.Text{Size: 8, Align: align.Left}

	for _, item := range data.Takeoff {
		m.AddRows(
			row.New(6).Add(
				col.New(2).Add(text.New(fmt.Sprintf("%d", item.Qty), cellText)),
				col.New(4).Add(text.New(item.Description, cellTextLeft)),
				col.New(1).Add(text.New(item.Unit, cellText)),
				col.New(5).Add(text.New(item.Note, cellTextLeft)),
			),
		)
	}
}

// addQuoteFooter adds the generated-by note.
func addQuoteFooter(m core.Maroto, data *QuoteExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(5).Add(
			col.New(12).Add(
				text.New("Generated by "+data.CompanyName+" Estimator", props.Text{
					Size:  7,
					Align: align.Right,
					Color: pdfSubtle,
				}),
			),
		),
	)
}

// formatQty formats a quantity: whole numbers without decimals, others with
// 2 decimals.
func formatQty(val float64) string {
	if val == float64(int64(val)) {
		return fmt.Sprintf("%.0f", val)
	}
	return fmt.Sprintf("%.2f", val)
}
