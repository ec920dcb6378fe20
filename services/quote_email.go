package services

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildQuoteMailto builds a mailto: URL that composes a quote email with the
// line items and takeoff in the body. The UI surfaces it as an "Email Quote"
// link; no mail is sent server-side.
func BuildQuoteMailto(data *QuoteExportData) string {
	subject := "Quote - " + data.Title

	customer := data.Customer
	if customer == "" {
		customer = "your project"
	}
	address := data.Address
	if address == "" {
		address = "the jobsite"
	}

	var body strings.Builder
	body.WriteString("Hello,\r\n\r\n")
	fmt.Fprintf(&body, "Please find the quote below for %s at %s.\r\n\r\n", customer, address)

	body.WriteString("Customer Printout:\r\n")
	for _, line := range data.Lines {
		fmt.Fprintf(&body, "%s %s - %s @ %s: %s\r\n",
			formatQty(line.Qty), line.Unit, line.Description,
			FormatUSD(line.UnitPrice), FormatUSD(line.LineTotal))
	}

	fmt.Fprintf(&body, "\r\nSubtotal: %s\r\n", FormatUSD(data.Subtotal))
	fmt.Fprintf(&body, "Sales Tax: %s\r\n", FormatUSD(data.SalesTax))
	fmt.Fprintf(&body, "Grand Total: %s\r\n\r\n", FormatUSD(data.GrandTotal))

	body.WriteString("Materials Takeoff:\r\n")
	for _, item := range data.Takeoff {
		fmt.Fprintf(&body, "%d %s - %s (%s)\r\n", item.Qty, item.Unit, item.Description, item.Note)
	}

	return fmt.Sprintf("mailto:?subject=%s&body=%s",
		url.QueryEscape(subject), url.QueryEscape(body.String()))
}
