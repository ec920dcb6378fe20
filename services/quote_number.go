package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatQuoteNumber constructs the quote reference from components.
func formatQuoteNumber(year, sequence int) string {
	return fmt.Sprintf("DOF-Q-%d-%03d", year, sequence)
}

// GenerateQuoteNumber creates the next quote reference number.
// Format: DOF-Q-{year}-{sequence}, sequence 3-digit zero-padded per calendar
// year.
func GenerateQuoteNumber(app *pocketbase.PocketBase, now time.Time) (string, error) {
	prefix := fmt.Sprintf("DOF-Q-%d-", now.Year())

	existing, err := app.FindRecordsByFilter(
		"estimates",
		"reference_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		// No collection or no records yet; start at 1.
		existing = nil
	}

	return formatQuoteNumber(now.Year(), len(existing)+1), nil
}
