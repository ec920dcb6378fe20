// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fencequote/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestEstimate creates a silt fence estimate record with sensible
// defaults and returns it. Individual fields can be adjusted afterwards.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		t.Fatalf("failed to find estimates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("customer", "Test Customer")
	record.Set("address", "500 Ranch Rd, Double Oak, TX")
	record.Set("material_family", "Silt Fence")
	record.Set("variant", "14 Gauge")
	record.Set("total_feet", 1000.0)
	record.Set("waste_percent", 2.0)
	record.Set("post_spacing", 8)
	record.Set("sell_price_per_foot", 2.50)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate: %v", err)
	}

	return record
}

// CreateTestLineItem creates a line item record attached to an estimate.
func CreateTestLineItem(t *testing.T, app *pocketbase.PocketBase, estimateID, itemKey, description string, qty, unitPrice float64, sortOrder int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimate_line_items")
	if err != nil {
		t.Fatalf("failed to find estimate_line_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("estimate", estimateID)
	record.Set("sort_order", sortOrder)
	record.Set("item_key", itemKey)
	record.Set("qty", qty)
	record.Set("description", description)
	record.Set("unit", "LF")
	record.Set("unit_price", unitPrice)
	record.Set("line_total", qty*unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line item: %v", err)
	}

	return record
}

// SetPricebookPrice upserts a pricebook entry so tests can control lookups.
func SetPricebookPrice(t *testing.T, app *pocketbase.PocketBase, sku string, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("pricebook")
	if err != nil {
		t.Fatalf("failed to find pricebook collection: %v", err)
	}

	record, err := app.FindFirstRecordByFilter("pricebook", "sku = {:sku}", map[string]any{"sku": sku})
	if err != nil {
		record = core.NewRecord(col)
		record.Set("sku", sku)
	}
	record.Set("unit_price", unitPrice)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save pricebook entry: %v", err)
	}

	return record
}
