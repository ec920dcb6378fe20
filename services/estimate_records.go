package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// MaterialSpecFrom builds the tagged material variant from stored estimate
// fields. Unknown values fall back to 14-gauge silt fence, the form default.
func MaterialSpecFrom(family, variant string, includeCaps bool, capType string) MaterialSpec {
	if strings.Contains(family, "Orange") {
		duty := LightDuty
		if variant == string(HeavyDuty) {
			duty = HeavyDuty
		}
		return OrangeSpec{Duty: duty}
	}

	gauge := Gauge14
	switch variant {
	case string(Gauge125):
		gauge = Gauge125
	case string(Unreinforced):
		gauge = Unreinforced
	}

	cap := CapOSHA
	if capType == string(CapPlastic) {
		cap = CapPlastic
	}

	return SiltSpec{Gauge: gauge, IncludeCaps: includeCaps, CapType: cap}
}

// JobConfigFromRecord rebuilds the engine input from a stored estimate.
func JobConfigFromRecord(r *core.Record) JobConfig {
	return JobConfig{
		Title:    r.GetString("title"),
		Customer: r.GetString("customer"),
		Address:  r.GetString("address"),
		Material: MaterialSpecFrom(
			r.GetString("material_family"),
			r.GetString("variant"),
			r.GetBool("include_caps"),
			r.GetString("cap_type"),
		),
		TotalRequestedFeet: r.GetFloat("total_feet"),
		WastePercent:       r.GetFloat("waste_percent"),
		PostSpacingFeet:    r.GetInt("post_spacing"),
		SellPricePerFoot:   r.GetFloat("sell_price_per_foot"),
		IncludeRemoval:     r.GetBool("include_removal"),
		RemoveSalesTax:     r.GetBool("remove_sales_tax"),
	}
}

// LineItemFromRecord maps a stored line item row back to the engine type.
func LineItemFromRecord(r *core.Record) LineItem {
	return LineItem{
		ID:          r.GetString("item_key"),
		Qty:         r.GetFloat("qty"),
		Description: r.GetString("description"),
		Unit:        r.GetString("unit"),
		UnitPrice:   r.GetFloat("unit_price"),
		LineTotal:   r.GetFloat("line_total"),
		UserEdited:  r.GetBool("user_edited"),
	}
}

// LineItemsForEstimate loads the stored line item table in display order.
func LineItemsForEstimate(app *pocketbase.PocketBase, estimateID string) ([]LineItem, error) {
	records, err := app.FindRecordsByFilter(
		"estimate_line_items",
		"estimate = {:estimateId}",
		"sort_order",
		0,
		0,
		map[string]any{"estimateId": estimateID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}

	items := make([]LineItem, 0, len(records))
	for _, r := range records {
		items = append(items, LineItemFromRecord(r))
	}
	return items, nil
}

// SaveLineItems replaces the stored line item table for an estimate with the
// given rows.
func SaveLineItems(app *pocketbase.PocketBase, estimateID string, items []LineItem) error {
	existing, err := app.FindRecordsByFilter(
		"estimate_line_items",
		"estimate = {:estimateId}",
		"",
		0,
		0,
		map[string]any{"estimateId": estimateID},
	)
	if err == nil {
		for _, r := range existing {
			if err := app.Delete(r); err != nil {
				return fmt.Errorf("failed to clear line items: %w", err)
			}
		}
	}

	col, err := app.FindCollectionByNameOrId("estimate_line_items")
	if err != nil {
		return fmt.Errorf("estimate_line_items collection not found: %w", err)
	}

	for i, item := range items {
		record := core.NewRecord(col)
		record.Set("estimate", estimateID)
		record.Set("sort_order", i+1)
		record.Set("item_key", item.ID)
		record.Set("qty", item.Qty)
		record.Set("description", item.Description)
		record.Set("unit", item.Unit)
		record.Set("unit_price", item.UnitPrice)
		record.Set("line_total", item.LineTotal)
		record.Set("user_edited", item.UserEdited)

		if err := app.Save(record); err != nil {
			return fmt.Errorf("failed to save line item %q: %w", item.Description, err)
		}
	}
	return nil
}
