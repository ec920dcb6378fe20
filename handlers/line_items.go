package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fencequote/services"
)

// findLineItem resolves a line item row by estimate and item key.
func findLineItem(app *pocketbase.PocketBase, estimateID, itemKey string) (*core.Record, error) {
	return app.FindFirstRecordByFilter(
		"estimate_line_items",
		"estimate = {:estimateId} && item_key = {:itemKey}",
		map[string]any{"estimateId": estimateID, "itemKey": itemKey},
	)
}

// HandleLineItemUpdate returns a handler that applies a manual edit to one
// line item. Qty, description, unit, unit price and line total can each be
// changed; when line_total is not supplied it is re-derived from qty and
// price. Edited rows are marked user_edited so preserving recomputes keep
// them.
func HandleLineItemUpdate(app *pocketbase.PocketBase, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		itemKey := e.Request.PathValue("itemId")

		record, err := findLineItem(app, estimateID, itemKey)
		if err != nil {
			return e.String(http.StatusNotFound, "Line item not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			log.Printf("line_item_update: could not parse form: %v", err)
			return e.String(http.StatusBadRequest, "Invalid form data")
		}
		form := e.Request.PostForm

		for _, name := range []string{"description", "unit"} {
			if vals, ok := form[name]; ok && len(vals) > 0 {
				record.Set(name, strings.TrimSpace(vals[0]))
			}
		}
		for _, name := range []string{"qty", "unit_price"} {
			if vals, ok := form[name]; ok && len(vals) > 0 {
				v, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
				if err != nil {
					return e.String(http.StatusBadRequest, "Invalid "+name)
				}
				record.Set(name, v)
			}
		}

		// An explicit total wins; otherwise re-derive it from the row.
		if vals, ok := form["line_total"]; ok && len(vals) > 0 {
			v, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			if err != nil {
				return e.String(http.StatusBadRequest, "Invalid line_total")
			}
			record.Set("line_total", v)
		} else {
			record.Set("line_total", record.GetFloat("qty")*record.GetFloat("unit_price"))
		}

		record.Set("user_edited", true)
		if err := app.Save(record); err != nil {
			log.Printf("line_item_update: could not save: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save line item")
		}

		estimate, err := app.FindRecordById("estimates", estimateID)
		if err != nil {
			return e.String(http.StatusNotFound, "Estimate not found")
		}
		return e.JSON(http.StatusOK, buildEstimateResponse(app, estimate, rates))
	}
}

// HandleLineItemAdd returns a handler that appends a manual row to the line
// item table. Manual rows get a generated key and are always user_edited, so
// they survive preserving recomputes.
func HandleLineItemAdd(app *pocketbase.PocketBase, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		estimate, err := app.FindRecordById("estimates", estimateID)
		if err != nil {
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		description := strings.TrimSpace(e.Request.FormValue("description"))
		if description == "" {
			return e.String(http.StatusBadRequest, "Description is required")
		}
		qty, _ := strconv.ParseFloat(strings.TrimSpace(e.Request.FormValue("qty")), 64)
		unitPrice, _ := strconv.ParseFloat(strings.TrimSpace(e.Request.FormValue("unit_price")), 64)
		unit := strings.TrimSpace(e.Request.FormValue("unit"))
		if unit == "" {
			unit = "EA"
		}

		items, err := services.LineItemsForEstimate(app, estimateID)
		if err != nil {
			log.Printf("line_item_add: could not load line items: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load line items")
		}

		manual := services.NewLineItem(uuid.NewString(), qty, description, unit, unitPrice)
		manual.UserEdited = true
		items = append(items, manual)

		if err := services.SaveLineItems(app, estimateID, items); err != nil {
			log.Printf("line_item_add: could not save line items: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save line items")
		}

		return e.JSON(http.StatusOK, buildEstimateResponse(app, estimate, rates))
	}
}

// HandleLineItemDelete returns a handler that removes one row from the line
// item table.
func HandleLineItemDelete(app *pocketbase.PocketBase, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("id")
		record, err := findLineItem(app, estimateID, e.Request.PathValue("itemId"))
		if err != nil {
			return e.String(http.StatusNotFound, "Line item not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("line_item_delete: could not delete: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to delete line item")
		}

		estimate, err := app.FindRecordById("estimates", estimateID)
		if err != nil {
			return e.String(http.StatusNotFound, "Estimate not found")
		}
		return e.JSON(http.StatusOK, buildEstimateResponse(app, estimate, rates))
	}
}
