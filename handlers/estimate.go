// Package handlers wires the estimate, line item, export and pricebook HTTP
// endpoints onto a PocketBase app.
package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fencequote/services"
)

// estimateResponse is the JSON payload returned by the estimate endpoints.
type estimateResponse struct {
	ID              string                  `json:"id"`
	Title           string                  `json:"title"`
	Customer        string                  `json:"customer"`
	Address         string                  `json:"address"`
	ReferenceNumber string                  `json:"reference_number"`
	MaterialFamily  string                  `json:"material_family"`
	Variant         string                  `json:"variant"`
	Result          services.EstimateResult `json:"result"`
}

// parseJobForm reads the estimate form fields into a JobConfig. Post spacing
// is snapped to the nearest allowed value.
func parseJobForm(e *core.RequestEvent) (services.JobConfig, error) {
	if err := e.Request.ParseForm(); err != nil {
		return services.JobConfig{}, err
	}

	floatField := func(name string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(e.Request.FormValue(name)), 64)
		return v
	}
	intField := func(name string) int {
		v, _ := strconv.Atoi(strings.TrimSpace(e.Request.FormValue(name)))
		return v
	}
	boolField := func(name string) bool {
		switch strings.ToLower(strings.TrimSpace(e.Request.FormValue(name))) {
		case "true", "on", "1", "yes":
			return true
		}
		return false
	}

	material := services.MaterialSpecFrom(
		e.Request.FormValue("material_family"),
		e.Request.FormValue("variant"),
		boolField("include_caps"),
		e.Request.FormValue("cap_type"),
	)

	return services.JobConfig{
		Title:              strings.TrimSpace(e.Request.FormValue("title")),
		Customer:           strings.TrimSpace(e.Request.FormValue("customer")),
		Address:            strings.TrimSpace(e.Request.FormValue("address")),
		Material:           material,
		TotalRequestedFeet: floatField("total_feet"),
		WastePercent:       floatField("waste_percent"),
		PostSpacingFeet:    services.NormalizePostSpacing(intField("post_spacing")),
		SellPricePerFoot:   floatField("sell_price_per_foot"),
		IncludeRemoval:     boolField("include_removal"),
		RemoveSalesTax:     boolField("remove_sales_tax"),
	}, nil
}

// saveEstimateFields copies the job configuration onto an estimate record.
func saveEstimateFields(record *core.Record, cfg services.JobConfig) {
	record.Set("title", cfg.Title)
	record.Set("customer", cfg.Customer)
	record.Set("address", cfg.Address)
	record.Set("material_family", cfg.Material.Family())
	record.Set("variant", cfg.Material.Variant())
	if silt, ok := cfg.Material.(services.SiltSpec); ok {
		record.Set("include_caps", silt.IncludeCaps)
		record.Set("cap_type", string(silt.CapType))
	} else {
		record.Set("include_caps", false)
		record.Set("cap_type", "")
	}
	record.Set("total_feet", cfg.TotalRequestedFeet)
	record.Set("waste_percent", cfg.WastePercent)
	record.Set("post_spacing", cfg.PostSpacingFeet)
	record.Set("sell_price_per_foot", cfg.SellPricePerFoot)
	record.Set("include_removal", cfg.IncludeRemoval)
	record.Set("remove_sales_tax", cfg.RemoveSalesTax)
}

// applyFormOverrides updates an estimate record from whatever job fields the
// submitted form carries. Absent fields keep their stored values.
func applyFormOverrides(record *core.Record, e *core.RequestEvent) {
	form := e.Request.PostForm

	for _, name := range []string{"title", "customer", "address", "material_family", "variant", "cap_type"} {
		if vals, ok := form[name]; ok && len(vals) > 0 {
			record.Set(name, strings.TrimSpace(vals[0]))
		}
	}
	for _, name := range []string{"total_feet", "waste_percent", "sell_price_per_foot"} {
		if vals, ok := form[name]; ok && len(vals) > 0 {
			v, _ := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			record.Set(name, v)
		}
	}
	if vals, ok := form["post_spacing"]; ok && len(vals) > 0 {
		v, _ := strconv.Atoi(strings.TrimSpace(vals[0]))
		record.Set("post_spacing", services.NormalizePostSpacing(v))
	}
	for _, name := range []string{"include_caps", "include_removal", "remove_sales_tax"} {
		if vals, ok := form[name]; ok && len(vals) > 0 {
			switch strings.ToLower(strings.TrimSpace(vals[0])) {
			case "true", "on", "1", "yes":
				record.Set(name, true)
			default:
				record.Set(name, false)
			}
		}
	}
}

// buildEstimateResponse computes the current result for a stored estimate,
// preferring the persisted line item table over freshly generated rows.
func buildEstimateResponse(app *pocketbase.PocketBase, record *core.Record, rates services.Rates) estimateResponse {
	cfg := services.JobConfigFromRecord(record)
	result := services.ComputeEstimate(cfg, services.NewRecordPrices(app), rates)

	if stored, err := services.LineItemsForEstimate(app, record.Id); err == nil && len(stored) > 0 {
		result.LineItems = stored
		result.Subtotal, result.SalesTax, result.GrandTotal =
			services.TotalsFromLineItems(stored, cfg.RemoveSalesTax, rates.SalesTaxRate)
	}

	return estimateResponse{
		ID:              record.Id,
		Title:           record.GetString("title"),
		Customer:        record.GetString("customer"),
		Address:         record.GetString("address"),
		ReferenceNumber: record.GetString("reference_number"),
		MaterialFamily:  record.GetString("material_family"),
		Variant:         record.GetString("variant"),
		Result:          result,
	}
}

// HandleEstimateCreate returns a handler that creates an estimate from the
// submitted job form, prices it, and persists the generated line item table.
func HandleEstimateCreate(app *pocketbase.PocketBase, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cfg, err := parseJobForm(e)
		if err != nil {
			log.Printf("estimate_create: could not parse form: %v", err)
			return e.String(http.StatusBadRequest, "Invalid form data")
		}
		if cfg.TotalRequestedFeet <= 0 {
			return e.String(http.StatusBadRequest, "total_feet must be positive")
		}

		col, err := app.FindCollectionByNameOrId("estimates")
		if err != nil {
			log.Printf("estimate_create: collection not found: %v", err)
			return e.String(http.StatusInternalServerError, "Estimates collection not found")
		}

		refNumber, err := services.GenerateQuoteNumber(app, time.Now())
		if err != nil {
			log.Printf("estimate_create: could not generate quote number: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate quote number")
		}

		record := core.NewRecord(col)
		saveEstimateFields(record, cfg)
		record.Set("reference_number", refNumber)
		if err := app.Save(record); err != nil {
			log.Printf("estimate_create: could not save estimate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save estimate")
		}

		result := services.ComputeEstimate(cfg, services.NewRecordPrices(app), rates)
		if err := services.SaveLineItems(app, record.Id, result.LineItems); err != nil {
			log.Printf("estimate_create: could not save line items: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save line items")
		}

		return e.JSON(http.StatusCreated, buildEstimateResponse(app, record, rates))
	}
}

// HandleEstimateList returns a handler that lists estimates, newest first.
func HandleEstimateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("estimates", "id != ''", "-created", 0, 0)
		if err != nil {
			log.Printf("estimate_list: query failed: %v", err)
			records = nil
		}

		type listRow struct {
			ID              string  `json:"id"`
			Title           string  `json:"title"`
			Customer        string  `json:"customer"`
			ReferenceNumber string  `json:"reference_number"`
			MaterialFamily  string  `json:"material_family"`
			TotalFeet       float64 `json:"total_feet"`
			Created         string  `json:"created"`
		}

		rows := make([]listRow, 0, len(records))
		for _, r := range records {
			rows = append(rows, listRow{
				ID:              r.Id,
				Title:           r.GetString("title"),
				Customer:        r.GetString("customer"),
				ReferenceNumber: r.GetString("reference_number"),
				MaterialFamily:  r.GetString("material_family"),
				TotalFeet:       r.GetFloat("total_feet"),
				Created:         r.GetDateTime("created").String(),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"estimates": rows})
	}
}

// HandleEstimateView returns a handler that shows one estimate with its
// current line item table and computed result.
func HandleEstimateView(app *pocketbase.PocketBase, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("estimates", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Estimate not found")
		}
		return e.JSON(http.StatusOK, buildEstimateResponse(app, record, rates))
	}
}

// HandleEstimateDelete returns a handler that removes an estimate. Line items
// go with it via cascade delete.
func HandleEstimateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("estimates", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Estimate not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("estimate_delete: could not delete %s: %v", record.Id, err)
			return e.String(http.StatusInternalServerError, "Failed to delete estimate")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleEstimateRecompute returns a handler that re-runs the pricing engine
// for a stored estimate. The mode query parameter picks the merge behavior:
// "regenerate" (default) rebuilds the table, "preserve" keeps user-edited and
// user-added rows. Form fields, when present, update the stored job first.
func HandleEstimateRecompute(app *pocketbase.PocketBase, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("estimates", e.Request.PathValue("id"))
		if err != nil {
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		if err := e.Request.ParseForm(); err == nil && len(e.Request.PostForm) > 0 {
			applyFormOverrides(record, e)
			if err := app.Save(record); err != nil {
				log.Printf("estimate_recompute: could not save estimate: %v", err)
				return e.String(http.StatusInternalServerError, "Failed to save estimate")
			}
		}

		mode := services.Regenerate
		if e.Request.URL.Query().Get("mode") == string(services.PreserveUserEdits) {
			mode = services.PreserveUserEdits
		}

		cfg := services.JobConfigFromRecord(record)
		result := services.ComputeEstimate(cfg, services.NewRecordPrices(app), rates)

		existing, err := services.LineItemsForEstimate(app, record.Id)
		if err != nil {
			log.Printf("estimate_recompute: could not load line items: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load line items")
		}

		merged := services.MergeLineItems(result.LineItems, existing, mode)
		if err := services.SaveLineItems(app, record.Id, merged); err != nil {
			log.Printf("estimate_recompute: could not save line items: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to save line items")
		}

		return e.JSON(http.StatusOK, buildEstimateResponse(app, record, rates))
	}
}
