package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fencequote/services"
)

// HandlePricebookList returns a handler that lists the pricebook entries.
func HandlePricebookList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("pricebook", "id != ''", "sku", 0, 0)
		if err != nil {
			log.Printf("pricebook_list: query failed: %v", err)
			records = nil
		}

		entries := make([]services.PricebookEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, services.PricebookEntry{
				SKU:         r.GetString("sku"),
				Description: r.GetString("description"),
				UnitPrice:   r.GetFloat("unit_price"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"entries": entries})
	}
}

// HandlePricebookImport returns a handler that ingests an uploaded .xlsx or
// .csv pricebook and upserts its rows by SKU.
func HandlePricebookImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.String(http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		var entries []services.PricebookEntry
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".xlsx":
			entries, err = services.ParsePricebookExcel(file)
		case ".csv":
			entries, err = services.ParsePricebookCSV(file)
		default:
			return e.String(http.StatusBadRequest, "Unsupported file type (want .xlsx or .csv)")
		}
		if err != nil {
			log.Printf("pricebook_import: %v", err)
			return e.String(http.StatusBadRequest, err.Error())
		}

		created, updated, err := services.ImportPricebook(app, entries)
		if err != nil {
			log.Printf("pricebook_import: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to import pricebook")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"created": created,
			"updated": updated,
		})
	}
}

// HandlePricebookReload returns a handler that re-reads the pricebook file
// configured via PRICEBOOK_PATH and upserts its rows.
func HandlePricebookReload(app *pocketbase.PocketBase, pricebookPath string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if pricebookPath == "" {
			return e.String(http.StatusBadRequest, "No pricebook file configured")
		}

		entries, err := services.LoadPricebookFile(pricebookPath)
		if err != nil {
			log.Printf("pricebook_reload: %v", err)
			return e.String(http.StatusBadRequest, err.Error())
		}

		created, updated, err := services.ImportPricebook(app, entries)
		if err != nil {
			log.Printf("pricebook_reload: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to import pricebook")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"created": created,
			"updated": updated,
		})
	}
}

// HandlePricebookTemplate serves the Excel template for pricebook import.
// Route: GET /pricebook/template
func HandlePricebookTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GeneratePricebookTemplate(app)
		if err != nil {
			log.Printf("pricebook_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		filename := fmt.Sprintf("Pricebook_Template_%d.xlsx", time.Now().Year())
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
