package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fencequote/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// exportData loads the quote export bundle for a path's estimate ID.
func exportData(app *pocketbase.PocketBase, e *core.RequestEvent, companyName string, rates services.Rates) (*services.QuoteExportData, error) {
	estimateID := e.Request.PathValue("id")
	if estimateID == "" {
		return nil, fmt.Errorf("missing estimate ID")
	}
	return services.BuildQuoteExportData(app, estimateID, companyName, rates)
}

// HandleExportQuoteCSV returns a handler that downloads the customer printout
// as CSV.
func HandleExportQuoteCSV(app *pocketbase.PocketBase, companyName string, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := exportData(app, e, companyName, rates)
		if err != nil {
			log.Printf("export_quote_csv: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		out, err := services.GenerateCustomerCSV(data)
		if err != nil {
			log.Printf("export_quote_csv: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate CSV")
		}

		filename := fmt.Sprintf("Quote_%s.csv", sanitizeFilename(data.Title))
		e.Response.Header().Set("Content-Type", "text/csv")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(out)
		return nil
	}
}

// HandleExportMaterialsCSV returns a handler that downloads the materials
// takeoff as CSV.
func HandleExportMaterialsCSV(app *pocketbase.PocketBase, companyName string, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := exportData(app, e, companyName, rates)
		if err != nil {
			log.Printf("export_materials_csv: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		out, err := services.GenerateMaterialsCSV(data)
		if err != nil {
			log.Printf("export_materials_csv: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate CSV")
		}

		filename := fmt.Sprintf("Materials_%s.csv", sanitizeFilename(data.Title))
		e.Response.Header().Set("Content-Type", "text/csv")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(out)
		return nil
	}
}

// HandleExportExcel returns a handler that generates and downloads the quote
// workbook.
func HandleExportExcel(app *pocketbase.PocketBase, companyName string, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := exportData(app, e, companyName, rates)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Quote_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleExportPDF returns a handler that generates and downloads the quote
// PDF.
func HandleExportPDF(app *pocketbase.PocketBase, companyName string, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := exportData(app, e, companyName, rates)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := fmt.Sprintf("Quote_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleExportEmail returns a handler that builds the mailto link carrying
// the quote body. The client opens it in the user's mail app.
func HandleExportEmail(app *pocketbase.PocketBase, companyName string, rates services.Rates) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := exportData(app, e, companyName, rates)
		if err != nil {
			log.Printf("export_email: %v", err)
			return e.String(http.StatusNotFound, "Estimate not found")
		}

		return e.JSON(http.StatusOK, map[string]string{
			"mailto": services.BuildQuoteMailto(data),
		})
	}
}
