package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"fencequote/collections"
	"fencequote/config"
	"fencequote/handlers"
	"fencequote/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	rates := cfg.Rates()

	app := pocketbase.New()

	// Create collections and seed the material catalog on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if cfg.PricebookPath != "" {
			if err := loadConfiguredPricebook(app, cfg.PricebookPath); err != nil {
				log.Printf("Warning: pricebook load failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Estimates ────────────────────────────────────────────
		se.Router.GET("/estimates", handlers.HandleEstimateList(app))
		se.Router.POST("/estimates", handlers.HandleEstimateCreate(app, rates))
		se.Router.POST("/estimates/{id}/recompute", handlers.HandleEstimateRecompute(app, rates))
		se.Router.GET("/estimates/{id}", handlers.HandleEstimateView(app, rates))
		se.Router.DELETE("/estimates/{id}", handlers.HandleEstimateDelete(app))

		// ── Line items ───────────────────────────────────────────
		se.Router.POST("/estimates/{id}/line-items", handlers.HandleLineItemAdd(app, rates))
		se.Router.PATCH("/estimates/{id}/line-items/{itemId}", handlers.HandleLineItemUpdate(app, rates))
		se.Router.DELETE("/estimates/{id}/line-items/{itemId}", handlers.HandleLineItemDelete(app, rates))

		// ── Exports ──────────────────────────────────────────────
		se.Router.GET("/estimates/{id}/export/quote.csv", handlers.HandleExportQuoteCSV(app, cfg.CompanyName, rates))
		se.Router.GET("/estimates/{id}/export/materials.csv", handlers.HandleExportMaterialsCSV(app, cfg.CompanyName, rates))
		se.Router.GET("/estimates/{id}/export/excel", handlers.HandleExportExcel(app, cfg.CompanyName, rates))
		se.Router.GET("/estimates/{id}/export/pdf", handlers.HandleExportPDF(app, cfg.CompanyName, rates))
		se.Router.GET("/estimates/{id}/email", handlers.HandleExportEmail(app, cfg.CompanyName, rates))

		// ── Pricebook ────────────────────────────────────────────
		se.Router.GET("/pricebook", handlers.HandlePricebookList(app))
		se.Router.POST("/pricebook/import", handlers.HandlePricebookImport(app))
		se.Router.POST("/pricebook/reload", handlers.HandlePricebookReload(app, cfg.PricebookPath))
		se.Router.GET("/pricebook/template", handlers.HandlePricebookTemplate(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// loadConfiguredPricebook imports the pricebook file named by PRICEBOOK_PATH.
func loadConfiguredPricebook(app *pocketbase.PocketBase, path string) error {
	entries, err := services.LoadPricebookFile(path)
	if err != nil {
		return err
	}
	created, updated, err := services.ImportPricebook(app, entries)
	if err != nil {
		return err
	}
	log.Printf("pricebook: loaded %s (%d created, %d updated)", path, created, updated)
	return nil
}
