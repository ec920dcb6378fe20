package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// PriceSource resolves a unit price for a SKU. Lookup is total: any failure
// to resolve (missing source, unknown SKU, zero price) returns the supplied
// default, never an error. The engine receives a PriceSource per call and
// holds no pricing state of its own.
type PriceSource interface {
	Lookup(sku string, def float64) float64
}

// StaticPrices is a fixed in-memory price source, used as a test fixture and
// as the fallback when no pricebook is loaded.
type StaticPrices map[string]float64

func (p StaticPrices) Lookup(sku string, def float64) float64 {
	if price, ok := p[sku]; ok && price > 0 {
		return price
	}
	return def
}

// RecordPrices resolves prices from the pricebook collection. Misses fall
// back to the default and are logged so stale pricebooks are visible.
type RecordPrices struct {
	app *pocketbase.PocketBase
}

// NewRecordPrices returns a price source backed by the pricebook collection.
func NewRecordPrices(app *pocketbase.PocketBase) RecordPrices {
	return RecordPrices{app: app}
}

func (p RecordPrices) Lookup(sku string, def float64) float64 {
	if p.app == nil {
		return def
	}
	record, err := p.app.FindFirstRecordByFilter(
		"pricebook",
		"sku = {:sku}",
		map[string]any{"sku": sku},
	)
	if err != nil {
		log.Printf("pricebook: no entry for sku %q, using default %.2f", sku, def)
		return def
	}
	price := record.GetFloat("unit_price")
	if price <= 0 {
		log.Printf("pricebook: zero price for sku %q, using default %.2f", sku, def)
		return def
	}
	return price
}

// PricebookEntry is one row of a pricebook file or collection.
type PricebookEntry struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
}

// LoadPricebookFile reads a pricebook from an .xlsx or .csv file. The file
// must have a header row containing "SKU" and a price column ("Unit Price"
// or "Price"); a "Description" column is optional.
func LoadPricebookFile(path string) ([]PricebookEntry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open pricebook: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("failed to read pricebook sheet: %w", err)
		}
		return parsePricebookRows(rows)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open pricebook: %w", err)
		}
		defer f.Close()
		return ParsePricebookCSV(f)
	default:
		return nil, fmt.Errorf("unsupported pricebook format %q (want .xlsx or .csv)", ext)
	}
}

// ParsePricebookCSV parses pricebook rows from CSV content.
func ParsePricebookCSV(r io.Reader) ([]PricebookEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return parsePricebookRows(rows)
}

// ParsePricebookExcel parses pricebook rows from xlsx content.
func ParsePricebookExcel(r io.Reader) ([]PricebookEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return parsePricebookRows(rows)
}

func parsePricebookRows(rows [][]string) ([]PricebookEntry, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("pricebook must contain a header row and at least one data row")
	}

	skuCol, descCol, priceCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "sku":
			skuCol = i
		case "description", "item":
			descCol = i
		case "unit price", "price", "unit_price":
			priceCol = i
		}
	}
	if skuCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("pricebook header must include SKU and Unit Price columns")
	}

	var entries []PricebookEntry
	for _, row := range rows[1:] {
		if skuCol >= len(row) {
			continue
		}
		sku := strings.TrimSpace(row[skuCol])
		if sku == "" {
			continue
		}

		var price float64
		if priceCol < len(row) {
			raw := strings.TrimSpace(strings.TrimPrefix(row[priceCol], "$"))
			price, _ = strconv.ParseFloat(raw, 64)
		}
		if price < 0 {
			price = 0
		}

		desc := ""
		if descCol >= 0 && descCol < len(row) {
			desc = strings.TrimSpace(row[descCol])
		}

		entries = append(entries, PricebookEntry{SKU: sku, Description: desc, UnitPrice: price})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("pricebook contains no usable rows")
	}
	return entries, nil
}

// ImportPricebook upserts entries into the pricebook collection, keyed by
// SKU. Returns the number of created and updated records.
func ImportPricebook(app *pocketbase.PocketBase, entries []PricebookEntry) (created, updated int, err error) {
	col, err := app.FindCollectionByNameOrId("pricebook")
	if err != nil {
		return 0, 0, fmt.Errorf("pricebook collection not found: %w", err)
	}

	for _, entry := range entries {
		existing, err := app.FindFirstRecordByFilter(
			"pricebook",
			"sku = {:sku}",
			map[string]any{"sku": entry.SKU},
		)

		var record *core.Record
		if err == nil && existing != nil {
			record = existing
			updated++
		} else {
			record = core.NewRecord(col)
			record.Set("sku", entry.SKU)
			created++
		}
		if entry.Description != "" {
			record.Set("description", entry.Description)
		}
		record.Set("unit_price", entry.UnitPrice)

		if err := app.Save(record); err != nil {
			return created, updated, fmt.Errorf("failed to save pricebook entry %q: %w", entry.SKU, err)
		}
	}
	return created, updated, nil
}
