package services

import (
	"strings"
	"testing"

	"fencequote/testhelpers"
)

func TestBuildQuoteExportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Oak Creek Phase 2")
	est.Set("reference_number", "DOF-Q-2026-003")
	if err := app.Save(est); err != nil {
		t.Fatalf("failed to save estimate: %v", err)
	}

	rates := DefaultRates()
	result := ComputeEstimate(JobConfigFromRecord(est), NewRecordPrices(app), rates)
	if err := SaveLineItems(app, est.Id, result.LineItems); err != nil {
		t.Fatalf("SaveLineItems failed: %v", err)
	}

	data, err := BuildQuoteExportData(app, est.Id, "Double Oak Fencing", rates)
	if err != nil {
		t.Fatalf("BuildQuoteExportData failed: %v", err)
	}

	if data.CompanyName != "Double Oak Fencing" || data.Title != "Oak Creek Phase 2" {
		t.Errorf("header = %q / %q", data.CompanyName, data.Title)
	}
	if data.ReferenceNumber != "DOF-Q-2026-003" {
		t.Errorf("ReferenceNumber = %q", data.ReferenceNumber)
	}
	if data.CreatedDate == "" {
		t.Error("CreatedDate is empty")
	}

	if len(data.Lines) != 1 {
		t.Fatalf("expected 1 stored line, got %d", len(data.Lines))
	}
	if !within(data.Subtotal, 2500) {
		t.Errorf("Subtotal = %v, want 2500", data.Subtotal)
	}
	if !within(data.SalesTax, 206.25) {
		t.Errorf("SalesTax = %v, want 206.25", data.SalesTax)
	}
	if !within(data.GrandTotal, 2706.25) {
		t.Errorf("GrandTotal = %v, want 2706.25", data.GrandTotal)
	}
	if !strings.HasSuffix(data.AmountInWords, "Dollars Only") {
		t.Errorf("AmountInWords = %q", data.AmountInWords)
	}

	// Takeoff is derived fresh, not loaded from storage.
	if len(data.Takeoff) != 2 {
		t.Fatalf("expected 2 takeoff rows, got %d", len(data.Takeoff))
	}
	if data.Takeoff[0].Description != "Fabric Roll (100 LF)" {
		t.Errorf("takeoff = %+v", data.Takeoff)
	}
}

func TestBuildQuoteExportDataHonorsManualEdits(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Edited Quote")

	edited := NewLineItem(LineMain, 1000, "14 Gauge Silt Fence", "LF", 2.50)
	edited.LineTotal = 2400 // negotiated discount
	edited.UserEdited = true
	if err := SaveLineItems(app, est.Id, []LineItem{edited}); err != nil {
		t.Fatalf("SaveLineItems failed: %v", err)
	}

	data, err := BuildQuoteExportData(app, est.Id, "Double Oak Fencing", DefaultRates())
	if err != nil {
		t.Fatalf("BuildQuoteExportData failed: %v", err)
	}
	if !within(data.Subtotal, 2400) {
		t.Errorf("Subtotal = %v, want the overridden 2400", data.Subtotal)
	}
}

func TestBuildQuoteExportDataMissingEstimate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := BuildQuoteExportData(app, "nonexistent", "Double Oak Fencing", DefaultRates()); err == nil {
		t.Error("expected an error for a missing estimate")
	}
}

func TestDisplayTaxRate(t *testing.T) {
	data := &QuoteExportData{TaxRate: 0.0825}
	if got := data.DisplayTaxRate(); got != 8.25 {
		t.Errorf("DisplayTaxRate() = %v, want 8.25", got)
	}

	data.RemoveSalesTax = true
	if got := data.DisplayTaxRate(); got != 0 {
		t.Errorf("DisplayTaxRate() with suppression = %v, want 0", got)
	}
}
