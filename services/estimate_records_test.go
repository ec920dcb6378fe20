package services

import (
	"reflect"
	"testing"

	"fencequote/testhelpers"
)

func TestMaterialSpecFrom(t *testing.T) {
	tests := []struct {
		name        string
		family      string
		variant     string
		includeCaps bool
		capType     string
		expect      MaterialSpec
	}{
		{
			name:   "silt 14 gauge",
			family: "Silt Fence", variant: "14 Gauge",
			expect: SiltSpec{Gauge: Gauge14, CapType: CapOSHA},
		},
		{
			name:   "silt 12.5 gauge with plastic caps",
			family: "Silt Fence", variant: "12.5 Gauge", includeCaps: true, capType: "Plastic",
			expect: SiltSpec{Gauge: Gauge125, IncludeCaps: true, CapType: CapPlastic},
		},
		{
			name:   "unreinforced",
			family: "Silt Fence", variant: "Unreinforced",
			expect: SiltSpec{Gauge: Unreinforced, CapType: CapOSHA},
		},
		{
			name:   "orange light duty",
			family: "Plastic Orange Fence", variant: "Light Duty",
			expect: OrangeSpec{Duty: LightDuty},
		},
		{
			name:   "orange heavy duty",
			family: "Plastic Orange Fence", variant: "Heavy Duty",
			expect: OrangeSpec{Duty: HeavyDuty},
		},
		{
			name:   "unknown values fall back to 14 gauge silt",
			family: "", variant: "",
			expect: SiltSpec{Gauge: Gauge14, CapType: CapOSHA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaterialSpecFrom(tt.family, tt.variant, tt.includeCaps, tt.capType)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("MaterialSpecFrom() = %#v, want %#v", got, tt.expect)
			}
		})
	}
}

func TestJobConfigFromRecord(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	est := testhelpers.CreateTestEstimate(t, app, "Oak Creek Phase 2")
	est.Set("material_family", "Plastic Orange Fence")
	est.Set("variant", "Heavy Duty")
	est.Set("include_removal", true)
	est.Set("remove_sales_tax", true)
	if err := app.Save(est); err != nil {
		t.Fatalf("failed to save estimate: %v", err)
	}

	cfg := JobConfigFromRecord(est)

	if cfg.Title != "Oak Creek Phase 2" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.TotalRequestedFeet != 1000 || cfg.WastePercent != 2 || cfg.PostSpacingFeet != 8 {
		t.Errorf("quantities = %v ft, %v%%, %d ft spacing",
			cfg.TotalRequestedFeet, cfg.WastePercent, cfg.PostSpacingFeet)
	}
	if cfg.SellPricePerFoot != 2.50 {
		t.Errorf("SellPricePerFoot = %v", cfg.SellPricePerFoot)
	}
	if !cfg.IncludeRemoval || !cfg.RemoveSalesTax {
		t.Errorf("flags = removal %v, no-tax %v", cfg.IncludeRemoval, cfg.RemoveSalesTax)
	}
	if !reflect.DeepEqual(cfg.Material, OrangeSpec{Duty: HeavyDuty}) {
		t.Errorf("Material = %#v", cfg.Material)
	}
}

func TestSaveAndLoadLineItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Line Item Round Trip")

	items := []LineItem{
		NewLineItem(LineMain, 1000, "14 Gauge Silt Fence", "LF", 2.50),
		NewLineItem(LineCaps, 129, "Safety Caps", "EA", 3.90),
	}
	items[1].UserEdited = true

	if err := SaveLineItems(app, est.Id, items); err != nil {
		t.Fatalf("SaveLineItems failed: %v", err)
	}

	loaded, err := LineItemsForEstimate(app, est.Id)
	if err != nil {
		t.Fatalf("LineItemsForEstimate failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, items) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", items, loaded)
	}
}

func TestSaveLineItemsReplacesTable(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	est := testhelpers.CreateTestEstimate(t, app, "Replace Table")

	first := []LineItem{NewLineItem(LineMain, 500, "14 Gauge Silt Fence", "LF", 2.50)}
	if err := SaveLineItems(app, est.Id, first); err != nil {
		t.Fatalf("first SaveLineItems failed: %v", err)
	}

	second := []LineItem{
		NewLineItem(LineMain, 1000, "14 Gauge Silt Fence", "LF", 2.50),
		NewLineItem(LineRemoval, 1000, "Fence Removal", "LF", 1.00),
	}
	if err := SaveLineItems(app, est.Id, second); err != nil {
		t.Fatalf("second SaveLineItems failed: %v", err)
	}

	loaded, err := LineItemsForEstimate(app, est.Id)
	if err != nil {
		t.Fatalf("LineItemsForEstimate failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, second) {
		t.Errorf("table not replaced:\nwant: %+v\ngot:  %+v", second, loaded)
	}
}
