package services

import (
	"math"
	"reflect"
	"testing"
)

// within checks money values to the cent.
func within(got, want float64) bool {
	return math.Abs(got-want) < 0.005
}

func TestComputeEstimateSiltFence(t *testing.T) {
	cfg := JobConfig{
		Material:           SiltSpec{Gauge: Gauge14},
		TotalRequestedFeet: 1000,
		WastePercent:       2,
		PostSpacingFeet:    8,
		SellPricePerFoot:   2.50,
	}

	result := ComputeEstimate(cfg, nil, DefaultRates())

	q := result.Quantities
	if q.RequiredFeet != 1020 {
		t.Errorf("RequiredFeet = %v, want 1020", q.RequiredFeet)
	}
	if q.PostCount != 129 {
		t.Errorf("PostCount = %d, want 129", q.PostCount)
	}
	if q.RollCount != 11 {
		t.Errorf("RollCount = %d, want 11", q.RollCount)
	}
	if q.CapCount != 0 {
		t.Errorf("CapCount = %d, want 0", q.CapCount)
	}

	c := result.Costs
	if !within(c.FabricCost, 326.40) {
		t.Errorf("FabricCost = %v, want 326.40", c.FabricCost)
	}
	if !within(c.HardwareCost, 232.20) {
		t.Errorf("HardwareCost = %v, want 232.20", c.HardwareCost)
	}
	if !within(c.MaterialSubtotal, 558.60) {
		t.Errorf("MaterialSubtotal = %v, want 558.60", c.MaterialSubtotal)
	}
	if !within(c.MaterialTax, 46.08) {
		t.Errorf("MaterialTax = %v, want 46.08", c.MaterialTax)
	}
	if math.Abs(c.ProjectDays-0.408) > 1e-9 {
		t.Errorf("ProjectDays = %v, want 0.408", c.ProjectDays)
	}
	if c.BillingDays != 1 {
		t.Errorf("BillingDays = %d, want 1", c.BillingDays)
	}
	if !within(c.LaborCost, 226.17) {
		t.Errorf("LaborCost = %v, want 226.17", c.LaborCost)
	}
	if c.FuelCost != 65 {
		t.Errorf("FuelCost = %v, want 65", c.FuelCost)
	}
	if !within(c.InternalTotalCost, 895.86) {
		t.Errorf("InternalTotalCost = %v, want 895.86", c.InternalTotalCost)
	}

	if result.Subtotal != 2500 {
		t.Errorf("Subtotal = %v, want 2500", result.Subtotal)
	}
	if !within(result.SalesTax, 206.25) {
		t.Errorf("SalesTax = %v, want 206.25", result.SalesTax)
	}
	if !within(result.GrandTotal, 2706.25) {
		t.Errorf("GrandTotal = %v, want 2706.25", result.GrandTotal)
	}
	if result.ProfitStatus != ProfitGood {
		t.Errorf("ProfitStatus = %q, want GOOD (margin %v)", result.ProfitStatus, result.ProfitMargin)
	}

	if len(result.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(result.LineItems))
	}
	li := result.LineItems[0]
	if li.ID != LineMain || li.Qty != 1000 || li.Unit != "LF" || li.UnitPrice != 2.50 || li.LineTotal != 2500 {
		t.Errorf("main line item = %+v", li)
	}
	if li.Description != "14 Gauge Silt Fence" {
		t.Errorf("main description = %q", li.Description)
	}

	if len(result.MaterialsTakeoff) != 2 {
		t.Fatalf("expected 2 takeoff rows, got %d", len(result.MaterialsTakeoff))
	}
	rolls := result.MaterialsTakeoff[0]
	if rolls.Qty != 11 || rolls.Description != "Fabric Roll (100 LF)" || rolls.Unit != "ROLL" {
		t.Errorf("roll takeoff = %+v", rolls)
	}
	if rolls.Note != "For ~1,020 LF incl. waste" {
		t.Errorf("roll note = %q", rolls.Note)
	}
	posts := result.MaterialsTakeoff[1]
	if posts.Qty != 129 || posts.Description != "T-Post" || posts.Note != "Spacing 8 ft" {
		t.Errorf("post takeoff = %+v", posts)
	}
}

func TestComputeEstimateWithCaps(t *testing.T) {
	cfg := JobConfig{
		Material:           SiltSpec{Gauge: Gauge14, IncludeCaps: true, CapType: CapOSHA},
		TotalRequestedFeet: 1000,
		WastePercent:       2,
		PostSpacingFeet:    8,
		SellPricePerFoot:   2.50,
	}

	result := ComputeEstimate(cfg, nil, DefaultRates())

	if result.Quantities.CapCount != 129 {
		t.Errorf("CapCount = %d, want 129 (one per post)", result.Quantities.CapCount)
	}
	if !within(result.Costs.CapsCost, 503.10) {
		t.Errorf("CapsCost = %v, want 503.10", result.Costs.CapsCost)
	}
	if !within(result.Subtotal, 3003.10) {
		t.Errorf("Subtotal = %v, want 3003.10", result.Subtotal)
	}
	if !within(result.SalesTax, 247.76) {
		t.Errorf("SalesTax = %v, want 247.76", result.SalesTax)
	}
	if !within(result.GrandTotal, 3250.86) {
		t.Errorf("GrandTotal = %v, want 3250.86", result.GrandTotal)
	}

	if len(result.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(result.LineItems))
	}
	caps := result.LineItems[1]
	if caps.ID != LineCaps || caps.Qty != 129 || caps.UnitPrice != 3.90 || caps.Description != "Safety Caps" {
		t.Errorf("caps line item = %+v", caps)
	}

	last := result.MaterialsTakeoff[len(result.MaterialsTakeoff)-1]
	if last.Description != "Safety Cap" || last.Qty != 129 || last.Note != "OSHA" {
		t.Errorf("cap takeoff = %+v", last)
	}
}

func TestComputeEstimateWithRemoval(t *testing.T) {
	cfg := JobConfig{
		Material:           OrangeSpec{Duty: LightDuty},
		TotalRequestedFeet: 500,
		WastePercent:       0,
		PostSpacingFeet:    8,
		SellPricePerFoot:   4.00,
		IncludeRemoval:     true,
	}

	result := ComputeEstimate(cfg, nil, DefaultRates())

	if result.Quantities.PostCount != 64 {
		t.Errorf("PostCount = %d, want 64", result.Quantities.PostCount)
	}
	if result.Quantities.RollCount != 5 {
		t.Errorf("RollCount = %d, want 5", result.Quantities.RollCount)
	}

	// 40% of $4.00 is $1.60; 500 ft * $1.60 = $800 meets the minimum exactly.
	if len(result.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(result.LineItems))
	}
	removal := result.LineItems[1]
	if removal.ID != LineRemoval || removal.Description != "Fence Removal" {
		t.Errorf("removal line item = %+v", removal)
	}
	if !within(removal.UnitPrice, 1.60) {
		t.Errorf("removal unit price = %v, want 1.60", removal.UnitPrice)
	}
	if !within(removal.LineTotal, 800) {
		t.Errorf("removal total = %v, want 800", removal.LineTotal)
	}

	if !within(result.Subtotal, 2800) {
		t.Errorf("Subtotal = %v, want 2800", result.Subtotal)
	}
	if !within(result.GrandTotal, 3031) {
		t.Errorf("GrandTotal = %v, want 3031", result.GrandTotal)
	}
}

func TestComputeEstimateRemovalExcludedFromMargin(t *testing.T) {
	cfg := JobConfig{
		Material:           SiltSpec{Gauge: Gauge14},
		TotalRequestedFeet: 1000,
		PostSpacingFeet:    8,
		SellPricePerFoot:   2.50,
	}

	without := ComputeEstimate(cfg, nil, DefaultRates())
	cfg.IncludeRemoval = true
	with := ComputeEstimate(cfg, nil, DefaultRates())

	if with.GrossProfit != without.GrossProfit {
		t.Errorf("removal changed gross profit: %v vs %v", with.GrossProfit, without.GrossProfit)
	}
	if with.ProfitMargin != without.ProfitMargin {
		t.Errorf("removal changed profit margin: %v vs %v", with.ProfitMargin, without.ProfitMargin)
	}
	if with.Subtotal <= without.Subtotal {
		t.Errorf("removal should raise the subtotal: %v vs %v", with.Subtotal, without.Subtotal)
	}
}

func TestComputeEstimateTaxSuppression(t *testing.T) {
	cfg := JobConfig{
		Material:           SiltSpec{Gauge: Gauge14},
		TotalRequestedFeet: 1000,
		PostSpacingFeet:    8,
		SellPricePerFoot:   2.50,
		RemoveSalesTax:     true,
	}

	result := ComputeEstimate(cfg, nil, DefaultRates())
	if result.SalesTax != 0 {
		t.Errorf("SalesTax = %v, want 0", result.SalesTax)
	}
	if result.GrandTotal != result.Subtotal {
		t.Errorf("GrandTotal = %v, want subtotal %v", result.GrandTotal, result.Subtotal)
	}
	// Internal material tax is a real cost regardless of what the customer pays.
	if result.Costs.MaterialTax <= 0 {
		t.Errorf("MaterialTax = %v, want > 0", result.Costs.MaterialTax)
	}
}

func TestComputeEstimateZeroFootage(t *testing.T) {
	cfg := JobConfig{
		Material:         SiltSpec{Gauge: Gauge14},
		PostSpacingFeet:  8,
		SellPricePerFoot: 2.50,
		IncludeRemoval:   true,
	}

	result := ComputeEstimate(cfg, nil, DefaultRates())

	if result.Quantities != (QuantityResult{}) {
		t.Errorf("quantities = %+v, want all zero", result.Quantities)
	}
	if result.Costs.InternalTotalCost != 0 {
		t.Errorf("InternalTotalCost = %v, want 0", result.Costs.InternalTotalCost)
	}
	if result.GrandTotal != 0 {
		t.Errorf("GrandTotal = %v, want 0", result.GrandTotal)
	}
	if len(result.LineItems) != 0 {
		t.Errorf("expected no line items, got %+v", result.LineItems)
	}
	if len(result.MaterialsTakeoff) != 0 {
		t.Errorf("expected no takeoff rows, got %+v", result.MaterialsTakeoff)
	}
	if result.ProfitStatus != ProfitCheck {
		t.Errorf("ProfitStatus = %q, want CHECK", result.ProfitStatus)
	}
}

func TestComputeEstimatePricebookOverride(t *testing.T) {
	cfg := JobConfig{
		Material:           SiltSpec{Gauge: Gauge14},
		TotalRequestedFeet: 1000,
		WastePercent:       2,
		PostSpacingFeet:    8,
		SellPricePerFoot:   2.50,
	}
	prices := StaticPrices{SKUSiltFence14G: 0.50}

	result := ComputeEstimate(cfg, prices, DefaultRates())
	if !within(result.Costs.FabricCost, 510) {
		t.Errorf("FabricCost = %v, want 510 (1020 ft at overridden $0.50)", result.Costs.FabricCost)
	}
	// Posts not in the pricebook keep the catalog default.
	if !within(result.Costs.HardwareCost, 232.20) {
		t.Errorf("HardwareCost = %v, want 232.20", result.Costs.HardwareCost)
	}
}

func TestComputeEstimateDeterministic(t *testing.T) {
	cfg := JobConfig{
		Material:           SiltSpec{Gauge: Gauge125, IncludeCaps: true, CapType: CapPlastic},
		TotalRequestedFeet: 2345,
		WastePercent:       3,
		PostSpacingFeet:    6,
		SellPricePerFoot:   2.75,
		IncludeRemoval:     true,
	}

	first := ComputeEstimate(cfg, nil, DefaultRates())
	second := ComputeEstimate(cfg, nil, DefaultRates())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRemovalFloorPrice(t *testing.T) {
	tests := []struct {
		name         string
		requiredFeet float64
		expect       float64
	}{
		{"small job", 100, 1.15},
		{"just under first break", 799, 1.15},
		{"first break", 800, 0.90},
		{"mid tier", 1500, 0.90},
		{"start of taper", 2000, 0.90},
		{"middle of taper", 6000, 0.85},
		{"end of taper", 10000, 0.80},
		{"very large job", 50000, 0.80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemovalFloorPrice(tt.requiredFeet)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Errorf("RemovalFloorPrice(%v) = %v, want %v", tt.requiredFeet, got, tt.expect)
			}
		})
	}
}

func TestRemovalFloorPriceMonotonic(t *testing.T) {
	prev := math.Inf(1)
	for feet := 1.0; feet <= 20000; feet += 50 {
		floor := RemovalFloorPrice(feet)
		if floor > prev+1e-9 {
			t.Fatalf("floor increased at %v ft: %v -> %v", feet, prev, floor)
		}
		prev = floor
	}
}

func TestRemovalPricing(t *testing.T) {
	rates := DefaultRates()
	tests := []struct {
		name         string
		requiredFeet float64
		sellPrice    float64
		wantUnit     float64
		wantTotal    float64
	}{
		{"percentage above floor", 1000, 10.00, 4.00, 4000},
		{"floor kicks in", 1500, 2.00, 0.90, 1350},
		{"minimum charge lifts small job", 500, 2.50, 1.60, 800},
		{"exactly at minimum", 500, 4.00, 1.60, 800},
		{"tapered floor mid band", 6000, 2.00, 0.85, 5100},
		{"large job floor", 12000, 2.00, 0.80, 9600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemovalPricing(tt.requiredFeet, tt.sellPrice, rates)
			if !within(got.UnitPrice, tt.wantUnit) {
				t.Errorf("UnitPrice = %v, want %v", got.UnitPrice, tt.wantUnit)
			}
			if !within(got.Total, tt.wantTotal) {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}

	t.Run("zero footage", func(t *testing.T) {
		if got := RemovalPricing(0, 2.50, rates); got != (RemovalQuote{}) {
			t.Errorf("RemovalPricing(0, ...) = %+v, want zero", got)
		}
	})
}

func TestMergeLineItems(t *testing.T) {
	fresh := []LineItem{
		NewLineItem(LineMain, 1000, "14 Gauge Silt Fence", "LF", 2.50),
		NewLineItem(LineCaps, 129, "Safety Caps", "EA", 3.90),
	}
	editedMain := LineItem{
		ID: LineMain, Qty: 1000, Description: "14 Gauge Silt Fence", Unit: "LF",
		UnitPrice: 2.75, LineTotal: 2750, UserEdited: true,
	}
	manual := LineItem{
		ID: "b1946ac9-2ea6-4a04-9c25-70e2e47e6c1c", Qty: 1,
		Description: "Mobilization", Unit: "EA", UnitPrice: 250, LineTotal: 250, UserEdited: true,
	}

	t.Run("regenerate discards edits", func(t *testing.T) {
		got := MergeLineItems(fresh, []LineItem{editedMain, manual}, Regenerate)
		if !reflect.DeepEqual(got, fresh) {
			t.Errorf("MergeLineItems = %+v, want fresh rows", got)
		}
	})

	t.Run("preserve keeps edited rows", func(t *testing.T) {
		got := MergeLineItems(fresh, []LineItem{editedMain, manual}, PreserveUserEdits)
		if len(got) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(got))
		}
		if !reflect.DeepEqual(got[0], editedMain) {
			t.Errorf("edited main not preserved: %+v", got[0])
		}
		if !reflect.DeepEqual(got[1], fresh[1]) {
			t.Errorf("untouched caps row should be replaced: %+v", got[1])
		}
		if !reflect.DeepEqual(got[2], manual) {
			t.Errorf("manual row not appended: %+v", got[2])
		}
	})

	t.Run("preserve replaces unedited rows", func(t *testing.T) {
		stale := []LineItem{NewLineItem(LineMain, 500, "14 Gauge Silt Fence", "LF", 2.50)}
		got := MergeLineItems(fresh, stale, PreserveUserEdits)
		if !reflect.DeepEqual(got, fresh) {
			t.Errorf("unedited rows should be regenerated: %+v", got)
		}
	})
}

func TestTotalsFromLineItems(t *testing.T) {
	items := []LineItem{
		{ID: LineMain, Qty: 1000, UnitPrice: 2.50, LineTotal: 2500},
		{ID: LineCaps, Qty: 100, UnitPrice: 3.90, LineTotal: 500, UserEdited: true}, // manual override wins
		{ID: "manual", Qty: 2, UnitPrice: 150},                                     // zero total falls back to qty*price
	}

	subtotal, tax, grand := TotalsFromLineItems(items, false, 0.0825)
	if !within(subtotal, 3300) {
		t.Errorf("subtotal = %v, want 3300", subtotal)
	}
	if !within(tax, 272.25) {
		t.Errorf("tax = %v, want 272.25", tax)
	}
	if !within(grand, 3572.25) {
		t.Errorf("grand = %v, want 3572.25", grand)
	}

	subtotal, tax, grand = TotalsFromLineItems(items, true, 0.0825)
	if tax != 0 {
		t.Errorf("suppressed tax = %v, want 0", tax)
	}
	if grand != subtotal {
		t.Errorf("grand = %v, want subtotal %v", grand, subtotal)
	}
}
