package services

import (
	"fmt"
	"math"
)

// Rates holds the business constants used by the pricing engine. Values come
// from configuration (see the config package); DefaultRates matches the
// shop's standing policy.
type Rates struct {
	SalesTaxRate         float64 // applied to materials cost and customer subtotal
	ProductionFeetPerDay float64 // install rate, linear feet per crew day
	LaborRatePerDay      float64 // crew cost per day
	FuelRatePerDay       float64 // billed per whole day on site
	ProfitMarginTarget   float64 // margin fraction considered healthy
	MinRemovalCharge     float64 // minimum callout charge for removal jobs
	RollLengthFeet       int
}

// DefaultRates returns the standard business constants.
func DefaultRates() Rates {
	return Rates{
		SalesTaxRate:         0.0825,
		ProductionFeetPerDay: 2500,
		LaborRatePerDay:      554.34,
		FuelRatePerDay:       65,
		ProfitMarginTarget:   0.30,
		MinRemovalCharge:     800,
		RollLengthFeet:       DefaultRollLengthFeet,
	}
}

// JobConfig is the input snapshot for one estimate computation. It is built
// fresh per request; the engine never mutates it.
type JobConfig struct {
	Title    string
	Customer string
	Address  string

	Material           MaterialSpec
	TotalRequestedFeet float64
	WastePercent       float64
	PostSpacingFeet    int
	SellPricePerFoot   float64
	IncludeRemoval     bool
	RemoveSalesTax     bool
}

// QuantityResult holds the material counts derived from the job footage.
type QuantityResult struct {
	RequiredFeet float64 `json:"required_feet"`
	PostCount    int     `json:"post_count"`
	RollCount    int     `json:"roll_count"`
	CapCount     int     `json:"cap_count"`
}

// CostBreakdown is the internal cost side of an estimate. It is never shown
// to the customer.
type CostBreakdown struct {
	FabricCost        float64 `json:"fabric_cost"`
	HardwareCost      float64 `json:"hardware_cost"`
	CapsCost          float64 `json:"caps_cost"`
	MaterialSubtotal  float64 `json:"material_subtotal"`
	MaterialTax       float64 `json:"material_tax"`
	ProjectDays       float64 `json:"project_days"`
	BillingDays       int     `json:"billing_days"`
	LaborCost         float64 `json:"labor_cost"`
	FuelCost          float64 `json:"fuel_cost"`
	InternalTotalCost float64 `json:"internal_total_cost"`
}

// Stable line item IDs for engine-emitted rows. Manually added rows get
// generated IDs instead (see handlers).
const (
	LineMain    = "main"
	LineCaps    = "caps"
	LineRemoval = "removal"
)

// LineItem is one customer-facing priced row. LineTotal is Qty * UnitPrice at
// creation but is authoritative afterwards: a user may override it, and the
// engine never re-derives an overridden total.
type LineItem struct {
	ID          string  `json:"id"`
	Qty         float64 `json:"qty"`
	Description string  `json:"description"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
	UserEdited  bool    `json:"user_edited"`
}

// NewLineItem builds a line item with LineTotal derived from qty and price.
func NewLineItem(id string, qty float64, description, unit string, unitPrice float64) LineItem {
	return LineItem{
		ID:          id,
		Qty:         qty,
		Description: description,
		Unit:        unit,
		UnitPrice:   unitPrice,
		LineTotal:   qty * unitPrice,
	}
}

// TakeoffItem is one row of the internal materials takeoff list.
type TakeoffItem struct {
	Qty         int    `json:"qty"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Note        string `json:"note"`
}

// Profit status values.
const (
	ProfitGood  = "GOOD"
	ProfitCheck = "CHECK"
)

// EstimateResult is the full output bundle for one computation.
type EstimateResult struct {
	Quantities       QuantityResult `json:"quantities"`
	Costs            CostBreakdown  `json:"costs"`
	LineItems        []LineItem     `json:"line_items"`
	MaterialsTakeoff []TakeoffItem  `json:"materials_takeoff"`

	Subtotal   float64 `json:"subtotal"`
	SalesTax   float64 `json:"sales_tax"`
	GrandTotal float64 `json:"grand_total"`

	GrossProfit  float64 `json:"gross_profit"`
	ProfitMargin float64 `json:"profit_margin"`
	ProfitStatus string  `json:"profit_status"`
}

// ── Removal pricing ─────────────────────────────────────────────────────

// removalBand is one segment of the removal floor-price table. The floor
// moves linearly from startFloor to endFloor across the band, so a band with
// equal values is flat.
type removalBand struct {
	upToFeet   float64
	startFloor float64
	endFloor   float64
}

// removalFloors: removal is quoted at 40% of the install rate but never below
// these per-foot floors, which recover fixed labor and trip cost on small
// jobs and taper across mid-size jobs instead of stepping.
var removalFloors = []removalBand{
	{upToFeet: 800, startFloor: 1.15, endFloor: 1.15},
	{upToFeet: 2000, startFloor: 0.90, endFloor: 0.90},
	{upToFeet: 10000, startFloor: 0.90, endFloor: 0.80},
	{upToFeet: math.Inf(1), startFloor: 0.80, endFloor: 0.80},
}

// RemovalFloorPrice returns the per-foot floor for a removal job of the given
// size.
func RemovalFloorPrice(requiredFeet float64) float64 {
	lower := 0.0
	for _, band := range removalFloors {
		if requiredFeet < band.upToFeet {
			if band.startFloor == band.endFloor {
				return band.startFloor
			}
			frac := (requiredFeet - lower) / (band.upToFeet - lower)
			return band.startFloor + frac*(band.endFloor-band.startFloor)
		}
		lower = band.upToFeet
	}
	return removalFloors[len(removalFloors)-1].endFloor
}

// RemovalQuote is the priced removal service for a job.
type RemovalQuote struct {
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// RemovalPricing prices fence removal: 40% of the sell rate, floored by the
// tier table, and never totaling less than the minimum job charge. Removal
// scales with required (installed) footage since that is what gets pulled.
func RemovalPricing(requiredFeet, sellPricePerFoot float64, rates Rates) RemovalQuote {
	if requiredFeet <= 0 {
		return RemovalQuote{}
	}
	if sellPricePerFoot < 0 {
		sellPricePerFoot = 0
	}

	unit := sellPricePerFoot * 0.40
	if floor := RemovalFloorPrice(requiredFeet); unit < floor {
		unit = floor
	}

	total := unit * requiredFeet
	if total < rates.MinRemovalCharge {
		total = rates.MinRemovalCharge
		unit = total / requiredFeet
	}
	return RemovalQuote{UnitPrice: unit, Total: total}
}

// ── Estimate computation ────────────────────────────────────────────────

// ComputeEstimate turns a job configuration into the full estimate bundle:
// quantities, internal costs, customer line items, takeoff, totals, and the
// profitability signal. It is a pure function of its inputs plus the price
// source; identical inputs produce identical results.
func ComputeEstimate(cfg JobConfig, prices PriceSource, rates Rates) EstimateResult {
	if prices == nil {
		prices = StaticPrices(nil)
	}
	material := cfg.Material
	if material == nil {
		material = SiltSpec{Gauge: Gauge14}
	}

	rollLen := rates.RollLengthFeet
	if rollLen < 1 {
		rollLen = DefaultRollLengthFeet
	}
	spacing := cfg.PostSpacingFeet
	if spacing < 1 {
		spacing = 1
	}

	requiredFeet := RequiredFootage(cfg.TotalRequestedFeet, cfg.WastePercent)
	postCount := PostsNeeded(requiredFeet, spacing)
	rollCount := RollsNeeded(requiredFeet, rollLen)

	fabric := material.FabricSKU()
	post := material.PostSKU()
	fabricUnit := prices.Lookup(fabric.SKU, fabric.Default)
	postUnit := prices.Lookup(post.SKU, post.Default)

	capUnit := 0.0
	capCount := 0
	capName := ""
	if cap, ok := material.CapSKU(); ok {
		capUnit = prices.Lookup(cap.SKU, cap.Default)
		capCount = postCount
		capName = "Plastic"
		if cap.SKU == SKUCapOSHA {
			capName = "OSHA"
		}
	}

	quantities := QuantityResult{
		RequiredFeet: requiredFeet,
		PostCount:    postCount,
		RollCount:    rollCount,
		CapCount:     capCount,
	}

	costs := computeCosts(requiredFeet, postCount, fabricUnit, postUnit, capCount, capUnit, rates)

	// Customer revenue is on quoted footage; the customer pays for what they
	// asked for, not installer overage.
	quotedFeet := cfg.TotalRequestedFeet
	if quotedFeet < 0 {
		quotedFeet = 0
	}
	sell := cfg.SellPricePerFoot
	if sell < 0 {
		sell = 0
	}

	mainRevenue := sell * quotedFeet
	capsRevenue := capUnit * float64(capCount)

	removal := RemovalQuote{}
	if cfg.IncludeRemoval {
		removal = RemovalPricing(requiredFeet, sell, rates)
	}

	subtotal := mainRevenue + capsRevenue + removal.Total
	salesTax := 0.0
	if !cfg.RemoveSalesTax {
		salesTax = subtotal * rates.SalesTaxRate
	}
	grandTotal := subtotal + salesTax

	// Removal revenue is pass-through service work, excluded from the margin
	// base.
	marginBase := mainRevenue + capsRevenue
	grossProfit := marginBase - costs.InternalTotalCost
	profitMargin := 0.0
	if marginBase > 0 {
		profitMargin = grossProfit / marginBase
	}
	status := ProfitCheck
	if marginBase > 0 && profitMargin >= rates.ProfitMarginTarget {
		status = ProfitGood
	}

	var items []LineItem
	if quotedFeet > 0 {
		items = append(items, NewLineItem(LineMain, quotedFeet, material.Description(), "LF", sell))
	}
	if capCount > 0 {
		items = append(items, NewLineItem(LineCaps, float64(capCount), "Safety Caps", "EA", capUnit))
	}
	if cfg.IncludeRemoval && requiredFeet > 0 {
		// Quantity and unit price present the quoted footage; the total is
		// the removal charge itself, which was sized on required footage.
		li := NewLineItem(LineRemoval, quotedFeet, "Fence Removal", "LF", removal.UnitPrice)
		li.LineTotal = removal.Total
		items = append(items, li)
	}

	var takeoff []TakeoffItem
	if quotedFeet > 0 {
		takeoff = append(takeoff, TakeoffItem{
			Qty:         rollCount,
			Description: fmt.Sprintf("Fabric Roll (%d LF)", rollLen),
			Unit:        "ROLL",
			Note:        fmt.Sprintf("For ~%s LF incl. waste", GroupThousands(int64(math.Round(requiredFeet)))),
		})
	}
	if postCount > 0 {
		takeoff = append(takeoff, TakeoffItem{
			Qty:         postCount,
			Description: material.PostName(),
			Unit:        "EA",
			Note:        fmt.Sprintf("Spacing %d ft", spacing),
		})
	}
	if capCount > 0 {
		takeoff = append(takeoff, TakeoffItem{
			Qty:         capCount,
			Description: "Safety Cap",
			Unit:        "EA",
			Note:        capName,
		})
	}

	return EstimateResult{
		Quantities:       quantities,
		Costs:            costs,
		LineItems:        items,
		MaterialsTakeoff: takeoff,
		Subtotal:         subtotal,
		SalesTax:         salesTax,
		GrandTotal:       grandTotal,
		GrossProfit:      grossProfit,
		ProfitMargin:     profitMargin,
		ProfitStatus:     status,
	}
}

// computeCosts derives the internal cost breakdown from resolved unit prices
// and counts.
func computeCosts(requiredFeet float64, postCount int, fabricUnit, postUnit float64, capCount int, capUnit float64, rates Rates) CostBreakdown {
	if fabricUnit < 0 {
		fabricUnit = 0
	}
	if postUnit < 0 {
		postUnit = 0
	}
	if capUnit < 0 {
		capUnit = 0
	}

	fabricCost := requiredFeet * fabricUnit
	hardwareCost := float64(postCount) * postUnit
	capsCost := float64(capCount) * capUnit
	materialSubtotal := fabricCost + hardwareCost + capsCost
	materialTax := materialSubtotal * rates.SalesTaxRate

	projectDays := 0.0
	if requiredFeet > 0 && rates.ProductionFeetPerDay > 0 {
		projectDays = requiredFeet / rates.ProductionFeetPerDay
	}
	laborCost := projectDays * rates.LaborRatePerDay

	// Fuel bills in whole-day increments even for partial days.
	billingDays := int(math.Ceil(projectDays))
	fuelCost := 0.0
	if requiredFeet > 0 {
		fuelCost = rates.FuelRatePerDay * float64(billingDays)
	}

	return CostBreakdown{
		FabricCost:        fabricCost,
		HardwareCost:      hardwareCost,
		CapsCost:          capsCost,
		MaterialSubtotal:  materialSubtotal,
		MaterialTax:       materialTax,
		ProjectDays:       projectDays,
		BillingDays:       billingDays,
		LaborCost:         laborCost,
		FuelCost:          fuelCost,
		InternalTotalCost: materialSubtotal + materialTax + laborCost + fuelCost,
	}
}

// ── Line item table maintenance ─────────────────────────────────────────

// LineItemMode controls what happens to an existing line item table when an
// estimate is recomputed.
type LineItemMode string

const (
	// Regenerate discards the stored table and replaces it with the freshly
	// computed rows.
	Regenerate LineItemMode = "regenerate"
	// PreserveUserEdits keeps rows the user has hand-edited or added;
	// untouched rows are replaced by their freshly computed counterparts.
	PreserveUserEdits LineItemMode = "preserve"
)

// MergeLineItems combines freshly computed rows with the stored table
// according to mode. Rows are matched by ID: engine rows carry the stable
// IDs above, manual rows carry generated ones and therefore always survive a
// preserving merge.
func MergeLineItems(fresh, existing []LineItem, mode LineItemMode) []LineItem {
	if mode != PreserveUserEdits {
		return fresh
	}

	editedByID := make(map[string]LineItem, len(existing))
	for _, item := range existing {
		if item.UserEdited {
			editedByID[item.ID] = item
		}
	}

	merged := make([]LineItem, 0, len(fresh))
	seen := make(map[string]bool, len(fresh))
	for _, item := range fresh {
		if kept, ok := editedByID[item.ID]; ok {
			merged = append(merged, kept)
		} else {
			merged = append(merged, item)
		}
		seen[item.ID] = true
	}

	// User-added rows have no fresh counterpart; keep them in table order.
	for _, item := range existing {
		if item.UserEdited && !seen[item.ID] {
			merged = append(merged, item)
		}
	}
	return merged
}

// TotalsFromLineItems recomputes the customer totals from a line item table.
// A nonzero stored line total is authoritative (it may carry a manual
// override); zero totals fall back to qty x unit price. Exports use this so
// they stay consistent with hand-edited tables.
func TotalsFromLineItems(items []LineItem, removeSalesTax bool, taxRate float64) (subtotal, salesTax, grandTotal float64) {
	for _, item := range items {
		total := item.LineTotal
		if total == 0 {
			total = item.Qty * item.UnitPrice
		}
		subtotal += total
	}
	if !removeSalesTax {
		salesTax = subtotal * taxRate
	}
	return subtotal, salesTax, subtotal + salesTax
}
