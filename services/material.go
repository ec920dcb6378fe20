package services

// SKU keys looked up in the pricebook. Defaults below apply whenever the
// pricebook has no entry for a key.
const (
	SKUSiltFence14G          = "silt-fence-14g"
	SKUSiltFence125G         = "silt-fence-12g5"
	SKUSiltFenceUnreinforced = "silt-fence-unreinforced"
	SKUOrangeFenceLightDuty  = "orange-fence-light-duty"
	SKUOrangeFenceHeavyDuty  = "orange-fence-heavy-duty"

	SKUTPost4ft      = "t-post-4ft"
	SKUTxDOTTPost4ft = "tx-dot-t-post-4-ft"
	SKUWoodStake4ft  = "wood-stake-4ft"
	SKUTPost6ft      = "t-post-6ft"

	SKUCapOSHA    = "cap-osha"
	SKUCapPlastic = "cap-plastic"
)

// SiltGauge selects the silt fence fabric variant.
type SiltGauge string

const (
	Gauge14      SiltGauge = "14 Gauge"
	Gauge125     SiltGauge = "12.5 Gauge"
	Unreinforced SiltGauge = "Unreinforced"
)

// OrangeDuty selects the orange construction fence variant.
type OrangeDuty string

const (
	LightDuty OrangeDuty = "Light Duty"
	HeavyDuty OrangeDuty = "Heavy Duty"
)

// CapType selects the safety cap product.
type CapType string

const (
	CapOSHA    CapType = "OSHA"
	CapPlastic CapType = "Plastic"
)

// SKUPrice pairs a pricebook key with its fallback unit price.
type SKUPrice struct {
	SKU     string
	Default float64
}

// MaterialSpec is the per-family job configuration. Exactly one concrete
// variant (SiltSpec or OrangeSpec) is supplied per estimate, so options that
// only exist for one family cannot leak into the other.
type MaterialSpec interface {
	// Family returns the material family name, e.g. "Silt Fence".
	Family() string
	// Description returns the customer-facing line item wording.
	Description() string
	// Variant returns the variant label within the family.
	Variant() string
	// FabricSKU returns the fabric pricebook key and default price per foot.
	FabricSKU() SKUPrice
	// PostSKU returns the post/stake pricebook key and default price each.
	PostSKU() SKUPrice
	// CapSKU returns the safety cap key and default price. ok is false when
	// the configuration takes no caps.
	CapSKU() (p SKUPrice, ok bool)
	// PostName returns the takeoff wording for the post/stake hardware.
	PostName() string
}

// SiltSpec configures a silt fence job.
type SiltSpec struct {
	Gauge       SiltGauge
	IncludeCaps bool
	CapType     CapType
}

func (s SiltSpec) Family() string { return "Silt Fence" }

func (s SiltSpec) Variant() string { return string(s.Gauge) }

func (s SiltSpec) Description() string {
	switch s.Gauge {
	case Gauge125:
		return "12.5 Gauge Silt Fence"
	case Unreinforced:
		return "Unreinforced Silt Fence"
	default:
		return "14 Gauge Silt Fence"
	}
}

func (s SiltSpec) FabricSKU() SKUPrice {
	switch s.Gauge {
	case Gauge125:
		return SKUPrice{SKUSiltFence125G, 0.38}
	case Unreinforced:
		return SKUPrice{SKUSiltFenceUnreinforced, 0.28}
	default:
		return SKUPrice{SKUSiltFence14G, 0.32}
	}
}

func (s SiltSpec) PostSKU() SKUPrice {
	switch s.Gauge {
	case Gauge125:
		return SKUPrice{SKUTxDOTTPost4ft, 2.15}
	case Unreinforced:
		return SKUPrice{SKUWoodStake4ft, 1.25}
	default:
		return SKUPrice{SKUTPost4ft, 1.80}
	}
}

// CapSKU returns the cap pricing only for reinforced silt fence with caps
// selected. Unreinforced runs use wooden stakes, which take no caps.
func (s SiltSpec) CapSKU() (SKUPrice, bool) {
	if !s.IncludeCaps || s.Gauge == Unreinforced {
		return SKUPrice{}, false
	}
	if s.CapType == CapPlastic {
		return SKUPrice{SKUCapPlastic, 1.05}, true
	}
	return SKUPrice{SKUCapOSHA, 3.90}, true
}

func (s SiltSpec) PostName() string {
	if s.Gauge == Unreinforced {
		return "Wood Stake"
	}
	return "T-Post"
}

// OrangeSpec configures a plastic orange fence job.
type OrangeSpec struct {
	Duty OrangeDuty
}

func (o OrangeSpec) Family() string { return "Plastic Orange Fence" }

func (o OrangeSpec) Variant() string { return string(o.Duty) }

func (o OrangeSpec) Description() string { return "Plastic Orange Fence" }

func (o OrangeSpec) FabricSKU() SKUPrice {
	if o.Duty == HeavyDuty {
		return SKUPrice{SKUOrangeFenceHeavyDuty, 0.45}
	}
	return SKUPrice{SKUOrangeFenceLightDuty, 0.30}
}

func (o OrangeSpec) PostSKU() SKUPrice { return SKUPrice{SKUTPost6ft, 2.25} }

func (o OrangeSpec) CapSKU() (SKUPrice, bool) { return SKUPrice{}, false }

func (o OrangeSpec) PostName() string { return "T-Post" }
