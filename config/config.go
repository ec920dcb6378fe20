// Package config loads business constants and app settings from the
// environment. Defaults match the shop's standing rates so the app runs with
// no configuration at all.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"

	"fencequote/services"
)

type Config struct {
	CompanyName   string `env:"COMPANY_NAME" envDefault:"Double Oak Fencing"`
	PricebookPath string `env:"PRICEBOOK_PATH"`

	SalesTaxRate         float64 `env:"SALES_TAX_RATE" envDefault:"0.0825"`
	ProductionFeetPerDay float64 `env:"PRODUCTION_FEET_PER_DAY" envDefault:"2500"`
	LaborRatePerDay      float64 `env:"LABOR_RATE_PER_DAY" envDefault:"554.34"`
	FuelRatePerDay       float64 `env:"FUEL_RATE_PER_DAY" envDefault:"65"`
	ProfitMarginTarget   float64 `env:"PROFIT_MARGIN_TARGET" envDefault:"0.30"`
	MinRemovalCharge     float64 `env:"MIN_REMOVAL_CHARGE" envDefault:"800"`
	RollLengthFeet       int     `env:"ROLL_LENGTH_FEET" envDefault:"100"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SalesTaxRate < 0 || cfg.SalesTaxRate >= 1 {
		return nil, fmt.Errorf("SALES_TAX_RATE must be a fraction in [0, 1), got %v", cfg.SalesTaxRate)
	}
	if cfg.ProductionFeetPerDay <= 0 {
		return nil, fmt.Errorf("PRODUCTION_FEET_PER_DAY must be positive, got %v", cfg.ProductionFeetPerDay)
	}
	if cfg.RollLengthFeet <= 0 {
		return nil, fmt.Errorf("ROLL_LENGTH_FEET must be positive, got %v", cfg.RollLengthFeet)
	}

	return &cfg, nil
}

// Rates converts the loaded configuration into the engine's rate set.
func (c *Config) Rates() services.Rates {
	return services.Rates{
		SalesTaxRate:         c.SalesTaxRate,
		ProductionFeetPerDay: c.ProductionFeetPerDay,
		LaborRatePerDay:      c.LaborRatePerDay,
		FuelRatePerDay:       c.FuelRatePerDay,
		ProfitMarginTarget:   c.ProfitMarginTarget,
		MinRemovalCharge:     c.MinRemovalCharge,
		RollLengthFeet:       c.RollLengthFeet,
	}
}
