package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type pricebookDef struct {
	sku         string
	description string
	unitPrice   float64
}

// defaultPricebook is the material catalog with the shop's standing unit
// costs. Imports overwrite these rows; they are only inserted when the
// pricebook starts empty.
var defaultPricebook = []pricebookDef{
	{"silt-fence-14g", "Silt Fence Fabric, 14 Gauge Reinforced", 0.32},
	{"silt-fence-12g5", "Silt Fence Fabric, 12.5 Gauge Reinforced", 0.38},
	{"silt-fence-unreinforced", "Silt Fence Fabric, Unreinforced", 0.28},
	{"orange-fence-light-duty", "Plastic Orange Fence, Light Duty", 0.30},
	{"orange-fence-heavy-duty", "Plastic Orange Fence, Heavy Duty", 0.45},
	{"t-post-4ft", "T-Post, 4 ft", 1.80},
	{"tx-dot-t-post-4-ft", "TxDOT T-Post, 4 ft", 2.15},
	{"wood-stake-4ft", "Wood Stake, 4 ft", 1.25},
	{"t-post-6ft", "T-Post, 6 ft", 2.25},
	{"cap-osha", "Safety Cap, OSHA", 3.90},
	{"cap-plastic", "Safety Cap, Plastic", 1.05},
}

// Seed populates the pricebook collection with the default material catalog.
// It is safe to call on every startup because it returns early if any
// pricebook records already exist.
func Seed(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("pricebook")
	if err != nil {
		return fmt.Errorf("seed: could not find pricebook collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query pricebook: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: pricebook collection is empty – inserting default catalog …")

	for _, def := range defaultPricebook {
		record := core.NewRecord(col)
		record.Set("sku", def.sku)
		record.Set("description", def.description)
		record.Set("unit_price", def.unitPrice)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: could not save pricebook entry %q: %w", def.sku, err)
		}
	}

	log.Printf("seed: inserted %d pricebook entries", len(defaultPricebook))
	return nil
}
