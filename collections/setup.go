package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the estimates, estimate_line_items
// and pricebook collections exist.
func Setup(app *pocketbase.PocketBase) {
	estimates := ensureCollection(app, "estimates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "reference_number", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "material_family",
			Required:  true,
			Values:    []string{"Silt Fence", "Plastic Orange Fence"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "variant", Required: false})
		c.Fields.Add(&core.BoolField{Name: "include_caps"})
		c.Fields.Add(&core.SelectField{
			Name:      "cap_type",
			Required:  false,
			Values:    []string{"OSHA", "Plastic"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "total_feet", Required: false})
		c.Fields.Add(&core.NumberField{Name: "waste_percent", Required: false})
		c.Fields.Add(&core.NumberField{Name: "post_spacing", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sell_price_per_foot", Required: false})
		c.Fields.Add(&core.BoolField{Name: "include_removal"})
		c.Fields.Add(&core.BoolField{Name: "remove_sales_tax"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "estimate_line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "item_key", Required: true})
		c.Fields.Add(&core.NumberField{Name: "qty", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "line_total", Required: false})
		c.Fields.Add(&core.BoolField{Name: "user_edited"})
	})

	ensureCollection(app, "pricebook", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "sku", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
