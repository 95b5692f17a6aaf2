// Package collections creates the PocketBase collections the application
// stores its data in and seeds the defaults.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all application collections.
func Setup(app *pocketbase.PocketBase) {
	// Estimates and invoices share the same shape; line items live in
	// JSON fields and are replaced whole with the record.
	documentFields := func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "number", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "completed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "customer_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "subject", Required: false})
		c.Fields.Add(&core.TextField{Name: "date", Required: false})
		c.Fields.Add(&core.TextField{Name: "valid_until", Required: false})
		c.Fields.Add(&core.TextField{Name: "due_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "work_mode",
			Required:  false,
			Values:    []string{"construction", "daily"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.JSONField{Name: "materials", Required: false})
		c.Fields.Add(&core.JSONField{Name: "works", Required: false})
		c.Fields.Add(&core.NumberField{Name: "material_subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "work_subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tax", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	}

	ensureCollection(app, "estimates", documentFields)
	ensureCollection(app, "invoices", documentFields)

	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.TextField{Name: "project_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "store_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "expenses", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.TextField{Name: "project_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "store_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "settings", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_profit_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "daily_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "estimate_valid_days", Required: false})
		c.Fields.Add(&core.TextField{Name: "payment_terms", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "postal_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "fax", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "invoice_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "bank_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "branch_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "account_type", Required: false})
		c.Fields.Add(&core.TextField{Name: "account_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "account_holder", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "product_master", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "official_name", Required: true})
		c.Fields.Add(&core.JSONField{Name: "aliases", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_price", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "receipt_history", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "store_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "date", Required: false})
		c.Fields.Add(&core.JSONField{Name: "items", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "material_count", Required: false})
		c.Fields.Add(&core.NumberField{Name: "expense_count", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
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
