package collections_test

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"github.com/akiyamanx/CULOchanKAIKEIpro/collections"
	"github.com/akiyamanx/CULOchanKAIKEIpro/testhelpers"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"estimates",
	"invoices",
	"materials",
	"expenses",
	"projects",
	"settings",
	"product_master",
	"receipt_history",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_DocumentFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	fields := []string{
		"number", "status", "customer_name", "subject", "date",
		"valid_until", "due_date", "notes", "work_mode", "tax_rate",
		"materials", "works",
		"material_subtotal", "work_subtotal", "subtotal", "tax", "total",
		"created", "updated",
	}

	for _, name := range []string{"estimates", "invoices"} {
		col, _ := app.FindCollectionByNameOrId(name)
		for _, f := range fields {
			if col.Fields.GetByName(f) == nil {
				t.Errorf("%s: missing field %q", name, f)
			}
		}

		statusField := col.Fields.GetByName("status")
		if sf, ok := statusField.(*core.SelectField); ok {
			expected := map[string]bool{"draft": true, "completed": true}
			for _, v := range sf.Values {
				if !expected[v] {
					t.Errorf("%s: unexpected status value %q", name, v)
				}
				delete(expected, v)
			}
			for v := range expected {
				t.Errorf("%s: missing status value %q", name, v)
			}
		} else {
			t.Errorf("%s: status field is not a SelectField", name)
		}

		modeField := col.Fields.GetByName("work_mode")
		if sf, ok := modeField.(*core.SelectField); ok {
			if len(sf.Values) != 2 {
				t.Errorf("%s: work_mode expected 2 values, got %d", name, len(sf.Values))
			}
		} else {
			t.Errorf("%s: work_mode field is not a SelectField", name)
		}
	}
}

func TestSetup_MaterialsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("materials")

	fields := []string{"name", "price", "quantity", "category", "project_name", "store_name", "date", "created"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("materials: missing field %q", f)
		}
	}
}

func TestSetup_ExpensesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("expenses")

	fields := []string{"name", "price", "category", "project_name", "store_name", "date", "created"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("expenses: missing field %q", f)
		}
	}

	// Expenses carry a line total, never a per-unit quantity.
	if col.Fields.GetByName("quantity") != nil {
		t.Error("expenses: unexpected quantity field")
	}
}

func TestSetup_SettingsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("settings")

	fields := []string{
		"tax_rate", "default_profit_rate", "daily_rate", "estimate_valid_days",
		"payment_terms", "company_name", "postal_code", "address", "phone",
		"fax", "email", "invoice_number", "bank_name", "branch_name",
		"account_type", "account_number", "account_holder",
		"created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("settings: missing field %q", f)
		}
	}
}

func TestSetup_ProductMasterFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("product_master")

	fields := []string{"official_name", "aliases", "category", "default_price", "created"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("product_master: missing field %q", f)
		}
	}
}

func TestSetup_ReceiptHistoryFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("receipt_history")

	fields := []string{"store_name", "customer_name", "date", "items", "total_amount", "material_count", "expense_count", "created"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("receipt_history: missing field %q", f)
		}
	}
}
