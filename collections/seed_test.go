package collections_test

import (
	"testing"

	"github.com/akiyamanx/CULOchanKAIKEIpro/collections"
	"github.com/akiyamanx/CULOchanKAIKEIpro/testhelpers"
)

func TestSeed_InsertsDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	settings, err := app.FindRecordsByFilter("settings", "id != ''", "", 0, 0)
	if err != nil {
		t.Fatalf("query settings: %v", err)
	}
	if len(settings) != 1 {
		t.Fatalf("settings records = %d, want 1", len(settings))
	}
	s := settings[0]
	if s.GetInt("tax_rate") != 10 || s.GetInt("default_profit_rate") != 20 {
		t.Errorf("default rates = %d/%d, want 10/20", s.GetInt("tax_rate"), s.GetInt("default_profit_rate"))
	}
	if s.GetInt("daily_rate") != 18000 {
		t.Errorf("daily_rate = %d, want 18000", s.GetInt("daily_rate"))
	}
	if s.GetString("payment_terms") != "翌月末" {
		t.Errorf("payment_terms = %q, want 翌月末", s.GetString("payment_terms"))
	}

	products, err := app.FindRecordsByFilter("product_master", "id != ''", "", 0, 0)
	if err != nil {
		t.Fatalf("query product_master: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("expected starter product master entries")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	settings, err := app.FindRecordsByFilter("settings", "id != ''", "", 0, 0)
	if err != nil {
		t.Fatalf("query settings: %v", err)
	}
	if len(settings) != 1 {
		t.Errorf("settings records = %d, want 1 after repeated seeding", len(settings))
	}

	first, err := app.FindRecordsByFilter("product_master", "id != ''", "", 0, 0)
	if err != nil {
		t.Fatalf("query product_master: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("third Seed: %v", err)
	}
	again, err := app.FindRecordsByFilter("product_master", "id != ''", "", 0, 0)
	if err != nil {
		t.Fatalf("query product_master: %v", err)
	}
	if len(first) != len(again) {
		t.Errorf("product master grew from %d to %d on reseed", len(first), len(again))
	}
}

func TestSeed_SkipsWhenSettingsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	// Mutate the stored settings, reseed, and verify the edit survives.
	settings, err := app.FindRecordsByFilter("settings", "id != ''", "", 0, 0)
	if err != nil {
		t.Fatalf("query settings: %v", err)
	}
	settings[0].Set("tax_rate", 8)
	if err := app.Save(settings[0]); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	if err := collections.Seed(app); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	reloaded, err := app.FindRecordById("settings", settings[0].Id)
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if reloaded.GetInt("tax_rate") != 8 {
		t.Errorf("tax_rate = %d, want the user edit (8) preserved", reloaded.GetInt("tax_rate"))
	}
}
