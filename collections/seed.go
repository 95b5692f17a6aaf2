package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type productDef struct {
	officialName string
	aliases      []string
	category     string
	defaultPrice int
}

// Seed inserts the default settings record and a starter product master.
// It is safe to call on every startup because each section returns early
// when records already exist.
func Seed(app *pocketbase.PocketBase) error {
	if err := seedSettings(app); err != nil {
		return err
	}
	return seedProductMaster(app)
}

func seedSettings(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("seed: could not find settings collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query settings: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: settings collection is empty, inserting defaults")

	r := core.NewRecord(col)
	r.Set("tax_rate", 10)
	r.Set("default_profit_rate", 20)
	r.Set("daily_rate", 18000)
	r.Set("estimate_valid_days", 30)
	r.Set("payment_terms", "翌月末")
	r.Set("account_type", "普通")
	if err := app.Save(r); err != nil {
		return fmt.Errorf("seed: save default settings: %w", err)
	}
	return nil
}

func seedProductMaster(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("product_master")
	if err != nil {
		return fmt.Errorf("seed: could not find product_master collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query product_master: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: product_master collection is empty, inserting starter entries")

	// A small starter set of plumbing staples so receipt matching has
	// something to hit before the user registers their own products.
	products := []productDef{
		{officialName: "塩ビ管 VP13", aliases: []string{"エンビカン VP13", "VP13"}, category: "pipes", defaultPrice: 380},
		{officialName: "塩ビ管 VP20", aliases: []string{"エンビカン VP20", "VP20"}, category: "pipes", defaultPrice: 500},
		{officialName: "塩ビ管 VP25", aliases: []string{"エンビカン VP25", "VP25"}, category: "pipes", defaultPrice: 680},
		{officialName: "エルボ 20", aliases: []string{"ツギテ エルボ"}, category: "fittings", defaultPrice: 80},
		{officialName: "チーズ 20", aliases: []string{"ツギテ チーズ"}, category: "fittings", defaultPrice: 120},
		{officialName: "ボールバルブ 20", aliases: []string{"バルブ 20"}, category: "valves", defaultPrice: 980},
		{officialName: "シールテープ", aliases: []string{"シーリングテープ"}, category: "consumables", defaultPrice: 150},
		{officialName: "塩ビ用接着剤", aliases: []string{"エンビ ボンド", "接着剤"}, category: "consumables", defaultPrice: 450},
	}

	for _, p := range products {
		r := core.NewRecord(col)
		r.Set("official_name", p.officialName)
		r.Set("aliases", p.aliases)
		r.Set("category", p.category)
		r.Set("default_price", p.defaultPrice)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save product %q: %w", p.officialName, err)
		}
	}
	return nil
}
