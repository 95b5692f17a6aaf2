package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/text/unicode/norm"
)

// Product is a product-name master entry used to canonicalize the noisy
// item names that come off receipts.
type Product struct {
	ID           string   `json:"id"`
	OfficialName string   `json:"officialName"`
	Aliases      []string `json:"aliases"`
	Category     string   `json:"category"`
	DefaultPrice int      `json:"defaultPrice"`
}

// NormalizeProductName folds full-width ASCII and half-width katakana to
// their canonical forms, lowercases and trims. NFKC also composes the
// separate voiced marks half-width katakana carries (ﾊﾞ is ﾊ plus ﾞ), so
// バルブ and ﾊﾞﾙﾌﾞ normalize to the same bytes. OCR output mixes widths
// freely, so all matching happens on the normalized form.
func NormalizeProductName(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

func productFromRecord(r *core.Record) Product {
	p := Product{
		ID:           r.Id,
		OfficialName: r.GetString("official_name"),
		Category:     r.GetString("category"),
		DefaultPrice: r.GetInt("default_price"),
	}
	if raw := r.GetString("aliases"); raw != "" {
		// A broken alias list just means no aliases
		_ = json.Unmarshal([]byte(raw), &p.Aliases)
	}
	return p
}

// ListProducts returns master entries, optionally filtered by a search
// matched against official names and aliases.
func ListProducts(app *pocketbase.PocketBase, search string) ([]Product, error) {
	records, err := app.FindRecordsByFilter("product_master", "id != ''", "official_name", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	search = NormalizeProductName(search)
	var products []Product
	for _, record := range records {
		p := productFromRecord(record)
		if search != "" && !productMatchesSearch(p, search) {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func productMatchesSearch(p Product, search string) bool {
	if strings.Contains(NormalizeProductName(p.OfficialName), search) {
		return true
	}
	for _, a := range p.Aliases {
		if strings.Contains(NormalizeProductName(a), search) {
			return true
		}
	}
	return false
}

// FindMatchingProduct looks a raw item name up in the master. A product
// matches when its official name or one of its aliases equals the
// normalized name, or appears inside it (receipt lines often carry size
// and count suffixes around the product name).
func FindMatchingProduct(app *pocketbase.PocketBase, name string) (*Product, bool) {
	norm := NormalizeProductName(name)
	if norm == "" {
		return nil, false
	}

	records, err := app.FindRecordsByFilter("product_master", "id != ''", "", 0, 0)
	if err != nil {
		return nil, false
	}

	for _, record := range records {
		p := productFromRecord(record)
		candidates := append([]string{p.OfficialName}, p.Aliases...)
		for _, c := range candidates {
			cn := NormalizeProductName(c)
			if cn == "" {
				continue
			}
			if cn == norm {
				return &p, true
			}
			// Substring matches need at least two characters to be meaningful
			if len([]rune(cn)) >= 2 && strings.Contains(norm, cn) {
				return &p, true
			}
		}
	}
	return nil, false
}

// AddToProductMaster registers a product, merging aliases into an existing
// entry when the official name already exists.
func AddToProductMaster(app *pocketbase.PocketBase, officialName, category string, aliases []string, defaultPrice int) (*Product, error) {
	officialName = strings.TrimSpace(officialName)
	if officialName == "" {
		return nil, fmt.Errorf("official name is required")
	}

	records, err := app.FindRecordsByFilter(
		"product_master",
		"official_name = {:name}",
		"",
		1,
		0,
		map[string]any{"name": officialName},
	)

	var record *core.Record
	var merged []string
	if err == nil && len(records) > 0 {
		record = records[0]
		existing := productFromRecord(record)
		merged = mergeAliases(existing.Aliases, aliases, officialName)
		if category != "" {
			record.Set("category", category)
		}
		if defaultPrice > 0 {
			record.Set("default_price", defaultPrice)
		}
	} else {
		col, err := app.FindCollectionByNameOrId("product_master")
		if err != nil {
			return nil, fmt.Errorf("product_master collection not found: %w", err)
		}
		record = core.NewRecord(col)
		record.Set("official_name", officialName)
		record.Set("category", category)
		record.Set("default_price", nonNegative(defaultPrice))
		merged = mergeAliases(nil, aliases, officialName)
	}
	record.Set("aliases", merged)

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	p := productFromRecord(record)
	return &p, nil
}

// mergeAliases appends new aliases, skipping blanks, duplicates and the
// official name itself.
func mergeAliases(existing, incoming []string, officialName string) []string {
	seen := map[string]bool{NormalizeProductName(officialName): true}
	var merged []string
	for _, a := range append(append([]string{}, existing...), incoming...) {
		a = strings.TrimSpace(a)
		norm := NormalizeProductName(a)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		merged = append(merged, a)
	}
	return merged
}
