package services

import (
	"testing"

	"github.com/akiyamanx/CULOchanKAIKEIpro/testhelpers"
)

func TestDecodeExtractionJSON(t *testing.T) {
	const body = `{"storeName":"コーナン","date":"2025-06-15","items":[{"name":"塩ビ管","quantity":3,"price":500}]}`

	tests := []struct {
		name string
		raw  string
	}{
		{"bare json", body},
		{"json fence", "```json\n" + body + "\n```"},
		{"plain fence", "```\n" + body + "\n```"},
		{"surrounding whitespace", "\n  " + body + "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := decodeExtractionJSON(tt.raw)
			if err != nil {
				t.Fatalf("decodeExtractionJSON: %v", err)
			}
			if result.StoreName != "コーナン" || result.Date != "2025-06-15" {
				t.Errorf("header mismatch: %+v", result)
			}
			if len(result.Items) != 1 || result.Items[0].Name != "塩ビ管" {
				t.Errorf("items mismatch: %+v", result.Items)
			}
		})
	}
}

func TestDecodeExtractionJSONMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", "```json\n{broken\n```"} {
		if _, err := decodeExtractionJSON(raw); err == nil {
			t.Errorf("decodeExtractionJSON(%q) should fail", raw)
		}
	}
}

func TestApplyExtraction(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := AddToProductMaster(app, "塩ビ管 VP20", "pipes", []string{"エンビカン"}, 500); err != nil {
		t.Fatalf("AddToProductMaster: %v", err)
	}
	if _, err := AddToProductMaster(app, "駐車場代", "travel", nil, 0); err != nil {
		t.Fatalf("AddToProductMaster: %v", err)
	}

	result := &ExtractionResult{
		StoreName: "コーナン",
		Date:      "2025-06-15",
		Items: []ExtractedItem{
			{Name: "エンビカン 2M", Quantity: 3, Price: 500},
			{Name: "駐車場代", Quantity: 1, Price: 800},
			{Name: "軍手", Quantity: 0, Price: 300},
			{Name: "  ", Quantity: 1, Price: 100},
		},
	}

	items, err := ApplyExtraction(app, result)
	if err != nil {
		t.Fatalf("ApplyExtraction: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3 (blank name dropped)", len(items))
	}

	// Matched material: canonical name, master category.
	if items[0].Name != "塩ビ管 VP20" || !items[0].Matched {
		t.Errorf("item 0 = %+v, want matched 塩ビ管 VP20", items[0])
	}
	if items[0].OriginalName != "エンビカン 2M" {
		t.Errorf("OriginalName = %q, want the raw receipt text", items[0].OriginalName)
	}
	if items[0].Category != "pipes" || items[0].Type != ReceiptItemMaterial {
		t.Errorf("item 0 classification = %q/%q, want material/pipes", items[0].Type, items[0].Category)
	}

	// Expense-category master entries pre-classify as expense.
	if items[1].Type != ReceiptItemExpense || items[1].Category != "travel" {
		t.Errorf("item 1 classification = %q/%q, want expense/travel", items[1].Type, items[1].Category)
	}

	// Unmatched names stay raw, default to material/other_material, qty floors at 1.
	if items[2].Matched || items[2].Name != "軍手" {
		t.Errorf("item 2 = %+v, want unmatched 軍手", items[2])
	}
	if items[2].Category != "other_material" || items[2].Quantity != 1 {
		t.Errorf("item 2 defaults = %q qty=%d, want other_material qty 1", items[2].Category, items[2].Quantity)
	}
}

func TestApplyExtractionEmptyIsError(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := ApplyExtraction(app, nil); err == nil {
		t.Error("nil result should fail")
	}
	if _, err := ApplyExtraction(app, &ExtractionResult{}); err == nil {
		t.Error("empty result should fail")
	}
	if _, err := ApplyExtraction(app, &ExtractionResult{Items: []ExtractedItem{{Name: " "}}}); err == nil {
		t.Error("all-blank result should fail")
	}
}
