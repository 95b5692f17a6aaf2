package services

import (
	"fmt"
	"testing"

	"github.com/akiyamanx/CULOchanKAIKEIpro/testhelpers"
)

func TestReceiptHistoryRoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	items := []ReceiptItem{
		{ID: "1", Name: "塩ビ管", Quantity: 3, Price: 500, Type: ReceiptItemMaterial, Category: "pipes", ProjectName: "田中邸"},
		{ID: "2", Name: "駐車場代", Quantity: 1, Price: 800, Type: ReceiptItemExpense, Category: "travel"},
	}
	result, err := SaveReceipt(app, "コーナン", "田中様", "2025-06-15", items)
	if err != nil {
		t.Fatalf("SaveReceipt: %v", err)
	}

	h, err := FindReceiptHistory(app, result.HistoryID)
	if err != nil {
		t.Fatalf("FindReceiptHistory: %v", err)
	}
	if h.StoreName != "コーナン" || h.CustomerName != "田中様" || h.Date != "2025-06-15" {
		t.Errorf("history header mismatch: %+v", h)
	}
	if len(h.Items) != 2 {
		t.Fatalf("history items = %d, want 2", len(h.Items))
	}
	if h.TotalAmount != 2300 {
		t.Errorf("TotalAmount = %d, want 2300", h.TotalAmount)
	}
	if h.MaterialCount != 1 || h.ExpenseCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", h.MaterialCount, h.ExpenseCount)
	}
}

func TestListReceiptHistorySearch(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	first := []ReceiptItem{
		{ID: "1", Name: "塩ビ管", Quantity: 1, Price: 500, Type: ReceiptItemMaterial, Category: "pipes", ProjectName: "田中邸"},
	}
	if _, err := SaveReceipt(app, "コーナン", "", "2025-06-15", first); err != nil {
		t.Fatalf("SaveReceipt: %v", err)
	}
	second := []ReceiptItem{
		{ID: "1", Name: "電線", Quantity: 1, Price: 1200, Type: ReceiptItemMaterial, Category: "electrical"},
	}
	if _, err := SaveReceipt(app, "カインズ", "佐藤様", "2025-06-16", second); err != nil {
		t.Fatalf("SaveReceipt: %v", err)
	}

	all, err := ListReceiptHistory(app, "")
	if err != nil {
		t.Fatalf("ListReceiptHistory: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("history = %d, want 2", len(all))
	}
	// Newest first.
	if all[0].StoreName != "カインズ" {
		t.Errorf("first entry = %q, want カインズ (newest first)", all[0].StoreName)
	}

	tests := []struct {
		query string
		want  string
	}{
		{"コーナン", "コーナン"}, // store name
		{"佐藤", "カインズ"},    // customer name
		{"塩ビ", "コーナン"},    // item name
		{"田中邸", "コーナン"},   // project name
	}
	for _, tt := range tests {
		hits, err := ListReceiptHistory(app, tt.query)
		if err != nil {
			t.Fatalf("ListReceiptHistory(%q): %v", tt.query, err)
		}
		if len(hits) != 1 || hits[0].StoreName != tt.want {
			t.Errorf("query %q: hits = %+v, want one entry from %s", tt.query, hits, tt.want)
		}
	}
}

func TestReceiptHistoryPruning(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for i := 0; i < receiptHistoryLimit+5; i++ {
		items := []ReceiptItem{
			{ID: "1", Name: fmt.Sprintf("材料%d", i), Quantity: 1, Price: 100, Type: ReceiptItemMaterial, Category: "pipes"},
		}
		if _, err := SaveReceipt(app, fmt.Sprintf("店舗%d", i), "", "2025-06-15", items); err != nil {
			t.Fatalf("SaveReceipt #%d: %v", i, err)
		}
	}

	all, err := ListReceiptHistory(app, "")
	if err != nil {
		t.Fatalf("ListReceiptHistory: %v", err)
	}
	if len(all) != receiptHistoryLimit {
		t.Errorf("history = %d, want %d (oldest pruned)", len(all), receiptHistoryLimit)
	}
}

func TestDeleteReceiptHistory(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	items := []ReceiptItem{
		{ID: "1", Name: "塩ビ管", Quantity: 1, Price: 500, Type: ReceiptItemMaterial, Category: "pipes"},
	}
	result, err := SaveReceipt(app, "コーナン", "", "2025-06-15", items)
	if err != nil {
		t.Fatalf("SaveReceipt: %v", err)
	}

	if err := DeleteReceiptHistory(app, result.HistoryID); err != nil {
		t.Fatalf("DeleteReceiptHistory: %v", err)
	}
	if _, err := FindReceiptHistory(app, result.HistoryID); err == nil {
		t.Error("expected not-found after delete")
	}
	if err := DeleteReceiptHistory(app, "missing"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestRecallReceiptHistory(t *testing.T) {
	h := &ReceiptHistory{
		Items: []ReceiptItem{
			{ID: "old-1", Name: "塩ビ管", Quantity: 3, Price: 500, Type: ReceiptItemMaterial, Category: "pipes", ProjectName: "田中邸", Checked: true},
		},
	}

	items := RecallReceiptHistory(h)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].ID == "old-1" || items[0].ID == "" {
		t.Errorf("recalled items need fresh ids, got %q", items[0].ID)
	}
	if items[0].Checked {
		t.Error("recalled items start unchecked")
	}
	if items[0].Name != "塩ビ管" || items[0].ProjectName != "田中邸" {
		t.Errorf("recalled item content mismatch: %+v", items[0])
	}
}
