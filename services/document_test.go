package services

import (
	"testing"
	"time"

	"github.com/akiyamanx/CULOchanKAIKEIpro/testhelpers"
)

func testTime() time.Time {
	return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func TestNewDocumentSeedsBlankLines(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())

	if d.Status != StatusDraft {
		t.Errorf("Status = %q, want draft", d.Status)
	}
	if d.Date != "2025-06-15" {
		t.Errorf("Date = %q, want 2025-06-15", d.Date)
	}
	if d.ValidUntil != "2025-07-15" {
		t.Errorf("ValidUntil = %q, want 2025-07-15", d.ValidUntil)
	}
	if len(d.Materials) != 1 || d.Materials[0].Name != "" {
		t.Fatalf("expected one blank material line, got %+v", d.Materials)
	}
	if d.Materials[0].Quantity != 1 {
		t.Errorf("seed material quantity = %d, want 1", d.Materials[0].Quantity)
	}
	if d.Materials[0].ProfitRate != 20 {
		t.Errorf("seed material profit rate = %d, want 20", d.Materials[0].ProfitRate)
	}
	if len(d.Works) != 1 || d.Works[0].Unit != "式" {
		t.Fatalf("expected one blank construction work line, got %+v", d.Works)
	}
	if d.WorkMode != WorkModeConstruction {
		t.Errorf("WorkMode = %q, want construction", d.WorkMode)
	}
	if d.Totals.Total != 0 {
		t.Errorf("fresh document total = %d, want 0", d.Totals.Total)
	}
}

func TestNewInvoiceDueDate(t *testing.T) {
	s := DefaultSettings() // 翌月末
	d := NewDocument(DocumentKindInvoice, s, testTime())

	if d.DueDate != "2025-07-31" {
		t.Errorf("DueDate = %q, want 2025-07-31", d.DueDate)
	}
	if d.ValidUntil != "" {
		t.Errorf("invoice should not carry ValidUntil, got %q", d.ValidUntil)
	}
}

func TestSetMaterialCostPriceRecomputesSelling(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())
	id := d.Materials[0].ID
	d.SetMaterialName(id, "塩ビ管")

	d.SetMaterialCostPrice(id, 500)

	if got := d.Materials[0].SellingPrice; got != 600 {
		t.Errorf("SellingPrice = %d, want 600", got)
	}
	if d.Totals.MaterialSubtotal != 600 {
		t.Errorf("MaterialSubtotal = %d, want 600", d.Totals.MaterialSubtotal)
	}
}

func TestSetMaterialProfitRateForward(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())
	id := d.Materials[0].ID
	d.SetMaterialName(id, "塩ビ管")
	d.SetMaterialCostPrice(id, 1000)

	d.SetMaterialProfitRate(id, 15)

	if got := d.Materials[0].SellingPrice; got != 1150 {
		t.Errorf("SellingPrice = %d, want 1150", got)
	}
}

func TestSetMaterialProfitRateBackDerivesCost(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())
	id := d.Materials[0].ID
	d.SetMaterialName(id, "特注部材")

	// Selling entered directly, no cost price on record.
	d.SetMaterialSellingPrice(id, 600)
	d.SetMaterialProfitRate(id, 20)

	if got := d.Materials[0].CostPrice; got != 500 {
		t.Errorf("CostPrice = %d, want 500 (back-derived)", got)
	}
	if got := d.Materials[0].SellingPrice; got != 600 {
		t.Errorf("SellingPrice = %d, want 600 (untouched)", got)
	}
}

func TestSetMaterialSellingPriceNeverReconciles(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())
	id := d.Materials[0].ID
	d.SetMaterialName(id, "塩ビ管")
	d.SetMaterialCostPrice(id, 500) // selling 600

	d.SetMaterialSellingPrice(id, 1000)

	m := d.Materials[0]
	if m.CostPrice != 500 || m.ProfitRate != 20 {
		t.Errorf("direct selling edit must not touch cost/rate, got cost=%d rate=%d", m.CostPrice, m.ProfitRate)
	}
	if m.SellingPrice != 1000 {
		t.Errorf("SellingPrice = %d, want 1000", m.SellingPrice)
	}
}

func TestApplyBulkProfitRate(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())
	id1 := d.Materials[0].ID
	d.SetMaterialName(id1, "塩ビ管")
	d.SetMaterialCostPrice(id1, 500)
	line2 := d.AddMaterialLine(s.DefaultProfitRate)
	id2 := line2.ID
	d.SetMaterialName(id2, "特注部材")
	d.SetMaterialSellingPrice(id2, 800) // no cost price

	d.ApplyBulkProfitRate(30)

	if got := d.Materials[0].SellingPrice; got != 650 {
		t.Errorf("line1 SellingPrice = %d, want 650", got)
	}
	if got := d.Materials[0].CostPrice; got != 500 {
		t.Errorf("line1 CostPrice = %d, want 500 (preserved)", got)
	}
	if got := d.Materials[1].SellingPrice; got != 800 {
		t.Errorf("line2 SellingPrice = %d, want 800 (no cost price, untouched)", got)
	}
	if d.Materials[0].ProfitRate != 30 || d.Materials[1].ProfitRate != 30 {
		t.Errorf("bulk rate not applied to every line: %+v", d.Materials)
	}
}

func TestSetWorkModeResetsLines(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())
	id := d.Works[0].ID
	d.SetWorkName(id, "配管作業")

	d.SetWorkMode(WorkModeDaily, s.DailyRate)

	w := d.Works[0]
	if w.ID != id || w.Name != "配管作業" {
		t.Errorf("id and name must survive the reset, got %+v", w)
	}
	if w.Unit != "日" || w.Value != 18000 || w.Quantity != 1 {
		t.Errorf("daily defaults not applied, got %+v", w)
	}

	// And back: entered values are destroyed, only structure survives.
	d.SetWorkQuantity(id, 3)
	d.SetWorkMode(WorkModeConstruction, s.DailyRate)

	w = d.Works[0]
	if w.Unit != "式" || w.Value != 0 || w.Quantity != 0 {
		t.Errorf("construction defaults not applied, got %+v", w)
	}
	if d.Totals.WorkSubtotal != 0 {
		t.Errorf("work subtotal after reset = %d, want 0", d.Totals.WorkSubtotal)
	}
}

func TestSetWorkModeSameModeIsNoOp(t *testing.T) {
	s := DefaultSettings()
	d := NewDocument(DocumentKindEstimate, s, testTime())
	id := d.Works[0].ID
	d.SetWorkName(id, "配管工事")
	d.SetWorkValue(id, 50000)

	d.SetWorkMode(WorkModeConstruction, s.DailyRate)

	if d.Works[0].Value != 50000 {
		t.Errorf("same-mode switch must not reset lines, got %+v", d.Works[0])
	}
}

func TestValidateForExport(t *testing.T) {
	s := DefaultSettings()

	d := NewDocument(DocumentKindEstimate, s, testTime())
	if err := d.ValidateForExport(); err == nil {
		t.Error("expected error for missing customer name")
	}

	d.CustomerName = "田中様"
	if err := d.ValidateForExport(); err == nil {
		t.Error("expected error for missing subject")
	}

	d.Subject = "浴室リフォーム工事"
	if err := d.ValidateForExport(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSaveAndFindDocument(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := DefaultSettings()

	d := NewDocument(DocumentKindEstimate, s, testTime())
	d.CustomerName = "田中様"
	d.Subject = "浴室リフォーム工事"
	id := d.Materials[0].ID
	d.SetMaterialName(id, "塩ビ管")
	d.SetMaterialQuantity(id, 3)
	d.SetMaterialCostPrice(id, 500)

	if _, err := SaveDocument(app, d); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected document id after save")
	}

	loaded, err := FindDocument(app, DocumentKindEstimate, d.ID)
	if err != nil {
		t.Fatalf("FindDocument: %v", err)
	}
	if loaded.CustomerName != "田中様" || loaded.Subject != "浴室リフォーム工事" {
		t.Errorf("loaded header mismatch: %+v", loaded)
	}
	if len(loaded.Materials) != 1 || loaded.Materials[0].SellingPrice != 600 {
		t.Errorf("loaded materials mismatch: %+v", loaded.Materials)
	}
	if loaded.Totals.MaterialSubtotal != 1800 {
		t.Errorf("loaded MaterialSubtotal = %d, want 1800", loaded.Totals.MaterialSubtotal)
	}
}

func TestListDocumentsSearch(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := DefaultSettings()

	d1 := NewDocument(DocumentKindEstimate, s, testTime())
	d1.CustomerName = "田中様"
	d1.Subject = "浴室リフォーム"
	if _, err := SaveDocument(app, d1); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	d2 := NewDocument(DocumentKindEstimate, s, testTime())
	d2.CustomerName = "佐藤様"
	d2.Subject = "外壁塗装"
	if _, err := SaveDocument(app, d2); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	all, err := ListDocuments(app, DocumentKindEstimate, "")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}

	hits, err := ListDocuments(app, DocumentKindEstimate, "浴室")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(hits) != 1 || hits[0].CustomerName != "田中様" {
		t.Errorf("search hits = %+v, want only 田中様", hits)
	}
}

func TestCompleteDocumentAppendsSnapshot(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := DefaultSettings()

	d := NewDocument(DocumentKindEstimate, s, testTime())
	d.CustomerName = "田中様"
	d.Subject = "浴室リフォーム工事"
	id := d.Materials[0].ID
	d.SetMaterialName(id, "塩ビ管")
	d.SetMaterialCostPrice(id, 500)
	if _, err := SaveDocument(app, d); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	snapshot, err := CompleteDocument(app, d, testTime())
	if err != nil {
		t.Fatalf("CompleteDocument: %v", err)
	}

	if snapshot.ID == d.ID {
		t.Error("snapshot must be a new record, not the draft")
	}
	if snapshot.Status != StatusCompleted {
		t.Errorf("snapshot status = %q, want completed", snapshot.Status)
	}
	if snapshot.Number != "E-2025-0001" {
		t.Errorf("snapshot number = %q, want E-2025-0001", snapshot.Number)
	}

	// The draft stays a draft.
	draft, err := FindDocument(app, DocumentKindEstimate, d.ID)
	if err != nil {
		t.Fatalf("FindDocument: %v", err)
	}
	if draft.Status != StatusDraft {
		t.Errorf("draft status = %q, want draft", draft.Status)
	}
}

func TestCompleteDocumentValidates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := DefaultSettings()

	d := NewDocument(DocumentKindEstimate, s, testTime())
	if _, err := CompleteDocument(app, d, testTime()); err == nil {
		t.Fatal("expected validation error")
	}

	// Nothing was persisted.
	all, err := ListDocuments(app, DocumentKindEstimate, "")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len(all) = %d, want 0", len(all))
	}
}
