package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Only the most recent receipts are kept; older history is pruned on save.
const receiptHistoryLimit = 100

// ReceiptHistory is one archived receipt save, recallable back into a
// fresh pending item list.
type ReceiptHistory struct {
	ID            string        `json:"id"`
	StoreName     string        `json:"storeName"`
	CustomerName  string        `json:"customerName"`
	Date          string        `json:"date"`
	Items         []ReceiptItem `json:"items"`
	TotalAmount   int           `json:"totalAmount"`
	MaterialCount int           `json:"materialCount"`
	ExpenseCount  int           `json:"expenseCount"`
	Created       string        `json:"created"`
}

func receiptHistoryFromRecord(r *core.Record) (ReceiptHistory, error) {
	h := ReceiptHistory{
		ID:            r.Id,
		StoreName:     r.GetString("store_name"),
		CustomerName:  r.GetString("customer_name"),
		Date:          r.GetString("date"),
		TotalAmount:   r.GetInt("total_amount"),
		MaterialCount: r.GetInt("material_count"),
		ExpenseCount:  r.GetInt("expense_count"),
		Created:       r.GetDateTime("created").String(),
	}
	if raw := r.GetString("items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &h.Items); err != nil {
			return h, fmt.Errorf("decode history items: %w", err)
		}
	}
	return h, nil
}

func saveReceiptHistory(app *pocketbase.PocketBase, storeName, customerName, date string, items []ReceiptItem, result *ReceiptSaveResult) (string, error) {
	col, err := app.FindCollectionByNameOrId("receipt_history")
	if err != nil {
		return "", fmt.Errorf("receipt_history collection not found: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("store_name", storeName)
	record.Set("customer_name", customerName)
	record.Set("date", date)
	record.Set("items", items)
	record.Set("total_amount", ReceiptTotal(items))
	record.Set("material_count", result.MaterialCount)
	record.Set("expense_count", result.ExpenseCount)
	if err := app.Save(record); err != nil {
		return "", fmt.Errorf("save receipt history: %w", err)
	}

	if err := pruneReceiptHistory(app); err != nil {
		return "", err
	}
	return record.Id, nil
}

// pruneReceiptHistory deletes the oldest records past the retention limit.
func pruneReceiptHistory(app *pocketbase.PocketBase) error {
	records, err := app.FindRecordsByFilter("receipt_history", "id != ''", "-created", 0, 0)
	if err != nil {
		return fmt.Errorf("list receipt history: %w", err)
	}
	for i := receiptHistoryLimit; i < len(records); i++ {
		if err := app.Delete(records[i]); err != nil {
			return fmt.Errorf("prune receipt history: %w", err)
		}
	}
	return nil
}

// ListReceiptHistory returns archived receipts newest first, optionally
// filtered by a query matched against store, customer, item and project
// names.
func ListReceiptHistory(app *pocketbase.PocketBase, query string) ([]ReceiptHistory, error) {
	records, err := app.FindRecordsByFilter("receipt_history", "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list receipt history: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var history []ReceiptHistory
	for _, record := range records {
		h, err := receiptHistoryFromRecord(record)
		if err != nil {
			return nil, err
		}
		if query != "" && !historyMatches(h, query) {
			continue
		}
		history = append(history, h)
	}
	return history, nil
}

func historyMatches(h ReceiptHistory, query string) bool {
	if strings.Contains(strings.ToLower(h.StoreName), query) ||
		strings.Contains(strings.ToLower(h.CustomerName), query) {
		return true
	}
	for _, item := range h.Items {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.ProjectName), query) {
			return true
		}
	}
	return false
}

// FindReceiptHistory loads one archived receipt by id.
func FindReceiptHistory(app *pocketbase.PocketBase, id string) (*ReceiptHistory, error) {
	record, err := app.FindRecordById("receipt_history", id)
	if err != nil {
		return nil, fmt.Errorf("receipt history not found: %w", err)
	}
	h, err := receiptHistoryFromRecord(record)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteReceiptHistory removes one archived receipt.
func DeleteReceiptHistory(app *pocketbase.PocketBase, id string) error {
	record, err := app.FindRecordById("receipt_history", id)
	if err != nil {
		return fmt.Errorf("receipt history not found: %w", err)
	}
	if err := app.Delete(record); err != nil {
		return fmt.Errorf("delete receipt history: %w", err)
	}
	return nil
}

// RecallReceiptHistory converts an archived receipt back into a fresh
// pending item list with new ids and cleared selection marks.
func RecallReceiptHistory(h *ReceiptHistory) []ReceiptItem {
	items := make([]ReceiptItem, len(h.Items))
	for i, item := range h.Items {
		fresh := NewReceiptItem()
		fresh.Name = item.Name
		fresh.OriginalName = item.OriginalName
		fresh.Matched = item.Matched
		fresh.Quantity = item.Quantity
		fresh.Price = item.Price
		fresh.Type = item.Type
		fresh.Category = item.Category
		fresh.ProjectName = item.ProjectName
		items[i] = fresh
	}
	return items
}
