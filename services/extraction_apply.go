package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
)

// ApplyExtraction converts an extraction result into a fresh pending item
// list, canonicalizing names against the product master. The caller
// replaces its pending list only on success; an empty or nil result is an
// error and must leave the previous list untouched.
func ApplyExtraction(app *pocketbase.PocketBase, result *ExtractionResult) ([]ReceiptItem, error) {
	if result == nil || len(result.Items) == 0 {
		return nil, fmt.Errorf("no items extracted")
	}

	items := make([]ReceiptItem, 0, len(result.Items))
	for _, extracted := range result.Items {
		name := strings.TrimSpace(extracted.Name)
		if name == "" {
			continue
		}

		item := ReceiptItem{
			ID:           uuid.NewString(),
			Name:         name,
			OriginalName: name,
			Quantity:     extracted.Quantity,
			Price:        nonNegative(extracted.Price),
			Type:         ReceiptItemMaterial,
			Category:     "other_material",
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}

		if product, ok := FindMatchingProduct(app, name); ok {
			item.Name = product.OfficialName
			item.Matched = true
			item.Category = product.Category
			if IsExpenseCategory(product.Category) {
				item.Type = ReceiptItemExpense
			}
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no items extracted")
	}
	return items, nil
}
