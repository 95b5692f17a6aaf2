// Package services implements the billing domain: document totals, markup
// pricing, numbering, receipt classification, reconciliation and exports.
package services

// WorkMode selects how work lines are priced on a document.
type WorkMode string

const (
	WorkModeConstruction WorkMode = "construction"
	WorkModeDaily        WorkMode = "daily"
)

// ParseWorkMode maps a raw string to a WorkMode, defaulting to construction.
func ParseWorkMode(s string) WorkMode {
	if s == string(WorkModeDaily) {
		return WorkModeDaily
	}
	return WorkModeConstruction
}

// DocumentTotals holds the derived money fields of a document.
// All amounts are integer yen.
type DocumentTotals struct {
	MaterialSubtotal int `json:"materialSubtotal"`
	WorkSubtotal     int `json:"workSubtotal"`
	Subtotal         int `json:"subtotal"`
	TaxRate          int `json:"taxRate"`
	Tax              int `json:"tax"`
	Total            int `json:"total"`
}

// SellingFromCost computes the selling price for a cost price and profit
// rate percentage, rounding up so the margin is never undercut.
// ceil(cost * (1 + rate/100)) in integer arithmetic.
func SellingFromCost(costPrice, profitRate int) int {
	costPrice = nonNegative(costPrice)
	profitRate = nonNegative(profitRate)
	return (costPrice*(100+profitRate) + 99) / 100
}

// CostFromSelling back-derives the cost price from a selling price and
// profit rate percentage, rounding down.
// floor(selling / (1 + rate/100)) in integer arithmetic.
func CostFromSelling(sellingPrice, profitRate int) int {
	sellingPrice = nonNegative(sellingPrice)
	profitRate = nonNegative(profitRate)
	return sellingPrice * 100 / (100 + profitRate)
}

// ComputeTotals derives all document totals from the current line items.
// Material lines with an empty name contribute nothing. Tax rounds down.
func ComputeTotals(materials []MaterialLine, works []WorkLine, mode WorkMode, taxRate int) DocumentTotals {
	taxRate = nonNegative(taxRate)

	var materialSubtotal int
	for _, m := range materials {
		materialSubtotal += m.Amount()
	}

	var workSubtotal int
	for _, w := range works {
		workSubtotal += w.Amount(mode)
	}

	subtotal := materialSubtotal + workSubtotal
	tax := subtotal * taxRate / 100

	return DocumentTotals{
		MaterialSubtotal: materialSubtotal,
		WorkSubtotal:     workSubtotal,
		Subtotal:         subtotal,
		TaxRate:          taxRate,
		Tax:              tax,
		Total:            subtotal + tax,
	}
}

// CostBreakdown reports the material cost subtotal and the profit subtotal
// (selling minus cost) for estimate lines.
func CostBreakdown(materials []MaterialLine) (cost, profit int) {
	for _, m := range materials {
		if !m.hasName() {
			continue
		}
		qty := nonNegative(m.Quantity)
		cost += qty * nonNegative(m.CostPrice)
		profit += qty * (m.UnitPrice() - nonNegative(m.CostPrice))
	}
	return cost, profit
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
