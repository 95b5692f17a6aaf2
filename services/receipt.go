package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ReceiptItemType classifies a captured receipt line.
type ReceiptItemType string

const (
	ReceiptItemMaterial ReceiptItemType = "material"
	ReceiptItemExpense  ReceiptItemType = "expense"
	ReceiptItemExclude  ReceiptItemType = "exclude"
)

// ParseReceiptItemType maps a raw string to a type, defaulting to material.
func ParseReceiptItemType(s string) ReceiptItemType {
	switch s {
	case string(ReceiptItemExpense):
		return ReceiptItemExpense
	case string(ReceiptItemExclude):
		return ReceiptItemExclude
	}
	return ReceiptItemMaterial
}

// CategoryOption is one entry of the fixed per-type category taxonomy.
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MaterialCategories is the material taxonomy. The first entry is the
// default for newly classified material items.
var MaterialCategories = []CategoryOption{
	{Value: "pipes", Label: "配管材"},
	{Value: "fittings", Label: "継手"},
	{Value: "valves", Label: "バルブ"},
	{Value: "electrical", Label: "電材"},
	{Value: "tools", Label: "工具"},
	{Value: "consumables", Label: "消耗品"},
	{Value: "equipment", Label: "設備機器"},
	{Value: "building", Label: "建材"},
	{Value: "other_material", Label: "その他材料"},
}

// ExpenseCategories is the expense taxonomy. The first entry is the
// default for newly classified expense items.
var ExpenseCategories = []CategoryOption{
	{Value: "travel", Label: "旅費交通費"},
	{Value: "communication", Label: "通信費"},
	{Value: "utilities", Label: "水道光熱費"},
	{Value: "entertainment", Label: "接待交際費"},
	{Value: "supplies", Label: "消耗品費"},
	{Value: "repair", Label: "修繕費"},
	{Value: "insurance", Label: "保険料"},
	{Value: "tax", Label: "租税公課"},
	{Value: "depreciation", Label: "減価償却費"},
	{Value: "welfare", Label: "福利厚生費"},
	{Value: "advertising", Label: "広告宣伝費"},
	{Value: "outsource", Label: "外注費"},
	{Value: "rent", Label: "地代家賃"},
	{Value: "other_expense", Label: "その他経費"},
}

// DefaultCategory returns the first taxonomy entry for the type. Excluded
// items carry no category.
func DefaultCategory(t ReceiptItemType) string {
	switch t {
	case ReceiptItemMaterial:
		return MaterialCategories[0].Value
	case ReceiptItemExpense:
		return ExpenseCategories[0].Value
	}
	return ""
}

// CategoryLabel resolves a category value to its Japanese label, falling
// back to the raw value for anything unknown.
func CategoryLabel(value string) string {
	for _, c := range MaterialCategories {
		if c.Value == value {
			return c.Label
		}
	}
	for _, c := range ExpenseCategories {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// IsExpenseCategory reports whether the value belongs to the expense taxonomy.
func IsExpenseCategory(value string) bool {
	for _, c := range ExpenseCategories {
		if c.Value == value {
			return true
		}
	}
	return false
}

// ReceiptItem is a single line of a captured receipt, pending save.
type ReceiptItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	OriginalName string          `json:"originalName,omitempty"`
	Matched      bool            `json:"matched,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        int             `json:"price"`
	Type         ReceiptItemType `json:"type"`
	Category     string          `json:"category"`
	Checked      bool            `json:"checked,omitempty"`
	ProjectName  string          `json:"projectName,omitempty"`
}

// NewReceiptItem returns a blank material item with quantity 1.
func NewReceiptItem() ReceiptItem {
	return ReceiptItem{
		ID:       uuid.NewString(),
		Quantity: 1,
		Type:     ReceiptItemMaterial,
		Category: DefaultCategory(ReceiptItemMaterial),
	}
}

func itemByID(items []ReceiptItem, id string) *ReceiptItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

// SetItemType reclassifies an item. The category resets to the new type's
// default; a previously chosen category never leaks across types.
func SetItemType(items []ReceiptItem, id string, t ReceiptItemType) bool {
	item := itemByID(items, id)
	if item == nil {
		return false
	}
	item.Type = t
	item.Category = DefaultCategory(t)
	return true
}

// SetItemCategory updates an item's category within its current type.
func SetItemCategory(items []ReceiptItem, id, category string) bool {
	item := itemByID(items, id)
	if item == nil {
		return false
	}
	item.Category = category
	return true
}

// SetItemChecked toggles a single item's selection mark.
func SetItemChecked(items []ReceiptItem, id string, checked bool) bool {
	item := itemByID(items, id)
	if item == nil {
		return false
	}
	item.Checked = checked
	return true
}

// SetAllChecked marks or unmarks every item.
func SetAllChecked(items []ReceiptItem, checked bool) {
	for i := range items {
		items[i].Checked = checked
	}
}

// CheckedIDs returns the ids of the currently marked items.
func CheckedIDs(items []ReceiptItem) []string {
	var ids []string
	for _, item := range items {
		if item.Checked {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// AssignProject sets the project name on the given items and clears their
// selection marks. It returns the number of items updated.
func AssignProject(items []ReceiptItem, ids []string, projectName string) int {
	projectName = strings.TrimSpace(projectName)
	var updated int
	for _, id := range ids {
		item := itemByID(items, id)
		if item == nil {
			continue
		}
		item.ProjectName = projectName
		item.Checked = false
		updated++
	}
	return updated
}

// ClearProjectAssignments removes the project name from the given items.
func ClearProjectAssignments(items []ReceiptItem, ids []string) int {
	var cleared int
	for _, id := range ids {
		item := itemByID(items, id)
		if item == nil || item.ProjectName == "" {
			continue
		}
		item.ProjectName = ""
		cleared++
	}
	return cleared
}

// ClearAllProjectAssignments removes the project name from every item.
func ClearAllProjectAssignments(items []ReceiptItem) int {
	var cleared int
	for i := range items {
		if items[i].ProjectName != "" {
			items[i].ProjectName = ""
			cleared++
		}
	}
	return cleared
}

// ReceiptTotal sums price times quantity over everything not excluded.
func ReceiptTotal(items []ReceiptItem) int {
	var total int
	for _, item := range items {
		if item.Type == ReceiptItemExclude {
			continue
		}
		total += nonNegative(item.Price) * nonNegative(item.Quantity)
	}
	return total
}

// EnsureProject registers a project name in the persisted project list,
// deduplicated by exact name. Empty names are ignored.
func EnsureProject(app *pocketbase.PocketBase, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	existing, err := app.FindRecordsByFilter(
		"projects",
		"name = {:name}",
		"",
		1,
		0,
		map[string]any{"name": name},
	)
	if err == nil && len(existing) > 0 {
		return nil
	}

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("projects collection not found: %w", err)
	}
	record := core.NewRecord(col)
	record.Set("name", name)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// ListProjects returns the registered project names, oldest first.
func ListProjects(app *pocketbase.PocketBase) ([]string, error) {
	records, err := app.FindRecordsByFilter("projects", "id != ''", "created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.GetString("name"))
	}
	return names, nil
}

// SavedMaterial is a material record produced by a receipt save.
type SavedMaterial struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
	ProjectName string `json:"projectName"`
	StoreName   string `json:"storeName"`
	Date        string `json:"date"`
}

func savedMaterialFromRecord(r *core.Record) SavedMaterial {
	return SavedMaterial{
		ID:          r.Id,
		Name:        r.GetString("name"),
		Price:       r.GetInt("price"),
		Quantity:    r.GetInt("quantity"),
		Category:    r.GetString("category"),
		ProjectName: r.GetString("project_name"),
		StoreName:   r.GetString("store_name"),
		Date:        r.GetString("date"),
	}
}

// FindSavedMaterials loads material records by id, preserving order.
// A missing id is an error; reconciliation must not work on a partial set.
func FindSavedMaterials(app *pocketbase.PocketBase, ids []string) ([]SavedMaterial, error) {
	materials := make([]SavedMaterial, 0, len(ids))
	for _, id := range ids {
		record, err := app.FindRecordById("materials", id)
		if err != nil {
			return nil, fmt.Errorf("material %s not found: %w", id, err)
		}
		materials = append(materials, savedMaterialFromRecord(record))
	}
	return materials, nil
}

// ReceiptSaveResult reports what a receipt save produced.
type ReceiptSaveResult struct {
	MaterialCount int             `json:"materialCount"`
	ExpenseCount  int             `json:"expenseCount"`
	Materials     []SavedMaterial `json:"materials"`
	HistoryID     string          `json:"historyId"`
}

// SaveReceipt partitions the items and persists them: excluded items are
// dropped, materials become material records, expenses become expense
// records with price folded to unit price times quantity. The store name
// and at least one named, non-excluded item are required. Every save also
// appends a receipt history record.
func SaveReceipt(app *pocketbase.PocketBase, storeName, customerName, date string, items []ReceiptItem) (*ReceiptSaveResult, error) {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return nil, fmt.Errorf("store name is required")
	}
	if date == "" {
		date = isoDate(time.Now())
	}

	var named int
	for _, item := range items {
		if item.Type != ReceiptItemExclude && strings.TrimSpace(item.Name) != "" {
			named++
		}
	}
	if named == 0 {
		return nil, fmt.Errorf("at least one named item is required")
	}

	result := &ReceiptSaveResult{}

	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		switch item.Type {
		case ReceiptItemMaterial:
			record, err := saveMaterialRecord(app, item, storeName, date)
			if err != nil {
				return nil, err
			}
			result.Materials = append(result.Materials, savedMaterialFromRecord(record))
			result.MaterialCount++
		case ReceiptItemExpense:
			if err := saveExpenseRecord(app, item, storeName, date); err != nil {
				return nil, err
			}
			result.ExpenseCount++
		}
		if item.ProjectName != "" {
			if err := EnsureProject(app, item.ProjectName); err != nil {
				return nil, err
			}
		}
	}

	historyID, err := saveReceiptHistory(app, storeName, customerName, date, items, result)
	if err != nil {
		return nil, err
	}
	result.HistoryID = historyID

	return result, nil
}

func saveMaterialRecord(app *pocketbase.PocketBase, item ReceiptItem, storeName, date string) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return nil, fmt.Errorf("materials collection not found: %w", err)
	}
	record := core.NewRecord(col)
	record.Set("name", item.Name)
	record.Set("price", nonNegative(item.Price))
	record.Set("quantity", nonNegative(item.Quantity))
	record.Set("category", item.Category)
	record.Set("project_name", item.ProjectName)
	record.Set("store_name", storeName)
	record.Set("date", date)
	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("save material: %w", err)
	}
	return record, nil
}

func saveExpenseRecord(app *pocketbase.PocketBase, item ReceiptItem, storeName, date string) error {
	col, err := app.FindCollectionByNameOrId("expenses")
	if err != nil {
		return fmt.Errorf("expenses collection not found: %w", err)
	}
	record := core.NewRecord(col)
	record.Set("name", item.Name)
	// Expenses are stored as line totals, not unit prices
	record.Set("price", nonNegative(item.Price)*nonNegative(item.Quantity))
	record.Set("category", item.Category)
	record.Set("project_name", item.ProjectName)
	record.Set("store_name", storeName)
	record.Set("date", date)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save expense: %w", err)
	}
	return nil
}
