package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// DocumentKind distinguishes estimates from invoices.
type DocumentKind string

const (
	DocumentKindEstimate DocumentKind = "estimate"
	DocumentKindInvoice  DocumentKind = "invoice"
)

// ParseDocumentKind maps a raw string to a DocumentKind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch s {
	case string(DocumentKindEstimate), "estimates":
		return DocumentKindEstimate, nil
	case string(DocumentKindInvoice), "invoices":
		return DocumentKindInvoice, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Collection returns the PocketBase collection name for the kind.
func (k DocumentKind) Collection() string {
	if k == DocumentKindInvoice {
		return "invoices"
	}
	return "estimates"
}

// NumberPrefix returns the document number prefix letter ("E" or "I").
func (k DocumentKind) NumberPrefix() string {
	if k == DocumentKindInvoice {
		return "I"
	}
	return "E"
}

// Title returns the Japanese document title used on exports.
func (k DocumentKind) Title() string {
	if k == DocumentKindInvoice {
		return "請求書"
	}
	return "見積書"
}

// Document statuses. Completed documents are immutable snapshots.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

// MaterialLine is a single material row. Estimates use the
// cost/profit/selling triple; invoices use the flat Price field.
type MaterialLine struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	CostPrice    int    `json:"costPrice,omitempty"`
	ProfitRate   int    `json:"profitRate,omitempty"`
	SellingPrice int    `json:"sellingPrice,omitempty"`
	Price        int    `json:"price,omitempty"`
	FromReceipt  bool   `json:"fromReceipt,omitempty"`
}

func (m MaterialLine) hasName() bool {
	return strings.TrimSpace(m.Name) != ""
}

// UnitPrice returns the effective unit price: the selling price if set,
// the flat price otherwise, zero when neither is set.
func (m MaterialLine) UnitPrice() int {
	if m.SellingPrice > 0 {
		return m.SellingPrice
	}
	if m.Price > 0 {
		return m.Price
	}
	return 0
}

// Amount returns quantity times unit price. Unnamed lines contribute nothing.
func (m MaterialLine) Amount() int {
	if !m.hasName() {
		return 0
	}
	return nonNegative(m.Quantity) * m.UnitPrice()
}

// WorkLine is a single work row. Its pricing depends on the owning
// document's work mode.
type WorkLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Value    int    `json:"value"`
	Quantity int    `json:"quantity"`
}

func (w WorkLine) hasName() bool {
	return strings.TrimSpace(w.Name) != ""
}

// Amount returns the priced amount of the line under the given mode.
// Construction lines are lump sums; daily lines multiply by quantity,
// with a missing quantity treated as one day.
func (w WorkLine) Amount(mode WorkMode) int {
	value := nonNegative(w.Value)
	if mode != WorkModeDaily {
		return value
	}
	qty := w.Quantity
	if qty < 1 {
		qty = 1
	}
	return qty * value
}

// Document is the estimate/invoice aggregate. Line mutations go through
// the setter methods so totals are recomputed before every persist.
type Document struct {
	ID           string
	Kind         DocumentKind
	Number       string
	Status       string
	CustomerName string
	Subject      string
	Date         string // YYYY-MM-DD
	ValidUntil   string // estimates only
	DueDate      string // invoices only
	Notes        string
	WorkMode     WorkMode
	TaxRate      int
	Materials    []MaterialLine
	Works        []WorkLine
	Totals       DocumentTotals
}

// NewDocument creates a draft seeded with one blank material line and one
// blank work line, dated today, with dates and rates from settings.
func NewDocument(kind DocumentKind, s Settings, now time.Time) *Document {
	d := &Document{
		Kind:     kind,
		Status:   StatusDraft,
		Date:     isoDate(now),
		WorkMode: WorkModeConstruction,
		TaxRate:  s.TaxRate,
	}
	if kind == DocumentKindInvoice {
		d.DueDate = isoDate(DueDateFor(s.PaymentTerms, now))
	} else {
		d.ValidUntil = isoDate(now.AddDate(0, 0, s.EstimateValidDays))
	}
	d.AddMaterialLine(s.DefaultProfitRate)
	d.AddWorkLine(s.DailyRate)
	return d
}

// Recalculate refreshes the derived totals from the current lines.
func (d *Document) Recalculate() {
	d.Totals = ComputeTotals(d.Materials, d.Works, d.WorkMode, d.TaxRate)
}

// AddMaterialLine appends a blank material line with quantity 1 and the
// given default profit rate, and returns a pointer to it.
func (d *Document) AddMaterialLine(defaultProfitRate int) *MaterialLine {
	d.Materials = append(d.Materials, MaterialLine{
		ID:         uuid.NewString(),
		Quantity:   1,
		ProfitRate: nonNegative(defaultProfitRate),
	})
	d.Recalculate()
	return &d.Materials[len(d.Materials)-1]
}

// RemoveMaterialLine deletes the line with the given id.
func (d *Document) RemoveMaterialLine(id string) bool {
	for i, m := range d.Materials {
		if m.ID == id {
			d.Materials = append(d.Materials[:i], d.Materials[i+1:]...)
			d.Recalculate()
			return true
		}
	}
	return false
}

func (d *Document) materialByID(id string) *MaterialLine {
	for i := range d.Materials {
		if d.Materials[i].ID == id {
			return &d.Materials[i]
		}
	}
	return nil
}

// SetMaterialName updates the line name.
func (d *Document) SetMaterialName(id, name string) bool {
	m := d.materialByID(id)
	if m == nil {
		return false
	}
	m.Name = name
	d.Recalculate()
	return true
}

// SetMaterialQuantity updates the line quantity. Negative values coerce to 0.
func (d *Document) SetMaterialQuantity(id string, qty int) bool {
	m := d.materialByID(id)
	if m == nil {
		return false
	}
	m.Quantity = nonNegative(qty)
	d.Recalculate()
	return true
}

// SetMaterialCostPrice updates the cost price and, when the new cost is
// positive, recomputes the selling price from the markup.
func (d *Document) SetMaterialCostPrice(id string, price int) bool {
	m := d.materialByID(id)
	if m == nil {
		return false
	}
	m.CostPrice = nonNegative(price)
	if m.CostPrice > 0 {
		m.SellingPrice = SellingFromCost(m.CostPrice, m.ProfitRate)
	}
	d.Recalculate()
	return true
}

// SetMaterialProfitRate updates the profit rate. With a positive cost price
// the selling price follows the markup; with no cost price but a selling
// price already entered the cost price is back-derived instead.
func (d *Document) SetMaterialProfitRate(id string, rate int) bool {
	m := d.materialByID(id)
	if m == nil {
		return false
	}
	m.ProfitRate = nonNegative(rate)
	if m.CostPrice > 0 {
		m.SellingPrice = SellingFromCost(m.CostPrice, m.ProfitRate)
	} else if m.SellingPrice > 0 {
		m.CostPrice = CostFromSelling(m.SellingPrice, m.ProfitRate)
	}
	d.Recalculate()
	return true
}

// SetMaterialSellingPrice sets the selling price directly. Cost price and
// profit rate are left alone; direct edits are never reconciled back.
func (d *Document) SetMaterialSellingPrice(id string, price int) bool {
	m := d.materialByID(id)
	if m == nil {
		return false
	}
	m.SellingPrice = nonNegative(price)
	d.Recalculate()
	return true
}

// SetMaterialPrice sets the flat unit price used by invoice lines.
func (d *Document) SetMaterialPrice(id string, price int) bool {
	m := d.materialByID(id)
	if m == nil {
		return false
	}
	m.Price = nonNegative(price)
	d.Recalculate()
	return true
}

// ApplyBulkProfitRate rewrites every line's profit rate and recomputes the
// selling prices forward. Cost prices are preserved; lines without a cost
// price keep their selling price.
func (d *Document) ApplyBulkProfitRate(rate int) {
	rate = nonNegative(rate)
	for i := range d.Materials {
		d.Materials[i].ProfitRate = rate
		if d.Materials[i].CostPrice > 0 {
			d.Materials[i].SellingPrice = SellingFromCost(d.Materials[i].CostPrice, rate)
		}
	}
	d.Recalculate()
}

// AddWorkLine appends a blank work line with the current mode's defaults
// and returns a pointer to it.
func (d *Document) AddWorkLine(dailyRate int) *WorkLine {
	line := WorkLine{ID: uuid.NewString()}
	applyWorkModeDefaults(&line, d.WorkMode, dailyRate)
	d.Works = append(d.Works, line)
	d.Recalculate()
	return &d.Works[len(d.Works)-1]
}

// RemoveWorkLine deletes the work line with the given id.
func (d *Document) RemoveWorkLine(id string) bool {
	for i, w := range d.Works {
		if w.ID == id {
			d.Works = append(d.Works[:i], d.Works[i+1:]...)
			d.Recalculate()
			return true
		}
	}
	return false
}

func (d *Document) workByID(id string) *WorkLine {
	for i := range d.Works {
		if d.Works[i].ID == id {
			return &d.Works[i]
		}
	}
	return nil
}

// SetWorkName updates a work line name.
func (d *Document) SetWorkName(id, name string) bool {
	w := d.workByID(id)
	if w == nil {
		return false
	}
	w.Name = name
	d.Recalculate()
	return true
}

// SetWorkUnit updates a work line unit label.
func (d *Document) SetWorkUnit(id, unit string) bool {
	w := d.workByID(id)
	if w == nil {
		return false
	}
	w.Unit = unit
	d.Recalculate()
	return true
}

// SetWorkValue updates a work line amount (lump sum or day rate).
func (d *Document) SetWorkValue(id string, value int) bool {
	w := d.workByID(id)
	if w == nil {
		return false
	}
	w.Value = nonNegative(value)
	d.Recalculate()
	return true
}

// SetWorkQuantity updates a daily work line's day count.
func (d *Document) SetWorkQuantity(id string, qty int) bool {
	w := d.workByID(id)
	if w == nil {
		return false
	}
	w.Quantity = nonNegative(qty)
	d.Recalculate()
	return true
}

// SetWorkMode switches the pricing mode and destructively resets every
// work line to the new mode's defaults. Names and ids survive, entered
// values do not. Switching to the current mode is a no-op.
func (d *Document) SetWorkMode(mode WorkMode, dailyRate int) {
	if mode == d.WorkMode {
		return
	}
	d.WorkMode = mode
	d.Works = ResetWorkLines(d.Works, mode, dailyRate)
	d.Recalculate()
}

// ResetWorkLines replaces every line with a same-id, same-name line
// carrying the mode defaults: construction lines become lump sums
// (value 0, unit 式), daily lines get the day rate, unit 日 and one day.
func ResetWorkLines(works []WorkLine, mode WorkMode, dailyRate int) []WorkLine {
	reset := make([]WorkLine, len(works))
	for i, w := range works {
		line := WorkLine{ID: w.ID, Name: w.Name}
		applyWorkModeDefaults(&line, mode, dailyRate)
		reset[i] = line
	}
	return reset
}

func applyWorkModeDefaults(w *WorkLine, mode WorkMode, dailyRate int) {
	if mode == WorkModeDaily {
		w.Unit = "日"
		w.Value = nonNegative(dailyRate)
		w.Quantity = 1
		return
	}
	w.Unit = "式"
	w.Value = 0
	w.Quantity = 0
}

// ValidateForExport checks the fields required before a document can be
// completed and rendered.
func (d *Document) ValidateForExport() error {
	if strings.TrimSpace(d.CustomerName) == "" {
		return fmt.Errorf("customer name is required")
	}
	if strings.TrimSpace(d.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	return nil
}

// DocumentFromRecord maps a stored record back into the aggregate.
func DocumentFromRecord(record *core.Record, kind DocumentKind) (*Document, error) {
	d := &Document{
		ID:           record.Id,
		Kind:         kind,
		Number:       record.GetString("number"),
		Status:       record.GetString("status"),
		CustomerName: record.GetString("customer_name"),
		Subject:      record.GetString("subject"),
		Date:         record.GetString("date"),
		ValidUntil:   record.GetString("valid_until"),
		DueDate:      record.GetString("due_date"),
		Notes:        record.GetString("notes"),
		WorkMode:     ParseWorkMode(record.GetString("work_mode")),
		TaxRate:      record.GetInt("tax_rate"),
	}
	if raw := record.GetString("materials"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d.Materials); err != nil {
			return nil, fmt.Errorf("decode materials: %w", err)
		}
	}
	if raw := record.GetString("works"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d.Works); err != nil {
			return nil, fmt.Errorf("decode works: %w", err)
		}
	}
	d.Recalculate()
	return d, nil
}

// FindDocument loads a document by id.
func FindDocument(app *pocketbase.PocketBase, kind DocumentKind, id string) (*Document, error) {
	record, err := app.FindRecordById(kind.Collection(), id)
	if err != nil {
		return nil, fmt.Errorf("document not found: %w", err)
	}
	return DocumentFromRecord(record, kind)
}

// SaveDocument persists the aggregate, recomputing totals first. Documents
// without an id are created; existing ones are replaced whole.
func SaveDocument(app *pocketbase.PocketBase, d *Document) (*core.Record, error) {
	d.Recalculate()

	var record *core.Record
	if d.ID != "" {
		existing, err := app.FindRecordById(d.Kind.Collection(), d.ID)
		if err != nil {
			return nil, fmt.Errorf("document not found: %w", err)
		}
		record = existing
	} else {
		col, err := app.FindCollectionByNameOrId(d.Kind.Collection())
		if err != nil {
			return nil, fmt.Errorf("collection not found: %w", err)
		}
		record = core.NewRecord(col)
	}

	record.Set("number", d.Number)
	record.Set("status", d.Status)
	record.Set("customer_name", d.CustomerName)
	record.Set("subject", d.Subject)
	record.Set("date", d.Date)
	record.Set("valid_until", d.ValidUntil)
	record.Set("due_date", d.DueDate)
	record.Set("notes", d.Notes)
	record.Set("work_mode", string(d.WorkMode))
	record.Set("tax_rate", d.TaxRate)
	record.Set("materials", d.Materials)
	record.Set("works", d.Works)
	record.Set("material_subtotal", d.Totals.MaterialSubtotal)
	record.Set("work_subtotal", d.Totals.WorkSubtotal)
	record.Set("subtotal", d.Totals.Subtotal)
	record.Set("tax", d.Totals.Tax)
	record.Set("total", d.Totals.Total)

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	d.ID = record.Id
	return record, nil
}

// DeleteDocument removes a document by id.
func DeleteDocument(app *pocketbase.PocketBase, kind DocumentKind, id string) error {
	record, err := app.FindRecordById(kind.Collection(), id)
	if err != nil {
		return fmt.Errorf("document not found: %w", err)
	}
	if err := app.Delete(record); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// ListDocuments returns documents newest first, optionally filtered by a
// query matched against customer name, subject and document number.
func ListDocuments(app *pocketbase.PocketBase, kind DocumentKind, query string) ([]*Document, error) {
	records, err := app.FindRecordsByFilter(kind.Collection(), "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var docs []*Document
	for _, record := range records {
		d, err := DocumentFromRecord(record, kind)
		if err != nil {
			return nil, err
		}
		if query != "" && !documentMatches(d, query) {
			continue
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func documentMatches(d *Document, query string) bool {
	return strings.Contains(strings.ToLower(d.CustomerName), query) ||
		strings.Contains(strings.ToLower(d.Subject), query) ||
		strings.Contains(strings.ToLower(d.Number), query)
}

// CompleteDocument validates the draft and appends a freshly numbered
// completed copy to storage. The draft itself is left untouched; the copy
// is an immutable snapshot.
func CompleteDocument(app *pocketbase.PocketBase, d *Document, now time.Time) (*Document, error) {
	if err := d.ValidateForExport(); err != nil {
		return nil, err
	}

	snapshot := *d
	snapshot.ID = ""
	snapshot.Number = NextDocumentNumber(app, d.Kind, now)
	snapshot.Status = StatusCompleted
	snapshot.Materials = append([]MaterialLine(nil), d.Materials...)
	snapshot.Works = append([]WorkLine(nil), d.Works...)

	if _, err := SaveDocument(app, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}
