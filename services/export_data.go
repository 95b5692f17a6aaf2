package services

import (
	"fmt"
	"strings"
)

// Export row kinds.
const (
	ExportRowSection  = "section"
	ExportRowItem     = "item"
	ExportRowSubtotal = "subtotal"
)

// ExportRow is one printable line of a document table.
type ExportRow struct {
	Kind      string
	No        int
	Name      string
	Quantity  string
	UnitPrice string
	Amount    string
}

// ExportData is everything the PDF and Excel renderers need, flattened
// from a document and the settings snapshot.
type ExportData struct {
	Title        string
	Number       string
	Date         string
	CustomerName string
	Subject      string
	DateLabel    string // 有効期限 / お支払期限
	DateValue    string
	Rows         []ExportRow
	Subtotal     int
	TaxRate      int
	Tax          int
	Total        int
	Notes        string

	CompanyName  string
	CompanyLines []string // postal, address, phone/fax, registration number
	BankLines    []string // transfer destination, invoices only
}

// BuildExportData flattens a document into renderer input. Unnamed
// material lines are skipped; work lines print when they carry a name or
// an amount.
func BuildExportData(d *Document, s Settings) ExportData {
	data := ExportData{
		Title:        d.Kind.Title(),
		Number:       d.Number,
		Date:         FormatDateJP(d.Date),
		CustomerName: d.CustomerName,
		Subject:      d.Subject,
		Subtotal:     d.Totals.Subtotal,
		TaxRate:      d.Totals.TaxRate,
		Tax:          d.Totals.Tax,
		Total:        d.Totals.Total,
		Notes:        d.Notes,
		CompanyName:  s.CompanyName,
	}

	if d.Kind == DocumentKindInvoice {
		data.DateLabel = "お支払期限"
		data.DateValue = FormatDateJP(d.DueDate)
	} else {
		data.DateLabel = "有効期限"
		data.DateValue = FormatDateJP(d.ValidUntil)
	}

	no := 1
	var named []MaterialLine
	for _, m := range d.Materials {
		if m.hasName() {
			named = append(named, m)
		}
	}
	if len(named) > 0 {
		data.Rows = append(data.Rows, ExportRow{Kind: ExportRowSection, Name: "【材料費】"})
		for _, m := range named {
			unit := m.UnitPrice()
			qty := nonNegative(m.Quantity)
			data.Rows = append(data.Rows, ExportRow{
				Kind:      ExportRowItem,
				No:        no,
				Name:      m.Name,
				Quantity:  fmt.Sprintf("%d", qty),
				UnitPrice: FormatYen(unit),
				Amount:    FormatYen(qty * unit),
			})
			no++
		}
		data.Rows = append(data.Rows, ExportRow{
			Kind:   ExportRowSubtotal,
			Name:   "材料費 小計",
			Amount: FormatYen(d.Totals.MaterialSubtotal),
		})
	}

	var works []WorkLine
	for _, w := range d.Works {
		if w.hasName() || w.Value != 0 {
			works = append(works, w)
		}
	}
	if len(works) > 0 {
		data.Rows = append(data.Rows, ExportRow{Kind: ExportRowSection, Name: "【作業費】"})
		for _, w := range works {
			name := w.Name
			if strings.TrimSpace(name) == "" {
				name = "作業"
			}
			row := ExportRow{Kind: ExportRowItem, No: no, Name: name}
			if d.WorkMode == WorkModeDaily {
				qty := w.Quantity
				if qty < 1 {
					qty = 1
				}
				row.Quantity = fmt.Sprintf("%d日", qty)
				row.UnitPrice = FormatYen(nonNegative(w.Value))
				row.Amount = FormatYen(qty * nonNegative(w.Value))
			} else {
				unit := w.Unit
				if unit == "" {
					unit = "1式"
				}
				row.Quantity = unit
				row.Amount = FormatYen(nonNegative(w.Value))
			}
			data.Rows = append(data.Rows, row)
			no++
		}
		data.Rows = append(data.Rows, ExportRow{
			Kind:   ExportRowSubtotal,
			Name:   "作業費 小計",
			Amount: FormatYen(d.Totals.WorkSubtotal),
		})
	}

	if s.PostalCode != "" || s.Address != "" {
		data.CompanyLines = append(data.CompanyLines, strings.TrimSpace("〒"+s.PostalCode+" "+s.Address))
	}
	if s.Phone != "" {
		line := "TEL: " + s.Phone
		if s.Fax != "" {
			line += "  FAX: " + s.Fax
		}
		data.CompanyLines = append(data.CompanyLines, line)
	}
	if s.InvoiceNumber != "" {
		data.CompanyLines = append(data.CompanyLines, "登録番号: "+s.InvoiceNumber)
	}

	if d.Kind == DocumentKindInvoice && s.BankName != "" {
		data.BankLines = append(data.BankLines, "お振込先:")
		line := s.BankName
		if s.BranchName != "" {
			line += " " + s.BranchName
		}
		if s.AccountType != "" || s.AccountNumber != "" {
			line += " " + s.AccountType + " " + s.AccountNumber
		}
		data.BankLines = append(data.BankLines, strings.TrimSpace(line))
		if s.AccountHolder != "" {
			data.BankLines = append(data.BankLines, s.AccountHolder)
		}
	}

	return data
}
