package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF renders a completed document as PDF bytes using maroto/v2.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	addDocumentHeader(m, data)
	addItemTableHeader(m)
	for _, r := range data.Rows {
		addItemTableRow(m, r)
	}
	addTotals(m, data)
	addDocumentFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addDocumentHeader adds the title, number, dates and addressee block.
func addDocumentHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(14).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  18,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	meta := props.Text{
		Size:  9,
		Align: align.Right,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	m.AddRows(
		row.New(5).Add(
			col.New(12).Add(text.New(fmt.Sprintf("No. %s", data.Number), meta)),
		),
		row.New(5).Add(
			col.New(12).Add(text.New(fmt.Sprintf("発行日: %s", data.Date), meta)),
		),
		row.New(5).Add(
			col.New(12).Add(text.New(fmt.Sprintf("%s: %s", data.DateLabel, data.DateValue), meta)),
		),
	)

	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(
				text.New(data.CustomerName+" 御中", props.Text{
					Size:  13,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(5).Add(
				text.New(data.CompanyName, props.Text{
					Size:  10,
					Align: align.Right,
				}),
			),
		),
	)
	for _, line := range data.CompanyLines {
		m.AddRows(
			row.New(4).Add(
				col.New(12).Add(text.New(line, props.Text{
					Size:  8,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				})),
			),
		)
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New("件名: "+data.Subject, props.Text{
					Size:  10,
					Align: align.Left,
				}),
			),
		),
	)

	// Grand total callout above the table
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New("合計金額（税込）", props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New(FormatYen(data.Total), props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)
	m.AddRows(row.New(3))
}

// addItemTableHeader adds the item table column headers.
func addItemTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 55, Green: 65, Blue: 81}
	headerText := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("No.", headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New("品名・作業内容", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("数量", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("単価", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("金額", headerText)).WithStyle(&headerCell),
		),
	)
}

// addItemTableRow adds one table line, styled by row kind.
func addItemTableRow(m core.Maroto, r ExportRow) {
	switch r.Kind {
	case ExportRowSection:
		bg := &props.Color{Red: 243, Green: 244, Blue: 246}
		cell := props.Cell{BackgroundColor: bg}
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(r.Name, props.Text{
						Size:  9,
						Style: fontstyle.Bold,
						Align: align.Left,
					}),
				).WithStyle(&cell),
			),
		)
	case ExportRowSubtotal:
		m.AddRows(
			row.New(7).Add(
				col.New(8),
				col.New(2).Add(
					text.New(r.Name, props.Text{
						Size:  9,
						Style: fontstyle.Bold,
						Align: align.Right,
					}),
				),
				col.New(2).Add(
					text.New(r.Amount, props.Text{
						Size:  9,
						Style: fontstyle.Bold,
						Align: align.Right,
					}),
				),
			),
		)
	default:
		base := props.Text{Size: 9, Align: align.Center}
		left := base
		left.Align = align.Left
		right := base
		right.Align = align.Right
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(fmt.Sprintf("%d", r.No), base)),
				col.New(5).Add(text.New(r.Name, left)),
				col.New(2).Add(text.New(r.Quantity, base)),
				col.New(2).Add(text.New(r.UnitPrice, right)),
				col.New(2).Add(text.New(r.Amount, right)),
			),
		)
	}
}

// addTotals adds the subtotal, tax and total block.
func addTotals(m core.Maroto, data ExportData) {
	m.AddRows(row.New(4))

	totalsBg := &props.Color{Red: 243, Green: 244, Blue: 246}
	totalsCell := &props.Cell{BackgroundColor: totalsBg}
	label := props.Text{Size: 9, Align: align.Right}
	value := props.Text{Size: 9, Align: align.Right}

	m.AddRows(
		row.New(7).Add(
			col.New(8),
			col.New(2).Add(text.New("小計", label)).WithStyle(totalsCell),
			col.New(2).Add(text.New(FormatYen(data.Subtotal), value)).WithStyle(totalsCell),
		),
		row.New(7).Add(
			col.New(8),
			col.New(2).Add(text.New(fmt.Sprintf("消費税（%d%%）", data.TaxRate), label)).WithStyle(totalsCell),
			col.New(2).Add(text.New(FormatYen(data.Tax), value)).WithStyle(totalsCell),
		),
		row.New(8).Add(
			col.New(8),
			col.New(2).Add(text.New("合計", props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
			})).WithStyle(totalsCell),
			col.New(2).Add(text.New(FormatYen(data.Total), props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
			})).WithStyle(totalsCell),
		),
	)
}

// addDocumentFooter adds notes and, for invoices, the bank transfer block.
func addDocumentFooter(m core.Maroto, data ExportData) {
	small := props.Text{
		Size:  8,
		Align: align.Left,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}

	if len(data.BankLines) > 0 {
		m.AddRows(row.New(5))
		for _, line := range data.BankLines {
			m.AddRows(
				row.New(4).Add(col.New(12).Add(text.New(line, small))),
			)
		}
	}

	if data.Notes != "" {
		m.AddRows(row.New(5))
		m.AddRows(
			row.New(4).Add(col.New(12).Add(text.New("備考:", small))),
			row.New(4).Add(col.New(12).Add(text.New(data.Notes, small))),
		)
	}
}
