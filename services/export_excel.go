package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel renders a completed document as an Excel workbook and
// returns the file contents.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := data.Title
	if sheetName == "" {
		sheetName = "Document"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Columns A through E: No., name, quantity, unit price, amount.
	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 40, 10, 14, 14}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#374151"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F3F4F6"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	subtotalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtotal style: %w", err)
	}

	totalsLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create totals label style: %w", err)
	}

	totalsValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create totals value style: %w", err)
	}

	// ── Header rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	f.SetCellValue(sheetName, "A2", "No. "+data.Number)
	f.SetCellStyle(sheetName, "A2", "A2", subtitleStyle)
	f.SetCellValue(sheetName, "D2", "発行日: "+data.Date)

	f.SetCellValue(sheetName, "A3", sanitizeExcelCell(data.CustomerName)+" 御中")
	f.SetCellStyle(sheetName, "A3", "A3", subtitleStyle)
	f.SetCellValue(sheetName, "D3", data.DateLabel+": "+data.DateValue)

	f.SetCellValue(sheetName, "A4", "件名: "+sanitizeExcelCell(data.Subject))
	if data.CompanyName != "" {
		f.SetCellValue(sheetName, "D4", sanitizeExcelCell(data.CompanyName))
	}

	// ── Row 6: table headers ────────────────────────────────────────────

	headers := []string{"No.", "品名・作業内容", "数量", "単価", "金額"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s6", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A6", lastCol+"6", headerStyle)

	// ── Item rows ───────────────────────────────────────────────────────

	row := 7
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)
		switch r.Kind {
		case ExportRowSection:
			if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
				return nil, fmt.Errorf("merge section: %w", err)
			}
			f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(r.Name))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, sectionStyle)
		case ExportRowSubtotal:
			f.SetCellValue(sheetName, "D"+rowStr, r.Name)
			f.SetCellValue(sheetName, "E"+rowStr, r.Amount)
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, subtotalStyle)
		default:
			f.SetCellValue(sheetName, "A"+rowStr, r.No)
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Name))
			f.SetCellValue(sheetName, "C"+rowStr, r.Quantity)
			f.SetCellValue(sheetName, "D"+rowStr, r.UnitPrice)
			f.SetCellValue(sheetName, "E"+rowStr, r.Amount)
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)
		}
		row++
	}

	// ── Totals ──────────────────────────────────────────────────────────

	row++

	totals := []struct {
		label string
		value string
	}{
		{"小計", FormatYen(data.Subtotal)},
		{fmt.Sprintf("消費税（%d%%）", data.TaxRate), FormatYen(data.Tax)},
		{"合計", FormatYen(data.Total)},
	}
	for _, t := range totals {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+rowStr, t.label)
		f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, totalsLabelStyle)
		f.SetCellValue(sheetName, "E"+rowStr, t.value)
		f.SetCellStyle(sheetName, "E"+rowStr, "E"+rowStr, totalsValueStyle)
		row++
	}

	// ── Footer: bank transfer block and notes ───────────────────────────

	if len(data.BankLines) > 0 {
		row++
		for _, line := range data.BankLines {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sanitizeExcelCell(line))
			row++
		}
	}
	if data.Notes != "" {
		row++
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "備考: "+sanitizeExcelCell(data.Notes))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous
// leading characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders for all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
