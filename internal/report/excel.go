package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
)

const (
	summarySheet  = "Summary"
	currencyFmt   = "$#,##0.00"
	headerFill    = "4472C4"
	totalFill     = "92D050"
	summaryTitle  = "Trip Expense Summary"
	grandTotalRow = "Grand Total"
)

// Excel writes a workbook: a Summary sheet first, then one sheet per
// category with its transactions sorted by date.
type Excel struct {
	// Out receives the "Expenses written to" notice; nil keeps quiet.
	Out io.Writer
}

type excelStyles struct {
	title, header, cell, money, totalLabel, totalMoney int
}

// WriteReport saves the workbook at Destination, adding .xlsx if missing.
func (x Excel) WriteReport(_ context.Context, r Report) error {
	path := EnsureExtension(r.Destination, ".xlsx")

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	st, err := newExcelStyles(f)
	if err != nil {
		return fmt.Errorf("creating styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeSummarySheet(f, st, r); err != nil {
		return fmt.Errorf("writing summary sheet: %w", err)
	}

	groups := model.GroupByCategory(r.Accepted)
	categories := r.Summary.CategoryTotals.Categories()
	names := SheetNames(categories, summarySheet)
	for _, c := range categories {
		if err := writeCategorySheet(f, st, names[c], c, groups[c], r.Summary.CategoryTotals[c]); err != nil {
			return fmt.Errorf("writing sheet %q: %w", names[c], err)
		}
	}
	f.SetActiveSheet(0)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if x.Out != nil {
		fmt.Fprintf(x.Out, "Expenses written to %s\n", path)
	}
	return nil
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var st excelStyles
	numFmt := currencyFmt
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&st.header, &excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&st.cell, &excelize.Style{Border: border}},
		{&st.money, &excelize.Style{Border: border, CustomNumFmt: &numFmt}},
		{&st.totalLabel, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&st.totalMoney, &excelize.Style{
			Fill:         excelize.Fill{Type: "pattern", Color: []string{totalFill}, Pattern: 1},
			Font:         &excelize.Font{Bold: true},
			Border:       border,
			CustomNumFmt: &numFmt,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, err
		}
		*d.dst = id
	}
	return st, nil
}

func writeSummarySheet(f *excelize.File, st excelStyles, r Report) error {
	const sheet = summarySheet
	cells := cellSetter(f, sheet)

	cells.set(1, 1, summaryTitle, st.title)
	if sub := tripLine(r.Trip); sub != "" {
		cells.set(1, 2, sub, 0)
	}
	cells.set(1, 3, "Category", st.header)
	cells.set(2, 3, "Total Amount", st.header)

	row := 4
	for _, c := range r.Summary.CategoryTotals.Categories() {
		cells.set(1, row, c, st.cell)
		cells.set(2, row, r.Summary.CategoryTotals[c].InexactFloat64(), st.money)
		row++
	}
	cells.set(1, row, grandTotalRow, st.totalLabel)
	cells.set(2, row, r.Summary.GrandTotal.InexactFloat64(), st.totalMoney)

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 15); err != nil {
		return err
	}
	return cells.err
}

func writeCategorySheet(f *excelize.File, st excelStyles, sheet, category string, txns []model.ClassifiedTransaction, total decimal.Decimal) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	cells := cellSetter(f, sheet)

	for i, h := range []string{"Date", "Description", "Amount"} {
		cells.set(i+1, 1, h, st.header)
	}
	row := 2
	for _, t := range txns {
		cells.set(1, row, t.Date.Format(cli.DateLayout), st.cell)
		cells.set(2, row, t.Description, st.cell)
		cells.set(3, row, t.Magnitude().InexactFloat64(), st.money)
		row++
	}
	cells.set(1, row, "Total", st.totalLabel)
	cells.set(2, row, category, st.totalLabel)
	cells.set(3, row, total.InexactFloat64(), st.totalMoney)

	for _, w := range []struct {
		col   string
		width float64
	}{{"A", 12}, {"B", 30}, {"C", 12}} {
		if err := f.SetColWidth(sheet, w.col, w.col, w.width); err != nil {
			return err
		}
	}
	return cells.err
}

// setter writes a value and optional style, remembering the first error.
type setter struct {
	f     *excelize.File
	sheet string
	err   error
}

func cellSetter(f *excelize.File, sheet string) *setter {
	return &setter{f: f, sheet: sheet}
}

func (s *setter) set(col, row int, v any, style int) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellValue(s.sheet, cell, v); err != nil {
		s.err = err
		return
	}
	if style != 0 {
		s.err = s.f.SetCellStyle(s.sheet, cell, cell, style)
	}
}

func tripLine(t model.Trip) string {
	if t.Start.IsZero() {
		return t.Location
	}
	line := cli.FormatDateRange(t.Start, t.End)
	if t.Location != "" {
		line = t.Location + " · " + line
	}
	return line
}
