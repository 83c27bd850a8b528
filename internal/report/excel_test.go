package report

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcel_Layout(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "trip")
	var notice bytes.Buffer
	require.NoError(t, Excel{Out: &notice}.WriteReport(context.Background(), sampleReport(dest)))

	path := dest + ".xlsx"
	assert.Contains(t, notice.String(), "Expenses written to "+path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Summary", "Airfare", "Meals"}, f.GetSheetList())

	raw := excelize.Options{RawCellValue: true}
	cell := func(sheet, ref string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, ref, raw)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Trip Expense Summary", cell("Summary", "A1"))
	assert.Contains(t, cell("Summary", "A2"), "New York")
	assert.Equal(t, "Category", cell("Summary", "A3"))
	assert.Equal(t, "Total Amount", cell("Summary", "B3"))
	assert.Equal(t, "Airfare", cell("Summary", "A4"))
	assert.Equal(t, "310", cell("Summary", "B4"))
	assert.Equal(t, "Meals", cell("Summary", "A5"))
	assert.Equal(t, "57.75", cell("Summary", "B5"))
	assert.Equal(t, "Grand Total", cell("Summary", "A6"))
	assert.Equal(t, "367.75", cell("Summary", "B6"))

	assert.Equal(t, "Date", cell("Meals", "A1"))
	assert.Equal(t, "2025-12-22", cell("Meals", "A2"))
	assert.Equal(t, "CAFE LUNA", cell("Meals", "B2"))
	assert.Equal(t, "42.5", cell("Meals", "C2"))
	assert.Equal(t, "2025-12-23", cell("Meals", "A3"))
	assert.Equal(t, "Total", cell("Meals", "A4"))
	assert.Equal(t, "Meals", cell("Meals", "B4"))
	assert.Equal(t, "57.75", cell("Meals", "C4"))

	styleID, err := f.GetCellStyle("Summary", "B6")
	require.NoError(t, err)
	assert.NotZero(t, styleID, "grand total is styled")
}

func TestExcel_KeepsExtension(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "trip.xlsx")
	require.NoError(t, Excel{}.WriteReport(context.Background(), sampleReport(dest)))

	f, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	_ = f.Close()
}
