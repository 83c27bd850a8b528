package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tripcost/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func accepted(date, desc, amount, category string) model.ClassifiedTransaction {
	return model.ClassifiedTransaction{
		Transaction: model.Transaction{
			Date:        day(date),
			Description: desc,
			Amount:      decimal.RequireFromString(amount),
			Source:      "/tmp/visa.csv",
		},
		Category: category,
		Window:   model.InTrip,
		Decision: model.Accept(),
	}
}

// sampleReport has two categories; Meals rows are out of date order on purpose.
func sampleReport(dest string) Report {
	txns := []model.ClassifiedTransaction{
		accepted("2025-12-23", "DINER", "-15.25", "Meals"),
		accepted("2025-11-25", "DELTA AIR", "-310.00", "Airfare"),
		accepted("2025-12-22", "CAFE LUNA", "-42.50", "Meals"),
	}
	return Report{
		RunID:    "run-1",
		Trip:     model.Trip{Start: day("2025-12-20"), End: day("2025-12-27"), Location: "New York", AdvanceMonths: 3},
		Accepted: txns,
		Summary: model.Summary{
			CategoryTotals: model.CategoryTotals{
				"Meals":   decimal.RequireFromString("57.75"),
				"Airfare": decimal.RequireFromString("310"),
			},
			GrandTotal: decimal.RequireFromString("367.75"),
		},
		Destination: dest,
	}
}

func TestEnsureExtension(t *testing.T) {
	assert.Equal(t, "trip.xlsx", EnsureExtension("trip", ".xlsx"))
	assert.Equal(t, "trip.XLSX", EnsureExtension("trip.XLSX", ".xlsx"))
	assert.Equal(t, "trip.v2.xlsx", EnsureExtension("trip.v2", ".xlsx"))
}

func TestSheetNames(t *testing.T) {
	long := "Accommodation and Lodging Expenses Abroad" // 41 chars
	longer := long + " Extra"
	names := SheetNames([]string{"Meals", "Fees/Charges?", long, longer, "summary", ""}, "Summary")

	assert.Equal(t, "Meals", names["Meals"])
	assert.Equal(t, "FeesCharges", names["Fees/Charges?"])
	assert.Equal(t, long[:31], names[long])
	assert.Equal(t, long[:27]+" (2)", names[longer], "collision after truncation")
	assert.Equal(t, "summary (2)", names["summary"], "reserved names are case-insensitive")
	assert.Equal(t, "Uncategorized", names[""])

	for _, n := range names {
		assert.LessOrEqual(t, utf8.RuneCountInString(n), 31)
	}
}

type recordingWriter struct {
	got []Report
	err error
}

func (w *recordingWriter) WriteReport(_ context.Context, r Report) error {
	w.got = append(w.got, r)
	return w.err
}

func TestMulti(t *testing.T) {
	a := &recordingWriter{}
	b := &recordingWriter{err: errors.New("disk full")}
	c := &recordingWriter{}

	err := Multi{a, nil, b, c}.WriteReport(context.Background(), sampleReport("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, a.got, 1)
	assert.Len(t, c.got, 1, "later writers still run after a failure")
}

func TestConsole(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Console{W: &buf}.WriteReport(context.Background(), sampleReport("")))

	out := buf.String()
	for _, want := range []string{"New York", "Airfare", "Meals", "$310.00", "$57.75", "Grand Total", "$367.75"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "CAFE LUNA"), strings.Index(out, "DINER"), "rows sorted by date")
}

func TestConsole_Empty(t *testing.T) {
	var buf strings.Builder
	r := sampleReport("")
	r.Accepted = nil
	r.Summary = model.Summary{CategoryTotals: model.CategoryTotals{}}
	require.NoError(t, Console{W: &buf}.WriteReport(context.Background(), r))
	assert.Contains(t, buf.String(), "No trip expenses found.")
}
