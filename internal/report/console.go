package report

import (
	"context"
	"fmt"
	"io"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
)

// Console prints the report as terminal tables: one per category, then the
// category totals with the grand total.
type Console struct {
	W io.Writer
}

// WriteReport renders to W. Destination is ignored.
func (c Console) WriteReport(_ context.Context, r Report) error {
	w := c.W
	title := "TRIP EXPENSES"
	if r.Trip.Location != "" {
		title += "  " + r.Trip.Location
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(title))
	if line := tripLine(model.Trip{Start: r.Trip.Start, End: r.Trip.End}); line != "" {
		fmt.Fprintf(w, "  %s\n", cli.Muted(line))
	}
	fmt.Fprintln(w)

	if len(r.Accepted) == 0 {
		fmt.Fprintln(w, "  No trip expenses found.")
		return nil
	}

	groups := model.GroupByCategory(r.Accepted)
	categories := r.Summary.CategoryTotals.Categories()
	for _, cat := range categories {
		rows := make([][]string, 0, len(groups[cat])+2)
		for _, t := range groups[cat] {
			rows = append(rows, []string{
				t.Date.Format(cli.DateLayout),
				t.Description,
				cli.FormatMoney(t.Magnitude()),
			})
		}
		rows = append(rows, []string{"---"}, []string{"Total", "", cli.FormatMoney(r.Summary.CategoryTotals[cat])})
		fmt.Fprint(w, cli.RenderTable(cli.Table{
			Title:   cat,
			Headers: []string{"Date", "Description", "Amount"},
			Rows:    rows,
		}))
		fmt.Fprintln(w)
	}

	grand := r.Summary.GrandTotal.InexactFloat64()
	var max float64
	for _, cat := range categories {
		if v := r.Summary.CategoryTotals[cat].InexactFloat64(); v > max {
			max = v
		}
	}
	rows := make([][]string, 0, len(categories)+2)
	for _, cat := range categories {
		v := r.Summary.CategoryTotals[cat].InexactFloat64()
		share := ""
		if grand > 0 {
			share = cli.FormatPercent(v / grand)
		}
		rows = append(rows, []string{cat, cli.FormatMoney(r.Summary.CategoryTotals[cat]), share, cli.RenderHorizontalBar(v, max, 20)})
	}
	rows = append(rows, []string{"---"}, []string{"Grand Total", cli.FormatMoney(r.Summary.GrandTotal), "", ""})
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Categorized Expenses",
		Headers: []string{"Category", "Total", "Share", ""},
		Rows:    rows,
	}))
	return nil
}
