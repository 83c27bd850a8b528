package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripcost/internal/cli"
	"github.com/theirongolddev/tripcost/internal/model"
)

// JSON writes the report as an indented JSON document.
type JSON struct {
	Out io.Writer // receives the "Expenses written to" notice; nil keeps quiet
	now func() time.Time
}

type jsonDocument struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Trip        jsonTrip       `json:"trip"`
	Categories  []jsonCategory `json:"categories"`
	GrandTotal  json.Number    `json:"grand_total"`
}

type jsonTrip struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	Location      string `json:"location,omitempty"`
	AdvanceMonths int    `json:"advance_booking_months"`
}

type jsonCategory struct {
	Name         string            `json:"name"`
	Total        json.Number       `json:"total"`
	Transactions []jsonTransaction `json:"transactions"`
}

type jsonTransaction struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Window      string      `json:"window"`
	Source      string      `json:"source,omitempty"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// document builds the JSON form of r.
func (j JSON) document(r Report) jsonDocument {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	doc := jsonDocument{
		RunID:       r.RunID,
		GeneratedAt: now().UTC(),
		Trip: jsonTrip{
			Start:         cli.FormatDate(r.Trip.Start),
			End:           cli.FormatDate(r.Trip.End),
			Location:      r.Trip.Location,
			AdvanceMonths: r.Trip.AdvanceMonths,
		},
		Categories: []jsonCategory{},
		GrandTotal: money(r.Summary.GrandTotal),
	}

	groups := model.GroupByCategory(r.Accepted)
	for _, c := range r.Summary.CategoryTotals.Categories() {
		jc := jsonCategory{Name: c, Total: money(r.Summary.CategoryTotals[c]), Transactions: []jsonTransaction{}}
		for _, t := range groups[c] {
			jc.Transactions = append(jc.Transactions, jsonTransaction{
				Date:        t.Date.Format(cli.DateLayout),
				Description: t.Description,
				Amount:      money(t.Magnitude()),
				Window:      t.Window.String(),
				Source:      filepath.Base(t.Source),
			})
		}
		doc.Categories = append(doc.Categories, jc)
	}
	return doc
}

// WriteReport saves the document at Destination, adding .json if missing.
func (j JSON) WriteReport(_ context.Context, r Report) error {
	path := EnsureExtension(r.Destination, ".json")
	data, err := json.MarshalIndent(j.document(r), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if j.Out != nil {
		fmt.Fprintf(j.Out, "Expenses written to %s\n", path)
	}
	return nil
}
