package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotals maps a category name to its running total.
type CategoryTotals map[string]decimal.Decimal

// Categories returns the category names sorted alphabetically.
func (ct CategoryTotals) Categories() []string {
	names := make([]string, 0, len(ct))
	for name := range ct {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sum adds every category total.
func (ct CategoryTotals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range ct {
		sum = sum.Add(v)
	}
	return sum
}

// Summary is the finalized aggregate of a run.
type Summary struct {
	CategoryTotals CategoryTotals
	GrandTotal     decimal.Decimal
}

// Trip describes the trip window a run is evaluated against.
type Trip struct {
	Start         time.Time
	End           time.Time
	Location      string
	AdvanceMonths int
}

// GroupByCategory splits transactions per category, each slice sorted by date ascending.
// Ties keep input order.
func GroupByCategory(txns []ClassifiedTransaction) map[string][]ClassifiedTransaction {
	groups := make(map[string][]ClassifiedTransaction)
	for _, t := range txns {
		groups[t.Category] = append(groups[t.Category], t)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Date.Before(g[j].Date)
		})
	}
	return groups
}
