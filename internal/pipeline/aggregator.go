// Package pipeline decides which transactions belong to a trip, classifies
// them, and folds the accepted ones into per-category totals.
package pipeline

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripcost/internal/model"
)

// Aggregator accumulates accepted amounts per category. Safe for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	totals  model.CategoryTotals
	running decimal.Decimal
	count   int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{totals: make(model.CategoryTotals)}
}

// Accumulate adds the magnitude of amount, rounded to cents, to category.
func (a *Aggregator) Accumulate(category string, amount decimal.Decimal) {
	v := amount.Abs().Round(2)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals[category] = a.totals[category].Add(v)
	a.running = a.running.Add(v)
	a.count++
}

// Merge folds other's totals into a.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil || other == a {
		return
	}
	other.mu.Lock()
	totals := make(model.CategoryTotals, len(other.totals))
	for k, v := range other.totals {
		totals[k] = v
	}
	running, count := other.running, other.count
	other.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	for k, v := range totals {
		a.totals[k] = a.totals[k].Add(v)
	}
	a.running = a.running.Add(running)
	a.count += count
}

// Count returns how many amounts were accumulated.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Finalize returns a snapshot of the totals. The grand total is the sum of
// the already-rounded category totals; it is checked against the running
// total kept during accumulation.
func (a *Aggregator) Finalize() (model.Summary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	totals := make(model.CategoryTotals, len(a.totals))
	for k, v := range a.totals {
		totals[k] = v
	}
	summary := model.Summary{CategoryTotals: totals, GrandTotal: totals.Sum()}

	if !summary.GrandTotal.Equal(a.running) || !summary.GrandTotal.Equal(summary.GrandTotal.Round(2)) {
		return summary, fmt.Errorf("%w: grand total %s, accumulated %s",
			ErrAggregationInvariant, summary.GrandTotal, a.running)
	}
	return summary, nil
}

// Fold aggregates the accepted transactions in txns.
func Fold(txns []model.ClassifiedTransaction) (model.Summary, error) {
	agg := NewAggregator()
	for _, t := range txns {
		if t.Decision.Accepted() {
			agg.Accumulate(t.Category, t.Amount)
		}
	}
	return agg.Finalize()
}
