// Package oracle answers the two questions the pipeline cannot decide on its
// own: which CSV header holds a field, and which category a transaction is.
package oracle

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyLabel indicates the oracle returned no usable category.
	ErrEmptyLabel = errors.New("oracle: empty category label")
	// ErrColumnNotFound indicates no header matches the requested field.
	ErrColumnNotFound = errors.New("oracle: column not found")
	// ErrUnauthorized indicates the API key is missing, expired or invalid.
	ErrUnauthorized = errors.New("oracle: unauthorized (API key missing or invalid)")
	// ErrRateLimited indicates the provider rejected the call for rate.
	ErrRateLimited = errors.New("oracle: rate limited")
	// ErrNoRuleMatch indicates no deterministic rule covers the description.
	ErrNoRuleMatch = errors.New("oracle: no rule matched")
)

// CategoryClassifier maps a transaction to a category label.
type CategoryClassifier interface {
	CategorizeExpense(ctx context.Context, description string, amount decimal.Decimal) (string, error)
}

// ColumnIdentifier picks the header that holds a field.
// The answer must be a member of columns.
type ColumnIdentifier interface {
	ColumnName(ctx context.Context, columns []string, fieldDescription string) (string, error)
}

// Oracle is a provider that can answer both questions.
type Oracle interface {
	CategoryClassifier
	ColumnIdentifier
	Name() string
}

// ClassifierFunc adapts a function to CategoryClassifier.
type ClassifierFunc func(ctx context.Context, description string, amount decimal.Decimal) (string, error)

// CategorizeExpense calls f.
func (f ClassifierFunc) CategorizeExpense(ctx context.Context, description string, amount decimal.Decimal) (string, error) {
	return f(ctx, description, amount)
}
