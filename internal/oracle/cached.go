package oracle

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripcost/internal/logger"
	"github.com/theirongolddev/tripcost/internal/store"
)

// ClassificationStore persists category answers.
type ClassificationStore interface {
	GetClassification(key string) (string, bool, error)
	PutClassification(c store.Classification) error
}

// ColumnStore persists column answers.
type ColumnStore interface {
	GetColumn(key string) (string, bool, error)
	PutColumn(key, field, header string) error
}

// Cached memoises a classifier. Only successful answers are stored, and
// store failures degrade to calling Inner.
type Cached struct {
	Inner    CategoryClassifier
	Store    ClassificationStore
	Provider string
	Model    string
}

// CategorizeExpense returns the stored label or asks Inner and stores it.
func (c Cached) CategorizeExpense(ctx context.Context, description string, amount decimal.Decimal) (string, error) {
	log := logger.FromContext(ctx)
	amt := amount.StringFixed(2)
	key := store.ClassificationKey(c.Provider, c.Model, description, amt)

	if label, ok, err := c.Store.GetClassification(key); err != nil {
		log.Debug().Err(err).Msg("classification cache read failed")
	} else if ok {
		return label, nil
	}

	label, err := c.Inner.CategorizeExpense(ctx, description, amount)
	if err != nil {
		return "", err
	}

	if err := c.Store.PutClassification(store.Classification{
		Key:         key,
		Description: description,
		Amount:      amt,
		Category:    label,
		Provider:    c.Provider,
		Model:       c.Model,
	}); err != nil {
		log.Debug().Err(err).Msg("classification cache write failed")
	}
	return label, nil
}

// CachedColumns memoises a column identifier per header set.
type CachedColumns struct {
	Inner ColumnIdentifier
	Store ColumnStore
}

// ColumnName returns the stored header when it is still valid for columns.
func (c CachedColumns) ColumnName(ctx context.Context, columns []string, fieldDescription string) (string, error) {
	log := logger.FromContext(ctx)
	key := store.ColumnKey(columns, fieldDescription)

	if header, ok, err := c.Store.GetColumn(key); err != nil {
		log.Debug().Err(err).Msg("column cache read failed")
	} else if ok {
		if valid, err := ValidateColumn(header, columns); err == nil {
			return valid, nil
		}
	}

	header, err := c.Inner.ColumnName(ctx, columns, fieldDescription)
	if err != nil {
		return "", err
	}
	if err := c.Store.PutColumn(key, fieldDescription, header); err != nil {
		log.Debug().Err(err).Msg("column cache write failed")
	}
	return header, nil
}
