package oracle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
Airfare:
  - "\\bDELTA\\b"
  - "united air"
Transport: ["UBER", "LYFT"]
Meals:
  - "UBER EATS"
`

func TestParseRules_FirstCategoryWins(t *testing.T) {
	r, err := ParseRules([]byte(sampleRules))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	got, ok := r.Match("DELTA AIR LINES 0062")
	assert.True(t, ok)
	assert.Equal(t, "Airfare", got)

	got, _ = r.Match("United Airlines")
	assert.Equal(t, "Airfare", got, "patterns are case-insensitive")

	// Transport is listed before Meals, so file order decides.
	got, _ = r.Match("UBER EATS 123")
	assert.Equal(t, "Transport", got)

	_, ok = r.Match("DELTAVILLE MARINA")
	assert.False(t, ok)
}

func TestParseRules_Invalid(t *testing.T) {
	_, err := ParseRules([]byte("Meals: \"not a list\""))
	assert.Error(t, err)

	_, err = ParseRules([]byte("Meals: [\"(unclosed\"]"))
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRules), 0o600))

	r, err := LoadRules(path)
	require.NoError(t, err)

	_, err = r.CategorizeExpense(context.Background(), "CORNER STORE", decimal.Zero)
	assert.ErrorIs(t, err, ErrNoRuleMatch)
}

func TestWithRules(t *testing.T) {
	r, err := ParseRules([]byte(sampleRules))
	require.NoError(t, err)

	calls := 0
	next := ClassifierFunc(func(context.Context, string, decimal.Decimal) (string, error) {
		calls++
		return "Groceries", nil
	})
	c := WithRules(r, next)
	ctx := context.Background()

	got, err := c.CategorizeExpense(ctx, "LYFT RIDE", decimal.NewFromInt(-12))
	require.NoError(t, err)
	assert.Equal(t, "Transport", got)
	assert.Zero(t, calls)

	got, err = c.CategorizeExpense(ctx, "WHOLE FOODS", decimal.NewFromInt(-30))
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got)
	assert.Equal(t, 1, calls)

	var empty *Rules
	_, isFunc := WithRules(empty, next).(ClassifierFunc)
	assert.True(t, isFunc, "nil rules return next unchanged")
}
