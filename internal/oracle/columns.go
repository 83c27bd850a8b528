package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Header aliases per field, most specific first.
var columnAliases = map[string][]string{
	FieldDate: {
		"transaction date", "trans date", "trans. date", "date", "posting date", "posted date",
		"post date", "posted", "booking date", "value date", "date posted",
	},
	FieldDescription: {
		"description", "merchant", "merchant name", "payee", "transaction description",
		"original description", "details", "name", "narrative", "memo",
	},
	FieldAmount: {
		"amount", "transaction amount", "amount (usd)", "amount usd", "charge amount",
		"debit/credit", "amt", "value",
	},
}

// HeuristicColumns picks headers by matching well-known names.
type HeuristicColumns struct{}

// ColumnName returns the header matching the field's aliases, in alias
// priority order, or ErrColumnNotFound.
func (HeuristicColumns) ColumnName(_ context.Context, columns []string, fieldDescription string) (string, error) {
	aliases, ok := columnAliases[fieldDescription]
	if !ok {
		return "", fmt.Errorf("%w: no aliases for %q", ErrColumnNotFound, fieldDescription)
	}

	normalized := make([]string, len(columns))
	for i, c := range columns {
		normalized[i] = normalizeHeader(c)
	}
	for _, alias := range aliases {
		a := normalizeHeader(alias)
		for i, n := range normalized {
			if n == a {
				return columns[i], nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrColumnNotFound, fieldDescription)
}

func normalizeHeader(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// ColumnChain asks each identifier in turn until one answers.
type ColumnChain []ColumnIdentifier

// ColumnName returns the first successful answer. When all fail the
// returned error joins every failure.
func (c ColumnChain) ColumnName(ctx context.Context, columns []string, fieldDescription string) (string, error) {
	var errs []error
	for _, id := range c {
		if id == nil {
			continue
		}
		name, err := id.ColumnName(ctx, columns, fieldDescription)
		if err == nil {
			return name, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s", ErrColumnNotFound, fieldDescription)
	}
	return "", errors.Join(errs...)
}

// ValidateColumn maps an oracle's answer onto a member of columns. Quotes,
// backticks and trailing punctuation are ignored, as is case. An answer
// that mentions exactly one header in a sentence resolves to it. An answer
// matching nothing returns ErrColumnNotFound, never a made-up name.
func ValidateColumn(answer string, columns []string) (string, error) {
	a := strings.TrimSpace(answer)
	a = strings.Trim(a, "\"'`*. \t\n")
	if a == "" {
		return "", fmt.Errorf("%w: empty answer", ErrColumnNotFound)
	}

	for _, c := range columns {
		if c == a {
			return c, nil
		}
	}
	for _, c := range columns {
		if strings.EqualFold(strings.TrimSpace(c), a) {
			return c, nil
		}
	}

	// Longest header mentioned in the answer, if unambiguous.
	lower := strings.ToLower(a)
	var best string
	ambiguous := false
	for _, c := range columns {
		lc := strings.ToLower(strings.TrimSpace(c))
		if lc == "" || !containsWord(lower, lc) {
			continue
		}
		switch {
		case len(c) > len(best):
			best, ambiguous = c, false
		case len(c) == len(best):
			ambiguous = true
		}
	}
	if best != "" && !ambiguous {
		return best, nil
	}
	return "", fmt.Errorf("%w: %q", ErrColumnNotFound, answer)
}
