package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// completer sends one system+user exchange to a chat model.
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
}

// LLM answers both oracle questions by prompting a chat model.
type LLM struct {
	provider string
	model    string
	prompt   Prompt
	chat     completer
}

// Name identifies the provider and model, e.g. "ollama:gemma3:12b".
func (l *LLM) Name() string {
	return l.provider + ":" + l.model
}

// Provider returns the provider name.
func (l *LLM) Provider() string { return l.provider }

// Model returns the model name.
func (l *LLM) Model() string { return l.model }

// CategorizeExpense returns the raw label the model printed, trimmed.
// Validation against the known set happens in Normalizer.
func (l *LLM) CategorizeExpense(ctx context.Context, description string, amount decimal.Decimal) (string, error) {
	out, err := l.chat.complete(ctx, l.prompt.CategorizeSystem(), l.prompt.CategorizeUser(description, amount))
	if err != nil {
		return "", fmt.Errorf("%s: categorizing %q: %w", l.provider, description, err)
	}
	label := strings.TrimSpace(out)
	if label == "" {
		return "", ErrEmptyLabel
	}
	return label, nil
}

// ColumnName asks the model for a header and validates the answer.
func (l *LLM) ColumnName(ctx context.Context, columns []string, fieldDescription string) (string, error) {
	out, err := l.chat.complete(ctx, "", ColumnPrompt(columns, fieldDescription))
	if err != nil {
		return "", fmt.Errorf("%s: identifying %s column: %w", l.provider, fieldDescription, err)
	}
	return ValidateColumn(out, columns)
}
