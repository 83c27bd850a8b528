package oracle

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Field descriptions handed to the column identifier.
const (
	FieldDate        = "transaction date"
	FieldDescription = "name of the merchant"
	FieldAmount      = "transaction amount"
)

// Prompt holds the context that shapes categorisation prompts.
type Prompt struct {
	Categories []string
	Location   string
}

// CategorizeSystem returns the system instruction for categorisation.
func (p Prompt) CategorizeSystem() string {
	var b strings.Builder
	b.WriteString("You are a budgeting consultant. You are helping the user categorize financial transactions ")
	b.WriteString("from bank statements or credit cards, into one of these categories: ")
	b.WriteString(strings.Join(p.Categories, ", "))
	b.WriteString(". Negative amounts indicate payments, and positive amounts indicate refunds or credits. ")
	b.WriteString("Print only the category of the transaction and nothing else. ")
	b.WriteString("Pay special attention to the description, if you find full or partial names of airline companies ")
	b.WriteString("and larger expense amounts (say double digits to hundreds of dollars), then it is likely Airfare.")
	if p.Location != "" {
		fmt.Fprintf(&b, " The transactions were made around a trip to %s.", p.Location)
	}
	return b.String()
}

// CategorizeUser returns the per-transaction message.
func (p Prompt) CategorizeUser(description string, amount decimal.Decimal) string {
	return fmt.Sprintf("Description: '%s', amount: %s", description, amount.StringFixed(2))
}

// ColumnPrompt asks which header holds the described field.
func ColumnPrompt(columns []string, fieldDescription string) string {
	return fmt.Sprintf(
		"Among these columns in a credit card/banking statement, which one refers to the one with the '%s'? %s. Just list the name of the column.",
		fieldDescription, strings.Join(columns, ","),
	)
}
