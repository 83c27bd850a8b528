package oracle

import (
	"context"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Normalizer maps free-form labels onto a closed category set.
type Normalizer struct {
	Known    []string
	Fallback string
}

// Normalize returns the known category matching label. Matching ignores
// case, surrounding quotes and punctuation, a leading "Category:", and
// singular versus plural words ("Subscription" is "Subscriptions").
// A label containing a known name maps to the longest such name; anything
// else non-empty maps to Fallback.
func (n Normalizer) Normalize(label string) (string, error) {
	clean := cleanLabel(label)
	if clean == "" {
		return "", ErrEmptyLabel
	}

	for _, k := range n.Known {
		if strings.EqualFold(clean, k) {
			return k, nil
		}
	}

	stem := stemPhrase(clean)
	for _, k := range n.Known {
		if stem == stemPhrase(k) {
			return k, nil
		}
	}

	// Prefer the longest contained name so "Recurring Payments" beats "Payments".
	var best string
	for _, k := range n.Known {
		if containsWord(stem, stemPhrase(k)) && len(k) > len(best) {
			best = k
		}
	}
	if best != "" {
		return best, nil
	}
	return n.Fallback, nil
}

// stemPhrase lowercases s and reduces each word to a singular form.
func stemPhrase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = singular(w)
	}
	return strings.Join(words, " ")
}

// singular strips common English plural endings: "groceries" becomes
// "grocery", "payments" becomes "payment". Words ending in "ss" keep it.
func singular(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

func cleanLabel(s string) string {
	if i := strings.IndexByte(strings.TrimSpace(s), '\n'); i >= 0 {
		s = strings.TrimSpace(s)[:i]
	}
	s = trimPunct(s)
	if lower := strings.ToLower(s); strings.HasPrefix(lower, "category:") || strings.HasPrefix(lower, "category ") {
		s = trimPunct(s[len("category"):])
	}
	return strings.Join(strings.Fields(s), " ")
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

func containsWord(haystack, needle string) bool {
	for start := 0; ; {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(needle)
		beforeOK := i == 0 || !isWordByte(haystack[i-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// Normalized wraps a classifier so every label it returns is validated.
type Normalized struct {
	Inner      CategoryClassifier
	Normalizer Normalizer
}

// CategorizeExpense classifies and normalises.
func (n Normalized) CategorizeExpense(ctx context.Context, description string, amount decimal.Decimal) (string, error) {
	label, err := n.Inner.CategorizeExpense(ctx, description, amount)
	if err != nil {
		return "", err
	}
	return n.Normalizer.Normalize(label)
}
