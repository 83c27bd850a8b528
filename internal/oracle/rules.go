package oracle

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	yaml "gopkg.in/yaml.v2"
)

// Rules classifies descriptions with regular expressions, no model needed.
// The file format maps a category to its patterns:
//
//	Airfare:
//	  - "\\bDELTA\\b"
//	  - "UNITED AIR"
//	Transport: ["UBER", "LYFT", "METRO"]
//
// Categories are tried in file order; patterns are case-insensitive.
type Rules struct {
	rules []rule
}

type rule struct {
	category string
	patterns []*regexp.Regexp
}

// LoadRules reads a rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	return r, nil
}

// ParseRules parses rules from YAML.
func ParseRules(data []byte) (*Rules, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	r := &Rules{}
	for _, item := range doc {
		category := strings.TrimSpace(fmt.Sprint(item.Key))
		if category == "" {
			continue
		}
		raw, ok := item.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("category %q: want a list of patterns", category)
		}
		ru := rule{category: category}
		for _, p := range raw {
			pattern := fmt.Sprint(p)
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				return nil, fmt.Errorf("category %q: %w", category, err)
			}
			ru.patterns = append(ru.patterns, re)
		}
		r.rules = append(r.rules, ru)
	}
	return r, nil
}

// Len returns the number of categories with rules.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Match returns the first category whose pattern matches description.
func (r *Rules) Match(description string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, ru := range r.rules {
		for _, re := range ru.patterns {
			if re.MatchString(description) {
				return ru.category, true
			}
		}
	}
	return "", false
}

// CategorizeExpense returns the matching category or ErrNoRuleMatch.
func (r *Rules) CategorizeExpense(_ context.Context, description string, _ decimal.Decimal) (string, error) {
	if c, ok := r.Match(description); ok {
		return c, nil
	}
	return "", ErrNoRuleMatch
}

// WithRules consults rules before falling through to next.
// A nil or empty rule set returns next unchanged.
func WithRules(r *Rules, next CategoryClassifier) CategoryClassifier {
	if r.Len() == 0 {
		return next
	}
	return ClassifierFunc(func(ctx context.Context, description string, amount decimal.Decimal) (string, error) {
		if c, ok := r.Match(description); ok {
			return c, nil
		}
		return next.CategorizeExpense(ctx, description, amount)
	})
}
