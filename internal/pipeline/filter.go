package pipeline

import (
	"strings"

	"github.com/theirongolddev/tripcost/internal/config"
	"github.com/theirongolddev/tripcost/internal/model"
)

// Rules holds the per-window category lists the inclusion filter applies.
type Rules struct {
	excluded       categorySet
	advanceBooking categorySet
	trailingDay    categorySet
}

type categorySet map[string]struct{}

func newCategorySet(names []string) categorySet {
	s := make(categorySet, len(names))
	for _, n := range names {
		if k := categoryKey(n); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

func (s categorySet) has(name string) bool {
	_, ok := s[categoryKey(name)]
	return ok
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewRules builds filter rules. Membership checks ignore case and padding.
func NewRules(excluded, advanceBooking, trailingDay []string) Rules {
	return Rules{
		excluded:       newCategorySet(excluded),
		advanceBooking: newCategorySet(advanceBooking),
		trailingDay:    newCategorySet(trailingDay),
	}
}

// RulesFromConfig builds filter rules from the [categories] section.
func RulesFromConfig(c config.CategoriesConfig) Rules {
	return NewRules(c.Excluded, c.AdvanceBooking, c.TrailingDay)
}

// DefaultRules returns the built-in lists.
func DefaultRules() Rules {
	return NewRules(config.DefaultExcluded, config.DefaultAdvanceBooking, config.DefaultTrailingDay)
}

// Decide returns the inclusion decision for a categorised transaction.
//
//   - InTrip: accepted unless the category is excluded.
//   - AdvanceBooking: accepted only for advance-booking categories.
//   - TrailingDay: accepted only for trailing-day categories.
//   - OutOfScope: always ignored.
func (r Rules) Decide(w model.Window, category string) model.Decision {
	switch w {
	case model.InTrip:
		if r.excluded.has(category) {
			return model.Ignore(model.ReasonExcludedCategory)
		}
		return model.Accept()
	case model.AdvanceBooking:
		if r.advanceBooking.has(category) {
			return model.Accept()
		}
		return model.Ignore(model.ReasonOlderIrrelevant)
	case model.TrailingDay:
		if r.trailingDay.has(category) {
			return model.Accept()
		}
		return model.Ignore(model.ReasonOutsideTrailingDay)
	default:
		return model.Ignore(model.ReasonOutsideTripWindow)
	}
}
