// Package report renders the accepted transactions and totals of a run.
package report

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/theirongolddev/tripcost/internal/model"
)

// Report is everything a writer needs.
type Report struct {
	RunID       string
	Trip        model.Trip
	Accepted    []model.ClassifiedTransaction
	Summary     model.Summary
	Destination string
}

// Writer renders a report somewhere.
type Writer interface {
	WriteReport(ctx context.Context, r Report) error
}

// Multi writes the report with every writer, returning all failures joined.
type Multi []Writer

// WriteReport calls each writer in order.
func (m Multi) WriteReport(ctx context.Context, r Report) error {
	var errs []error
	for _, w := range m {
		if w == nil {
			continue
		}
		if err := w.WriteReport(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EnsureExtension appends ext to dest unless dest already ends with it.
func EnsureExtension(dest, ext string) string {
	if strings.EqualFold(filepath.Ext(dest), ext) {
		return dest
	}
	return dest + ext
}

const maxSheetName = 31

// SheetNames assigns each category a valid, unique worksheet name. Names
// lose the characters []:*?/\ and are cut to 31 characters; collisions
// after cutting, or with reserved names, get a " (n)" suffix.
func SheetNames(categories []string, reserved ...string) map[string]string {
	used := make(map[string]struct{})
	for _, r := range reserved {
		used[strings.ToLower(r)] = struct{}{}
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		base := sanitizeSheetName(c)
		name := base
		for n := 2; ; n++ {
			if _, taken := used[strings.ToLower(name)]; !taken {
				break
			}
			suffix := " (" + strconv.Itoa(n) + ")"
			name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = struct{}{}
		names[c] = name
	}
	return names
}

func sanitizeSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return -1
		}
		return r
	}, s)
	s = strings.Trim(strings.TrimSpace(s), "'")
	if s == "" {
		s = "Uncategorized"
	}
	return truncateRunes(s, maxSheetName)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
