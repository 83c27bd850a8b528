// Package source discovers and reads bank and credit-card statement CSVs.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripcost/internal/model"
)

// Accepted date layouts, tried in order. US month-first wins over
// day-first for ambiguous dates, matching most card exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Mon, 02 Jan 2006",
}

var (
	// ErrEmptyFile is returned for a file without a header row.
	ErrEmptyFile = errors.New("file has no header row")
	// ErrMissingColumn is returned when a mapped header is not in the file.
	ErrMissingColumn = errors.New("column not present in file")
)

// ReadFile reads a statement CSV. The first non-empty record is the header.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(path, bytes.NewReader(data))
}

// Read parses CSV content from r. Records may have a varying number of fields.
func Read(path string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	t := &Table{Path: path}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if isBlank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = make([]string, len(rec))
			for i, h := range rec {
				t.Headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
			}
			continue
		}
		t.Records = append(t.Records, rec)
	}

	if t.Headers == nil {
		return nil, fmt.Errorf("reading %s: %w", path, ErrEmptyFile)
	}
	return t, nil
}

// Index returns the position of header name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Transactions converts records to transactions using the column mapping.
// Rows whose date or amount cannot be parsed are reported, not returned.
func (t *Table) Transactions(cols Columns) ([]model.Transaction, []RowError, error) {
	di, ni, ai := t.Index(cols.Date), t.Index(cols.Description), t.Index(cols.Amount)
	for _, c := range []struct {
		name string
		idx  int
	}{{cols.Date, di}, {cols.Description, ni}, {cols.Amount, ai}} {
		if c.idx < 0 {
			return nil, nil, fmt.Errorf("%q: %w", c.name, ErrMissingColumn)
		}
	}

	var (
		txns    []model.Transaction
		skipped []RowError
	)
	for i, rec := range t.Records {
		line := i + 2 // 1-based, after the header
		date, err := ParseDate(field(rec, di))
		if err != nil {
			skipped = append(skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		amount, err := ParseAmount(field(rec, ai))
		if err != nil {
			skipped = append(skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		txns = append(txns, model.Transaction{
			Date:        date,
			Description: cleanDescription(field(rec, ni)),
			Amount:      amount,
			Source:      t.Path,
			Line:        line,
		})
	}
	return txns, skipped, nil
}

// ParseDate parses a statement date. The known layouts are tried first;
// anything else goes to dateparse, which reads month-first. Time of day
// is dropped: the result is the calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDay(t), nil
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(true)); err == nil {
		return calendarDay(t), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseAmount parses a money amount. Currency symbols, thousands separators
// and surrounding whitespace are ignored. Accounting parentheses and a
// trailing minus denote negatives: "(12.50)", "$(12.50)" and "12.50-" are
// -12.50. A value that is already negative stays negative.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSuffix(s, "-")
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognised amount %q", raw)
	}
	if neg && d.IsPositive() {
		d = d.Neg()
	}
	return d, nil
}

func field(rec []string, idx int) string {
	if idx < len(rec) {
		return rec[idx]
	}
	return ""
}

func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
