package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// writeStatement creates a temp CSV file and returns its path.
func writeStatement(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_HeadersAndRecords(t *testing.T) {
	path := writeStatement(t,
		"\ufeffTransaction Date,Description,Amount",
		"2025-12-22,CAFE LUNA,-42.50",
		"",
		`2025-12-23,"HOTEL, DOWNTOWN",-310.00`,
	)

	table, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Headers[0]; got != "Transaction Date" {
		t.Errorf("Headers[0] = %q, want BOM stripped", got)
	}
	if len(table.Records) != 2 {
		t.Errorf("Records = %d, want 2 (blank line skipped)", len(table.Records))
	}
}

func TestReadFile_Empty(t *testing.T) {
	path := writeStatement(t, "")
	_, err := ReadFile(path)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestTransactions_MapsColumns(t *testing.T) {
	path := writeStatement(t,
		"Posted,Amount,Merchant,Memo",
		"12/22/2025,-42.50,CAFE   LUNA,x",
		"not-a-date,-1.00,BAD DATE,x",
		"12/24/2025,abc,BAD AMOUNT,x",
		"12/25/2025,\"$1,250.00\",HOTEL,x",
	)
	table, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	txns, skipped, err := table.Transactions(Columns{Date: "Posted", Description: "Merchant", Amount: "Amount"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("transactions = %d, want 2", len(txns))
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %d, want 2", len(skipped))
	}
	if skipped[0].Line != 3 || skipped[1].Line != 4 {
		t.Errorf("skipped lines = %d,%d, want 3,4", skipped[0].Line, skipped[1].Line)
	}

	first := txns[0]
	if first.Description != "CAFE LUNA" {
		t.Errorf("Description = %q, want collapsed whitespace", first.Description)
	}
	if !first.Amount.Equal(decimal.RequireFromString("-42.50")) {
		t.Errorf("Amount = %s, want -42.50", first.Amount)
	}
	if want := time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", first.Date, want)
	}
	if first.Line != 2 || first.Source != path {
		t.Errorf("origin = %s:%d, want %s:2", first.Source, first.Line, path)
	}
	if !txns[1].Amount.Equal(decimal.RequireFromString("1250")) {
		t.Errorf("Amount = %s, want 1250", txns[1].Amount)
	}
}

func TestTransactions_MissingColumn(t *testing.T) {
	table := &Table{Headers: []string{"Date", "Amount"}}
	_, _, err := table.Transactions(Columns{Date: "Date", Description: "Payee", Amount: "Amount"})
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"-42.50", "-42.5", false},
		{"42.50", "42.5", false},
		{"$1,234.56", "1234.56", false},
		{"(12.00)", "-12", false},
		{"12.00-", "-12", false},
		{" € 9.99 ", "9.99", false},
		{"$(12.50)", "-12.5", false},
		{"(-12.50)", "-12.5", false},
		{"-$12.00", "-12", false},
		{"-12.00-", "-12", false},
		{"", "", true},
		{"twelve", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2025-12-22",
		"2025-12-22 18:45:00",
		"2025-12-22T18:45:00Z",
		"2025/12/22",
		"12/22/2025",
		"12/22/25",
		"Dec 22, 2025",
		"22 Dec 2025",
		"22-Dec-2025",
		"2025-12-22 10:15",
		"12/22/2025 10:15",
		"12/22/2025 22:15:07",
		"12/22/2025 10:15:00 AM",
		"12/22/2025 08:01:00 PM",
		"12/22/2025 8:01 PM",
		"2025-12-22T23:30:00-05:00",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := ParseDate(in)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", in, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
			}
		})
	}

	if _, err := ParseDate("someday"); err == nil {
		t.Error("expected error for unrecognised date")
	}
}
