package txlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripcost/internal/logger"
	"github.com/theirongolddev/tripcost/internal/model"
)

func sample(category string, d model.Decision) model.ClassifiedTransaction {
	return model.ClassifiedTransaction{
		Transaction: model.Transaction{
			Date:        time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC),
			Description: "CAFE LUNA",
			Amount:      decimal.RequireFromString("-42.5"),
			Source:      "visa.csv",
			Line:        7,
		},
		Category: category,
		Window:   model.InTrip,
		Decision: d,
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name string
		in   model.ClassifiedTransaction
		want string
	}{
		{"accepted", sample("Meals", model.Accept()), "2025-12-22|CAFE LUNA|$-42.50|Meals|Accepted"},
		{"ignored", sample("Subscriptions", model.Ignore(model.ReasonExcludedCategory)),
			"2025-12-22|CAFE LUNA|$-42.50|Subscriptions|Ignored|Subscription/Recurring Payment"},
		{"unclassified", sample("", model.Ignore(model.ReasonClassificationFailed)),
			"2025-12-22|CAFE LUNA|$-42.50|-|Ignored|Classification failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.in); got != tt.want {
				t.Errorf("FormatLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConsole_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.LogInfo("Processing file: visa.csv")
	c.LogTransaction(sample("Meals", model.Accept()))

	want := "Processing file: visa.csv\n2025-12-22|CAFE LUNA|$-42.50|Meals|Accepted\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestStructured_Fields(t *testing.T) {
	var buf bytes.Buffer
	s := NewStructured(logger.NewWithWriter(&buf))
	s.LogTransaction(sample("Meals", model.Accept()))

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("not JSON: %v (%s)", err, buf.String())
	}
	checks := map[string]any{
		"date": "2025-12-22", "amount": "-42.50", "category": "Meals",
		"window": "InTrip", "status": "Accepted", "level": "info",
	}
	for k, want := range checks {
		if ev[k] != want {
			t.Errorf("%s = %v, want %v", k, ev[k], want)
		}
	}
}

func TestStructured_FailureIsWarn(t *testing.T) {
	var buf bytes.Buffer
	s := NewStructured(logger.NewWithWriter(&buf))
	s.LogTransaction(sample("", model.Ignore(model.ReasonClassificationFailed)))
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("expected warn level, got %s", buf.String())
	}
}

func TestMulti_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi{NewConsole(&a, false), nil, NewConsole(&b, false)}
	m.LogInfo("hello")
	m.LogTransaction(sample("Meals", model.Accept()))
	if a.String() != b.String() || !strings.Contains(a.String(), "hello") {
		t.Errorf("sinks diverged: %q vs %q", a.String(), b.String())
	}
}
