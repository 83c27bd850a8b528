package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/tripcost/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassifyWindow(t *testing.T) {
	start, end := date("2025-12-20"), date("2025-12-27")

	tests := []struct {
		name    string
		date    time.Time
		advance int
		want    model.Window
	}{
		{"trip start", date("2025-12-20"), 3, model.InTrip},
		{"mid trip", date("2025-12-22"), 3, model.InTrip},
		{"trip end", date("2025-12-27"), 3, model.InTrip},
		{"trip end late evening", time.Date(2025, 12, 27, 23, 59, 0, 0, time.UTC), 3, model.InTrip},
		{"day after end", date("2025-12-28"), 3, model.TrailingDay},
		{"two days after end", date("2025-12-29"), 3, model.OutOfScope},
		{"day before start", date("2025-12-19"), 1, model.AdvanceBooking},
		{"within one month", date("2025-11-25"), 1, model.AdvanceBooking},
		{"first advance day", date("2025-11-20"), 1, model.AdvanceBooking},
		{"before advance window", date("2025-11-19"), 1, model.OutOfScope},
		{"three months back", date("2025-09-21"), 3, model.AdvanceBooking},
		{"advance disabled", date("2025-12-19"), 0, model.OutOfScope},
		{"far past", date("2024-01-01"), 3, model.OutOfScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyWindow(tt.date, start, end, tt.advance)
			if got != tt.want {
				t.Errorf("ClassifyWindow(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestClassifyWindow_SingleDayTrip(t *testing.T) {
	day := date("2025-06-01")
	if got := ClassifyWindow(day, day, day, 1); got != model.InTrip {
		t.Errorf("same day = %v, want InTrip", got)
	}
	if got := ClassifyWindow(date("2025-06-02"), day, day, 1); got != model.TrailingDay {
		t.Errorf("next day = %v, want TrailingDay", got)
	}
}

func TestClassifyWindow_IgnoresTripTimeOfDay(t *testing.T) {
	start := time.Date(2025, 12, 20, 18, 30, 0, 0, time.UTC)
	end := time.Date(2025, 12, 27, 6, 0, 0, 0, time.UTC)
	if got := ClassifyWindow(date("2025-12-20"), start, end, 0); got != model.InTrip {
		t.Errorf("start day = %v, want InTrip", got)
	}
	if got := ClassifyWindow(date("2025-12-28"), start, end, 0); got != model.TrailingDay {
		t.Errorf("day after end = %v, want TrailingDay", got)
	}
}
