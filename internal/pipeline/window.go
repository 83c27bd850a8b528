package pipeline

import (
	"time"

	"github.com/theirongolddev/tripcost/internal/model"
)

// daysPerMonth is the fixed month length used for the advance window.
const daysPerMonth = 30

// ClassifyWindow places date relative to the trip. Windows are checked in
// priority order InTrip, AdvanceBooking, TrailingDay, so a date that fits
// several gets the first. Only calendar days are compared.
//
// The advance window runs from start−advanceMonths·30 days to the day
// before start; advanceMonths of zero disables it.
func ClassifyWindow(date, tripStart, tripEnd time.Time, advanceMonths int) model.Window {
	d, start, end := calendarDay(date), calendarDay(tripStart), calendarDay(tripEnd)

	if !d.Before(start) && !d.After(end) {
		return model.InTrip
	}
	if advanceMonths > 0 {
		from := start.AddDate(0, 0, -advanceMonths*daysPerMonth)
		if !d.Before(from) && d.Before(start) {
			return model.AdvanceBooking
		}
	}
	if d.Equal(end.AddDate(0, 0, 1)) {
		return model.TrailingDay
	}
	return model.OutOfScope
}

// calendarDay drops the time of day, keeping the date as written in t's location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
