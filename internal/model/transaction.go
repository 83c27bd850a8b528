// Package model defines domain types for tripcost transactions and reports.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one raw row read from a statement export.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // charges are usually negative, refunds positive
	Source      string          // file the row came from
	Line        int             // 1-based data line within Source
}

// Window is the temporal bucket a transaction falls into relative to the trip.
type Window int

const (
	OutOfScope Window = iota
	InTrip
	AdvanceBooking
	TrailingDay
)

func (w Window) String() string {
	switch w {
	case InTrip:
		return "InTrip"
	case AdvanceBooking:
		return "AdvanceBooking"
	case TrailingDay:
		return "TrailingDay"
	default:
		return "OutOfScope"
	}
}

// Status is the binary inclusion outcome for a transaction.
type Status string

const (
	Accepted Status = "Accepted"
	Ignored  Status = "Ignored"
)

// Ignore reasons.
const (
	ReasonExcludedCategory     = "Subscription/Recurring Payment"
	ReasonOlderIrrelevant      = "Older irrelevant transaction"
	ReasonOutsideTrailingDay   = "Outside trailing-day allow-list"
	ReasonOutsideTripWindow    = "Outside trip window"
	ReasonClassificationFailed = "Classification failed"
)

// Decision is the Inclusion Filter verdict. Reason is empty when Accepted.
type Decision struct {
	Status Status
	Reason string
}

// Accepted reports whether the decision admits the transaction.
func (d Decision) Accepted() bool {
	return d.Status == Accepted
}

// Accept returns an accepting decision.
func Accept() Decision {
	return Decision{Status: Accepted}
}

// Ignore returns an ignoring decision with the given reason.
func Ignore(reason string) Decision {
	return Decision{Status: Ignored, Reason: reason}
}

// ClassifiedTransaction is a raw transaction plus its category, window and decision.
// It is never mutated after the run loop creates it.
type ClassifiedTransaction struct {
	Transaction
	Category string
	Window   Window
	Decision Decision
}

// Magnitude returns the absolute amount rounded to cents, as aggregated.
func (c ClassifiedTransaction) Magnitude() decimal.Decimal {
	return c.Amount.Abs().Round(2)
}
