// Package detector flags likely accidental re-submissions of the same
// real-world amount. The check is advisory only and never blocks a write.
package detector

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecentStore is the ledger lookup the detector needs.
type RecentStore interface {
	RecentAmountSeen(book string, amount decimal.Decimal, since time.Time) (bool, error)
}

// Detector implements the duplicate-submission heuristic.
type Detector struct {
	store     RecentStore
	lookback  time.Duration
	roundUnit decimal.Decimal
}

// New creates a detector. lookback bounds how far back matching entries
// are considered; roundUnit is the whole currency unit below which an
// amount counts as "odd" (round amounts are never flagged).
func New(store RecentStore, lookback time.Duration, roundUnit decimal.Decimal) *Detector {
	return &Detector{store: store, lookback: lookback, roundUnit: roundUnit}
}

// CheckPossibleDuplicate reports whether the amount looks like a
// re-submission: a non-round amount already recorded for the same book
// within the lookback window. Round amounts are common and never flagged,
// no matter how often they repeat.
func (d *Detector) CheckPossibleDuplicate(book string, amount decimal.Decimal) (bool, error) {
	if d.roundUnit.IsPositive() && amount.Mod(d.roundUnit).IsZero() {
		return false, nil
	}
	return d.store.RecentAmountSeen(book, amount, time.Now().Add(-d.lookback))
}
