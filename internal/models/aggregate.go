package models

import (
	"time"

	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/shopspring/decimal"
)

// AggregateIdentity is the composite key of an aggregate entry: at most
// one live row exists per (bucket start date, book, granularity) triple.
type AggregateIdentity struct {
	EventDate   dates.Date        `json:"event_date"`
	Book        string            `json:"book"`
	Granularity dates.Granularity `json:"granularity"`
}

// AggregateEntry is a book-level, granularity-bucketed accumulation of
// risked/won totals, merged additively across submissions.
type AggregateEntry struct {
	AggregateIdentity
	TotalRisked decimal.Decimal `json:"total_risked"`
	TotalWon    decimal.Decimal `json:"total_won"`
	LastUpdated time.Time       `json:"last_updated"`
}

// PnL returns the entry's net profit/loss (won minus risked).
func (e AggregateEntry) PnL() decimal.Decimal {
	return e.TotalWon.Sub(e.TotalRisked)
}
