// Package analytics computes profit/loss KPIs over calendar windows from
// current ledger state. Every call reads fresh data; nothing is cached.
package analytics

import (
	"fmt"
	"iter"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/Dan9191/bet-tracker/internal/models"
)

// Store is the ledger access the engine needs.
type Store interface {
	ListAggregates() ([]models.AggregateEntry, error)
	ListBets() ([]models.Bet, error)
}

// Engine computes window KPIs, the cumulative profit/loss series, and
// per-book performance.
type Engine struct {
	store Store
	today func() dates.Date
}

// NewEngine creates an analytics engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, today: dates.Today}
}

// WindowStats computes total risked, net profit/loss, and ROI for the
// named window. Aggregate entries contribute their entire totals to every
// window containing their bucket start date; partial overlaps are not
// prorated. Open bets never contribute. Empty windows yield zero stats.
func (e *Engine) WindowStats(window dates.Window) (models.WindowStats, error) {
	return e.rangeStats(window.Span(e.today()))
}

// AllTimeStats computes stats over the full recorded history.
func (e *Engine) AllTimeStats() (models.WindowStats, error) {
	all := dates.Range{From: dates.NewDate(1, 1, 1), To: dates.NewDate(9999, 12, 31)}
	return e.rangeStats(all)
}

// DayStats computes stats for a single day.
func (e *Engine) DayStats(day dates.Date) (models.WindowStats, error) {
	return e.rangeStats(dates.Range{From: day, To: day})
}

func (e *Engine) rangeStats(span dates.Range) (models.WindowStats, error) {
	entries, err := e.store.ListAggregates()
	if err != nil {
		return models.WindowStats{}, fmt.Errorf("window stats: %w", err)
	}
	bets, err := e.store.ListBets()
	if err != nil {
		return models.WindowStats{}, fmt.Errorf("window stats: %w", err)
	}

	risked := decimal.Zero
	pnl := decimal.Zero
	for _, entry := range entries {
		if !span.Contains(entry.EventDate) {
			continue
		}
		risked = risked.Add(entry.TotalRisked)
		pnl = pnl.Add(entry.PnL())
	}
	for _, bet := range bets {
		if !bet.Status.Settled() || !span.Contains(bet.EventDate) {
			continue
		}
		risked = risked.Add(bet.AmountRisked)
		if bet.PnL != nil {
			pnl = pnl.Add(*bet.PnL)
		}
	}

	stats := models.WindowStats{TotalRisked: risked, TotalPnL: pnl}
	if risked.IsPositive() {
		stats.ROIPct = pnl.Div(risked).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return stats, nil
}

// CumulativeSeries returns a finite, restartable sequence of
// (date, running profit/loss) points ordered by date ascending. Aggregate
// and settled-bet contributions on the same date are summed before
// accumulating. Data is read once when the series is built.
func (e *Engine) CumulativeSeries() (iter.Seq[models.SeriesPoint], error) {
	entries, err := e.store.ListAggregates()
	if err != nil {
		return nil, fmt.Errorf("cumulative series: %w", err)
	}
	bets, err := e.store.ListBets()
	if err != nil {
		return nil, fmt.Errorf("cumulative series: %w", err)
	}

	daily := make(map[dates.Date]decimal.Decimal)
	for _, entry := range entries {
		daily[entry.EventDate] = daily[entry.EventDate].Add(entry.PnL())
	}
	for _, bet := range bets {
		if !bet.Status.Settled() || bet.PnL == nil {
			continue
		}
		daily[bet.EventDate] = daily[bet.EventDate].Add(*bet.PnL)
	}

	days := make([]dates.Date, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b dates.Date) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	})

	return func(yield func(models.SeriesPoint) bool) {
		running := decimal.Zero
		for _, day := range days {
			running = running.Add(daily[day])
			if !yield(models.SeriesPoint{Date: day, CumulativePnL: running}) {
				return
			}
		}
	}, nil
}

// BookPerformance returns net profit/loss per book across all aggregate
// entries and settled bets.
func (e *Engine) BookPerformance() (map[string]decimal.Decimal, error) {
	entries, err := e.store.ListAggregates()
	if err != nil {
		return nil, fmt.Errorf("book performance: %w", err)
	}
	bets, err := e.store.ListBets()
	if err != nil {
		return nil, fmt.Errorf("book performance: %w", err)
	}

	perf := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		perf[entry.Book] = perf[entry.Book].Add(entry.PnL())
	}
	for _, bet := range bets {
		if !bet.Status.Settled() || bet.PnL == nil {
			continue
		}
		perf[bet.Book] = perf[bet.Book].Add(*bet.PnL)
	}
	return perf, nil
}
