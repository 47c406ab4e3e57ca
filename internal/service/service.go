// Package service orchestrates the ledger core for the management surface.
package service

import (
	"iter"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bet-tracker/internal/analytics"
	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/Dan9191/bet-tracker/internal/detector"
	"github.com/Dan9191/bet-tracker/internal/models"
	"github.com/Dan9191/bet-tracker/internal/repository"
)

// Service handles business logic on top of the ledger store.
type Service struct {
	repo      *repository.Ledger
	analytics *analytics.Engine
	detector  *detector.Detector
	log       *logrus.Logger
}

// NewService initializes a new service.
func NewService(repo *repository.Ledger, engine *analytics.Engine, det *detector.Detector, log *logrus.Logger) *Service {
	return &Service{repo: repo, analytics: engine, detector: det, log: log}
}

// LogAggregate merges a submission into the matching aggregate row and
// returns an advisory duplicate flag for the caller to surface. Both
// submitted amounts are checked, since entries may carry the amount in
// the won column with nothing risked. The flag never blocks the write.
func (s *Service) LogAggregate(id models.AggregateIdentity, risked, won decimal.Decimal) (bool, error) {
	possibleDup := s.checkDuplicate(id.Book, risked, won)
	if err := s.repo.UpsertAggregate(id, risked, won); err != nil {
		return false, err
	}
	if possibleDup {
		s.log.Warnf("Possible duplicate submission: %s %s on %s", id.Book, risked, id.EventDate)
	}
	s.log.Infof("Aggregate logged: %s %s risked=%s won=%s", id.Book, id.Granularity, risked, won)
	return possibleDup, nil
}

// checkDuplicate runs the advisory heuristic over each submitted amount.
// Lookup failures are logged and treated as no match so the write still
// proceeds.
func (s *Service) checkDuplicate(book string, amounts ...decimal.Decimal) bool {
	for _, amount := range amounts {
		dup, err := s.detector.CheckPossibleDuplicate(book, amount)
		if err != nil {
			s.log.Warnf("Duplicate check failed for %s: %v", book, err)
			return false
		}
		if dup {
			return true
		}
	}
	return false
}

// EditAggregate overwrites an aggregate row's totals (manual correction).
func (s *Service) EditAggregate(id models.AggregateIdentity, newRisked, newWon decimal.Decimal) error {
	if err := s.repo.EditAggregate(id, newRisked, newWon); err != nil {
		return err
	}
	s.log.Infof("Aggregate edited: %s %s on %s", id.Book, id.Granularity, id.EventDate)
	return nil
}

// DeleteAggregate removes one aggregate row.
func (s *Service) DeleteAggregate(id models.AggregateIdentity) error {
	return s.repo.DeleteAggregate(id)
}

// DeleteAllAggregates removes every aggregate row.
func (s *Service) DeleteAllAggregates() error {
	if err := s.repo.DeleteAllAggregates(); err != nil {
		return err
	}
	s.log.Warn("All aggregate entries deleted")
	return nil
}

// ListAggregates returns all aggregate rows.
func (s *Service) ListAggregates() ([]models.AggregateEntry, error) {
	return s.repo.ListAggregates()
}

// RecentAggregates returns the newest aggregate rows for the history view.
func (s *Service) RecentAggregates(limit int) ([]models.AggregateEntry, error) {
	return s.repo.RecentAggregates(limit)
}

// PlaceBet records a new wager and returns it along with an advisory
// duplicate flag.
func (s *Service) PlaceBet(bet models.Bet) (models.Bet, bool, error) {
	possibleDup := s.checkDuplicate(bet.Book, bet.AmountRisked)
	stored, err := s.repo.InsertBet(bet)
	if err != nil {
		return models.Bet{}, false, err
	}
	s.log.Infof("Bet placed: id=%d %s %s at %+d (%s)",
		stored.ID, stored.Book, stored.AmountRisked, stored.AmericanOdds, stored.Status)
	return stored, possibleDup, nil
}

// UpdateBet applies a partial update; settling a bet computes its
// profit/loss.
func (s *Service) UpdateBet(id int64, patch models.BetUpdate) (models.Bet, error) {
	bet, err := s.repo.UpdateBet(id, patch)
	if err != nil {
		return models.Bet{}, err
	}
	if bet.PnL != nil {
		s.log.Infof("Bet %d updated: status=%s pnl=%s", bet.ID, bet.Status, bet.PnL)
	} else {
		s.log.Infof("Bet %d updated: status=%s", bet.ID, bet.Status)
	}
	return bet, nil
}

// DeleteBet removes one bet.
func (s *Service) DeleteBet(id int64) error {
	return s.repo.DeleteBet(id)
}

// DeleteAllBets removes every bet.
func (s *Service) DeleteAllBets() error {
	if err := s.repo.DeleteAllBets(); err != nil {
		return err
	}
	s.log.Warn("All bets deleted")
	return nil
}

// ListBets returns all bets.
func (s *Service) ListBets() ([]models.Bet, error) {
	return s.repo.ListBets()
}

// WindowStats computes KPIs for a named window.
func (s *Service) WindowStats(window dates.Window) (models.WindowStats, error) {
	return s.analytics.WindowStats(window)
}

// AllTimeStats computes KPIs over the full history.
func (s *Service) AllTimeStats() (models.WindowStats, error) {
	return s.analytics.AllTimeStats()
}

// CumulativeSeries returns the running profit/loss series.
func (s *Service) CumulativeSeries() (iter.Seq[models.SeriesPoint], error) {
	return s.analytics.CumulativeSeries()
}

// BookPerformance returns net profit/loss per book.
func (s *Service) BookPerformance() (map[string]decimal.Decimal, error) {
	return s.analytics.BookPerformance()
}

// LogDailySummary logs the previous day's KPIs. Wired to the nightly
// cron schedule in main.
func (s *Service) LogDailySummary() {
	yesterday := dates.Today().Add(-1)
	stats, err := s.analytics.DayStats(yesterday)
	if err != nil {
		s.log.Errorf("Daily summary failed for %s: %v", yesterday, err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"date":         yesterday.String(),
		"total_risked": stats.TotalRisked.String(),
		"total_pnl":    stats.TotalPnL.String(),
		"roi_pct":      stats.ROIPct,
	}).Info("Daily summary")
}
