// Package repository persists aggregate entries and individual bets in a
// local SQLite database and owns all mutation of both entity kinds.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/Dan9191/bet-tracker/internal/models"
	"github.com/Dan9191/bet-tracker/internal/odds"
)

const timeFormat = time.RFC3339

// Ledger provides database operations for aggregate entries and bets.
type Ledger struct {
	db *sqlx.DB
}

// New opens (or creates) the SQLite database at the given path and
// migrates the schema. Use ":memory:" for an in-memory database.
func New(path string) (*Ledger, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w: %w", models.ErrStorage, err)
	}
	// SQLite allows one writer at a time; a single pooled connection also
	// keeps :memory: databases from being recreated per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %w", models.ErrStorage, err)
	}
	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error { return l.db.Close() }

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		event_date         TEXT    NOT NULL,
		book               TEXT    NOT NULL,
		granularity        TEXT    NOT NULL,
		total_risked_cents INTEGER NOT NULL DEFAULT 0,
		total_won_cents    INTEGER NOT NULL DEFAULT 0,
		last_updated       TEXT    NOT NULL,
		UNIQUE (event_date, book, granularity)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_book
		ON transactions(book);
	CREATE INDEX IF NOT EXISTS idx_transactions_last_updated
		ON transactions(last_updated);

	CREATE TABLE IF NOT EXISTS bets (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		event_date          TEXT    NOT NULL,
		book                TEXT    NOT NULL,
		description         TEXT,
		amount_risked_cents INTEGER NOT NULL,
		american_odds       INTEGER NOT NULL,
		status              TEXT    NOT NULL,
		pnl_cents           INTEGER,
		last_updated        TEXT    NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bets_book
		ON bets(book);
	CREATE INDEX IF NOT EXISTS idx_bets_event_date
		ON bets(event_date);`

	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w: %w", models.ErrStorage, err)
	}
	return nil
}

// toCents converts a monetary value to integer cents. Amounts with
// sub-cent precision are rejected rather than rounded.
func toCents(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s has sub-cent precision", models.ErrInvalidAmount, d)
	}
	return shifted.IntPart(), nil
}

func fromCents(c int64) decimal.Decimal { return decimal.New(c, -2) }

type aggregateRow struct {
	EventDate   dates.Date `db:"event_date"`
	Book        string     `db:"book"`
	Granularity string     `db:"granularity"`
	RiskedCents int64      `db:"total_risked_cents"`
	WonCents    int64      `db:"total_won_cents"`
	LastUpdated string     `db:"last_updated"`
}

func (r aggregateRow) toEntry() models.AggregateEntry {
	updated, _ := time.Parse(timeFormat, r.LastUpdated)
	return models.AggregateEntry{
		AggregateIdentity: models.AggregateIdentity{
			EventDate:   r.EventDate,
			Book:        r.Book,
			Granularity: dates.Granularity(r.Granularity),
		},
		TotalRisked: fromCents(r.RiskedCents),
		TotalWon:    fromCents(r.WonCents),
		LastUpdated: updated,
	}
}

// UpsertAggregate additively merges the deltas into the row identified by
// (event date, book, granularity), creating it on first submission. The
// read-modify-write is a single conditional-increment statement, so
// concurrent submissions for the same triple serialize in the database
// and increments are never lost. Deltas must be non-negative.
func (l *Ledger) UpsertAggregate(id models.AggregateIdentity, riskedDelta, wonDelta decimal.Decimal) error {
	if riskedDelta.IsNegative() || wonDelta.IsNegative() {
		return fmt.Errorf("%w: upsert deltas must be non-negative (risked %s, won %s)",
			models.ErrInvalidAmount, riskedDelta, wonDelta)
	}
	riskedCents, err := toCents(riskedDelta)
	if err != nil {
		return err
	}
	wonCents, err := toCents(wonDelta)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (event_date, book, granularity, total_risked_cents, total_won_cents, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_date, book, granularity) DO UPDATE SET
			total_risked_cents = total_risked_cents + excluded.total_risked_cents,
			total_won_cents    = total_won_cents + excluded.total_won_cents,
			last_updated       = excluded.last_updated`
	_, err = l.db.Exec(query, id.EventDate, id.Book, string(id.Granularity), riskedCents, wonCents, now())
	if err != nil {
		return fmt.Errorf("upsert aggregate: %w: %w", models.ErrStorage, err)
	}
	return nil
}

// EditAggregate overwrites the totals of an existing row. It bypasses the
// additive merge and is intended for manual correction only.
func (l *Ledger) EditAggregate(id models.AggregateIdentity, newRisked, newWon decimal.Decimal) error {
	if newRisked.IsNegative() || newWon.IsNegative() {
		return fmt.Errorf("%w: totals must be non-negative (risked %s, won %s)",
			models.ErrInvalidAmount, newRisked, newWon)
	}
	riskedCents, err := toCents(newRisked)
	if err != nil {
		return err
	}
	wonCents, err := toCents(newWon)
	if err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET total_risked_cents = ?, total_won_cents = ?, last_updated = ?
		WHERE event_date = ? AND book = ? AND granularity = ?`
	res, err := l.db.Exec(query, riskedCents, wonCents, now(), id.EventDate, id.Book, string(id.Granularity))
	if err != nil {
		return fmt.Errorf("edit aggregate: %w: %w", models.ErrStorage, err)
	}
	return requireAffected(res, "aggregate entry")
}

// DeleteAggregate removes the row identified by the triple.
func (l *Ledger) DeleteAggregate(id models.AggregateIdentity) error {
	query := `DELETE FROM transactions WHERE event_date = ? AND book = ? AND granularity = ?`
	res, err := l.db.Exec(query, id.EventDate, id.Book, string(id.Granularity))
	if err != nil {
		return fmt.Errorf("delete aggregate: %w: %w", models.ErrStorage, err)
	}
	return requireAffected(res, "aggregate entry")
}

// DeleteAllAggregates removes every aggregate row.
func (l *Ledger) DeleteAllAggregates() error {
	if _, err := l.db.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete all aggregates: %w: %w", models.ErrStorage, err)
	}
	return nil
}

// ListAggregates returns all aggregate rows ordered by event date ascending.
func (l *Ledger) ListAggregates() ([]models.AggregateEntry, error) {
	var rows []aggregateRow
	query := `
		SELECT event_date, book, granularity, total_risked_cents, total_won_cents, last_updated
		FROM transactions
		ORDER BY event_date ASC, book ASC, granularity ASC`
	if err := l.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("list aggregates: %w: %w", models.ErrStorage, err)
	}
	entries := make([]models.AggregateEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toEntry())
	}
	return entries, nil
}

// RecentAggregates returns the most recent rows by event date, newest first.
func (l *Ledger) RecentAggregates(limit int) ([]models.AggregateEntry, error) {
	var rows []aggregateRow
	query := `
		SELECT event_date, book, granularity, total_risked_cents, total_won_cents, last_updated
		FROM transactions
		ORDER BY event_date DESC, last_updated DESC
		LIMIT ?`
	if err := l.db.Select(&rows, query, limit); err != nil {
		return nil, fmt.Errorf("recent aggregates: %w: %w", models.ErrStorage, err)
	}
	entries := make([]models.AggregateEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toEntry())
	}
	return entries, nil
}

type betRow struct {
	ID           int64          `db:"id"`
	EventDate    dates.Date     `db:"event_date"`
	Book         string         `db:"book"`
	Description  sql.NullString `db:"description"`
	AmountCents  int64          `db:"amount_risked_cents"`
	AmericanOdds int            `db:"american_odds"`
	Status       string         `db:"status"`
	PnLCents     sql.NullInt64  `db:"pnl_cents"`
	LastUpdated  string         `db:"last_updated"`
}

func (r betRow) toBet() models.Bet {
	updated, _ := time.Parse(timeFormat, r.LastUpdated)
	bet := models.Bet{
		ID:           r.ID,
		EventDate:    r.EventDate,
		Book:         r.Book,
		Description:  r.Description.String,
		AmountRisked: fromCents(r.AmountCents),
		AmericanOdds: r.AmericanOdds,
		Status:       models.BetStatus(r.Status),
		LastUpdated:  updated,
	}
	if r.PnLCents.Valid {
		pnl := fromCents(r.PnLCents.Int64)
		bet.PnL = &pnl
	}
	return bet
}

// InsertBet stores a new wager. A bet inserted as won or lost gets its
// profit/loss computed immediately; an open bet leaves it unset.
func (l *Ledger) InsertBet(bet models.Bet) (models.Bet, error) {
	status, err := models.ParseBetStatus(string(bet.Status))
	if err != nil {
		return models.Bet{}, err
	}
	bet.Status = status
	if !bet.AmountRisked.IsPositive() {
		return models.Bet{}, fmt.Errorf("%w: stake must be positive, got %s", models.ErrInvalidAmount, bet.AmountRisked)
	}
	if bet.AmericanOdds == 0 {
		return models.Bet{}, fmt.Errorf("%w: American odds cannot be zero", models.ErrInvalidOdds)
	}
	amountCents, err := toCents(bet.AmountRisked)
	if err != nil {
		return models.Bet{}, err
	}

	var pnlCents sql.NullInt64
	bet.PnL = nil
	if bet.Status.Settled() {
		pnl, err := odds.Settle(bet.AmountRisked, bet.AmericanOdds, bet.Status)
		if err != nil {
			return models.Bet{}, err
		}
		cents, err := toCents(pnl)
		if err != nil {
			return models.Bet{}, err
		}
		pnlCents = sql.NullInt64{Int64: cents, Valid: true}
		bet.PnL = &pnl
	}

	updated := now()
	query := `
		INSERT INTO bets (event_date, book, description, amount_risked_cents, american_odds, status, pnl_cents, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := l.db.Exec(query, bet.EventDate, bet.Book, nullString(bet.Description),
		amountCents, bet.AmericanOdds, string(bet.Status), pnlCents, updated)
	if err != nil {
		return models.Bet{}, fmt.Errorf("insert bet: %w: %w", models.ErrStorage, err)
	}
	bet.ID, err = res.LastInsertId()
	if err != nil {
		return models.Bet{}, fmt.Errorf("insert bet: %w: %w", models.ErrStorage, err)
	}
	bet.LastUpdated, _ = time.Parse(timeFormat, updated)
	return bet, nil
}

// UpdateBet applies a partial update to a bet inside one transaction.
// The only legal status transition is open to won or lost. Whenever the
// resulting bet is settled, profit/loss is re-derived from the current
// stake and odds so an edit can never leave it stale.
func (l *Ledger) UpdateBet(id int64, patch models.BetUpdate) (models.Bet, error) {
	tx, err := l.db.Beginx()
	if err != nil {
		return models.Bet{}, fmt.Errorf("update bet: %w: %w", models.ErrStorage, err)
	}
	defer tx.Rollback()

	var row betRow
	query := `
		SELECT id, event_date, book, description, amount_risked_cents, american_odds, status, pnl_cents, last_updated
		FROM bets WHERE id = ?`
	if err := tx.Get(&row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Bet{}, fmt.Errorf("%w: bet %d", models.ErrNotFound, id)
		}
		return models.Bet{}, fmt.Errorf("update bet: %w: %w", models.ErrStorage, err)
	}
	bet := row.toBet()

	if patch.EventDate != nil {
		bet.EventDate = *patch.EventDate
	}
	if patch.Book != nil {
		bet.Book = *patch.Book
	}
	if patch.Description != nil {
		bet.Description = *patch.Description
	}
	if patch.AmountRisked != nil {
		bet.AmountRisked = *patch.AmountRisked
	}
	if patch.AmericanOdds != nil {
		bet.AmericanOdds = *patch.AmericanOdds
	}
	if patch.Status != nil {
		next, err := models.ParseBetStatus(string(*patch.Status))
		if err != nil {
			return models.Bet{}, err
		}
		if next != bet.Status {
			if bet.Status != models.BetOpen || !next.Settled() {
				return models.Bet{}, fmt.Errorf("%w: illegal transition %s -> %s",
					models.ErrInvalidStatus, bet.Status, next)
			}
			bet.Status = next
		}
	}

	if !bet.AmountRisked.IsPositive() {
		return models.Bet{}, fmt.Errorf("%w: stake must be positive, got %s", models.ErrInvalidAmount, bet.AmountRisked)
	}
	if bet.AmericanOdds == 0 {
		return models.Bet{}, fmt.Errorf("%w: American odds cannot be zero", models.ErrInvalidOdds)
	}
	amountCents, err := toCents(bet.AmountRisked)
	if err != nil {
		return models.Bet{}, err
	}

	var pnlCents sql.NullInt64
	bet.PnL = nil
	if bet.Status.Settled() {
		pnl, err := odds.Settle(bet.AmountRisked, bet.AmericanOdds, bet.Status)
		if err != nil {
			return models.Bet{}, err
		}
		cents, err := toCents(pnl)
		if err != nil {
			return models.Bet{}, err
		}
		pnlCents = sql.NullInt64{Int64: cents, Valid: true}
		bet.PnL = &pnl
	}

	updated := now()
	update := `
		UPDATE bets
		SET event_date = ?, book = ?, description = ?, amount_risked_cents = ?,
		    american_odds = ?, status = ?, pnl_cents = ?, last_updated = ?
		WHERE id = ?`
	if _, err := tx.Exec(update, bet.EventDate, bet.Book, nullString(bet.Description),
		amountCents, bet.AmericanOdds, string(bet.Status), pnlCents, updated, id); err != nil {
		return models.Bet{}, fmt.Errorf("update bet: %w: %w", models.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Bet{}, fmt.Errorf("update bet: %w: %w", models.ErrStorage, err)
	}
	bet.LastUpdated, _ = time.Parse(timeFormat, updated)
	return bet, nil
}

// GetBet returns the bet with the given id.
func (l *Ledger) GetBet(id int64) (models.Bet, error) {
	var row betRow
	query := `
		SELECT id, event_date, book, description, amount_risked_cents, american_odds, status, pnl_cents, last_updated
		FROM bets WHERE id = ?`
	if err := l.db.Get(&row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Bet{}, fmt.Errorf("%w: bet %d", models.ErrNotFound, id)
		}
		return models.Bet{}, fmt.Errorf("get bet: %w: %w", models.ErrStorage, err)
	}
	return row.toBet(), nil
}

// DeleteBet removes the bet with the given id.
func (l *Ledger) DeleteBet(id int64) error {
	res, err := l.db.Exec(`DELETE FROM bets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bet: %w: %w", models.ErrStorage, err)
	}
	return requireAffected(res, "bet")
}

// DeleteAllBets removes every bet.
func (l *Ledger) DeleteAllBets() error {
	if _, err := l.db.Exec(`DELETE FROM bets`); err != nil {
		return fmt.Errorf("delete all bets: %w: %w", models.ErrStorage, err)
	}
	return nil
}

// ListBets returns all bets ordered by event date ascending.
func (l *Ledger) ListBets() ([]models.Bet, error) {
	var rows []betRow
	query := `
		SELECT id, event_date, book, description, amount_risked_cents, american_odds, status, pnl_cents, last_updated
		FROM bets
		ORDER BY event_date ASC, id ASC`
	if err := l.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("list bets: %w: %w", models.ErrStorage, err)
	}
	bets := make([]models.Bet, 0, len(rows))
	for _, r := range rows {
		bets = append(bets, r.toBet())
	}
	return bets, nil
}

// RecentAmountSeen reports whether an aggregate row or a bet for the book
// carries the exact amount with a last_updated at or after the cutoff.
// Supports the duplicate-submission heuristic.
func (l *Ledger) RecentAmountSeen(book string, amount decimal.Decimal, since time.Time) (bool, error) {
	cents, err := toCents(amount)
	if err != nil {
		return false, err
	}
	cutoff := since.UTC().Format(timeFormat)

	var seen bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE book = ? AND (total_risked_cents = ? OR total_won_cents = ?) AND last_updated >= ?
		) OR EXISTS (
			SELECT 1 FROM bets
			WHERE book = ? AND amount_risked_cents = ? AND last_updated >= ?
		)`
	if err := l.db.Get(&seen, query, book, cents, cents, cutoff, book, cents, cutoff); err != nil {
		return false, fmt.Errorf("recent amount lookup: %w: %w", models.ErrStorage, err)
	}
	return seen, nil
}

func now() string { return time.Now().UTC().Format(timeFormat) }

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(res sql.Result, entity string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w: %w", models.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, entity)
	}
	return nil
}
