package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/shopspring/decimal"
)

// BetStatus is the settlement state of an individual bet.
// The only legal transition is open to won or lost; both are terminal.
type BetStatus string

const (
	BetOpen BetStatus = "open"
	BetWon  BetStatus = "won"
	BetLost BetStatus = "lost"
)

// ParseBetStatus parses a bet status, returning ErrInvalidStatus for
// unrecognized values.
func ParseBetStatus(s string) (BetStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return BetOpen, nil
	case "won":
		return BetWon, nil
	case "lost":
		return BetLost, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s BetStatus) String() string { return string(s) }

// Settled returns true for terminal statuses.
func (s BetStatus) Settled() bool { return s == BetWon || s == BetLost }

// Bet represents a single wager. PnL is set only once the bet settles.
type Bet struct {
	ID           int64            `json:"id"`
	EventDate    dates.Date       `json:"event_date"`
	Book         string           `json:"book"`
	Description  string           `json:"description,omitempty"`
	AmountRisked decimal.Decimal  `json:"amount_risked"`
	AmericanOdds int              `json:"american_odds"`
	Status       BetStatus        `json:"status"`
	PnL          *decimal.Decimal `json:"pnl,omitempty"`
	LastUpdated  time.Time        `json:"last_updated"`
}

// BetUpdate is a partial update of a bet; nil fields are left unchanged.
type BetUpdate struct {
	EventDate    *dates.Date      `json:"event_date,omitempty"`
	Book         *string          `json:"book,omitempty"`
	Description  *string          `json:"description,omitempty"`
	AmountRisked *decimal.Decimal `json:"amount_risked,omitempty"`
	AmericanOdds *int             `json:"american_odds,omitempty"`
	Status       *BetStatus       `json:"status,omitempty"`
}
