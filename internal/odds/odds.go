// Package odds converts American-format odds into settled profit/loss.
package odds

import (
	"fmt"

	"github.com/Dan9191/bet-tracker/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Settle converts a stake, American odds, and an outcome into realized
// profit/loss, rounded to cents. A lost bet returns the negated stake.
// A won bet at positive odds returns stake * odds / 100; at negative
// odds it returns stake * 100 / |odds|. Zero odds are rejected.
func Settle(stake decimal.Decimal, americanOdds int, outcome models.BetStatus) (decimal.Decimal, error) {
	if !stake.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: stake must be positive, got %s", models.ErrInvalidAmount, stake)
	}
	if americanOdds == 0 {
		return decimal.Zero, fmt.Errorf("%w: American odds cannot be zero", models.ErrInvalidOdds)
	}
	switch outcome {
	case models.BetLost:
		return stake.Neg(), nil
	case models.BetWon:
		if americanOdds > 0 {
			return stake.Mul(decimal.NewFromInt(int64(americanOdds))).Div(hundred).Round(2), nil
		}
		return stake.Mul(hundred).Div(decimal.NewFromInt(int64(-americanOdds))).Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: outcome must be won or lost, got %q", models.ErrInvalidStatus, outcome)
	}
}
