package odds

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/bet-tracker/internal/models"
)

func TestSettle_WonPositiveOdds(t *testing.T) {
	cases := []struct {
		stake string
		odds  int
		want  string
	}{
		{"100", 150, "150"},
		{"50", 100, "50"},
		{"25", 320, "80"},
		{"10.01", 150, "15.02"}, // rounded to cents
	}
	for _, tc := range cases {
		got, err := Settle(decimal.RequireFromString(tc.stake), tc.odds, models.BetWon)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got),
			"stake %s at %+d: want %s, got %s", tc.stake, tc.odds, tc.want, got)
	}
}

func TestSettle_WonNegativeOdds(t *testing.T) {
	cases := []struct {
		stake string
		odds  int
		want  string
	}{
		{"50", -110, "45.45"},
		{"110", -110, "100"},
		{"100", -200, "50"},
	}
	for _, tc := range cases {
		got, err := Settle(decimal.RequireFromString(tc.stake), tc.odds, models.BetWon)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got),
			"stake %s at %d: want %s, got %s", tc.stake, tc.odds, tc.want, got)
	}
}

func TestSettle_LostReturnsNegatedStake(t *testing.T) {
	for _, american := range []int{-110, 150, -10000, 1} {
		got, err := Settle(decimal.RequireFromString("52.72"), american, models.BetLost)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("-52.72").Equal(got))
	}
}

func TestSettle_ZeroOddsRejected(t *testing.T) {
	_, err := Settle(decimal.RequireFromString("50"), 0, models.BetWon)
	require.ErrorIs(t, err, models.ErrInvalidOdds)

	_, err = Settle(decimal.RequireFromString("50"), 0, models.BetLost)
	require.ErrorIs(t, err, models.ErrInvalidOdds)
}

func TestSettle_NonPositiveStakeRejected(t *testing.T) {
	_, err := Settle(decimal.Zero, -110, models.BetWon)
	require.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = Settle(decimal.RequireFromString("-5"), -110, models.BetWon)
	require.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestSettle_OpenOutcomeRejected(t *testing.T) {
	_, err := Settle(decimal.RequireFromString("50"), -110, models.BetOpen)
	require.ErrorIs(t, err, models.ErrInvalidStatus)
}
