package detector

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/Dan9191/bet-tracker/internal/models"
	"github.com/Dan9191/bet-tracker/internal/repository"
)

func newTestDetector(t *testing.T) (*Detector, *repository.Ledger) {
	t.Helper()
	ledger, err := repository.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	return New(ledger, 10*time.Minute, decimal.NewFromInt(1)), ledger
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func upsert(t *testing.T, ledger *repository.Ledger, book, amount string) {
	t.Helper()
	d, err := dates.ParseDate("2026-08-15")
	require.NoError(t, err)
	id := models.AggregateIdentity{EventDate: d, Book: book, Granularity: dates.Daily}
	require.NoError(t, ledger.UpsertAggregate(id, dec(amount), dec("0")))
}

func TestCheckPossibleDuplicate_NonRoundRepeatFlags(t *testing.T) {
	det, ledger := newTestDetector(t)

	// First submission: nothing recorded yet, no flag.
	dup, err := det.CheckPossibleDuplicate("HardRock", dec("52.72"))
	require.NoError(t, err)
	assert.False(t, dup)

	upsert(t, ledger, "HardRock", "52.72")

	// Same odd amount within the lookback window flags.
	dup, err = det.CheckPossibleDuplicate("HardRock", dec("52.72"))
	require.NoError(t, err)
	assert.True(t, dup)

	// A different book does not.
	dup, err = det.CheckPossibleDuplicate("FanDuel", dec("52.72"))
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestCheckPossibleDuplicate_RoundAmountsNeverFlag(t *testing.T) {
	det, ledger := newTestDetector(t)

	upsert(t, ledger, "HardRock", "100")
	upsert(t, ledger, "HardRock", "100")

	dup, err := det.CheckPossibleDuplicate("HardRock", dec("100"))
	require.NoError(t, err)
	assert.False(t, dup, "round amounts are never flagged regardless of timing")
}

func TestCheckPossibleDuplicate_MatchesBetStakes(t *testing.T) {
	det, ledger := newTestDetector(t)

	d, err := dates.ParseDate("2026-08-15")
	require.NoError(t, err)
	_, err = ledger.InsertBet(models.Bet{
		EventDate:    d,
		Book:         "DraftKings",
		AmountRisked: dec("13.37"),
		AmericanOdds: -110,
		Status:       models.BetOpen,
	})
	require.NoError(t, err)

	dup, err := det.CheckPossibleDuplicate("DraftKings", dec("13.37"))
	require.NoError(t, err)
	assert.True(t, dup)
}
