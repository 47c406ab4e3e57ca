package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "bettracker.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.DupLookbackMinutes)
	assert.True(t, decimal.NewFromInt(1).Equal(cfg.DupRoundUnit))
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("DUP_LOOKBACK_MINUTES", "30")
	t.Setenv("DUP_ROUND_UNIT", "0.5")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 30, cfg.DupLookbackMinutes)
	assert.True(t, decimal.RequireFromString("0.5").Equal(cfg.DupRoundUnit))
}

func TestNewConfig_InvalidLookback(t *testing.T) {
	t.Setenv("DUP_LOOKBACK_MINUTES", "soon")
	_, err := NewConfig()
	require.Error(t, err)
}
