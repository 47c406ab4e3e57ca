package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port               string
	DBPath             string
	LogLevel           string
	DupLookbackMinutes int
	DupRoundUnit       decimal.Decimal
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "bettracker.db"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH is required")
	}

	lookback, err := strconv.Atoi(getEnv("DUP_LOOKBACK_MINUTES", "10"))
	if err != nil || lookback <= 0 {
		return nil, fmt.Errorf("DUP_LOOKBACK_MINUTES must be a positive integer")
	}
	cfg.DupLookbackMinutes = lookback

	unit, err := decimal.NewFromString(getEnv("DUP_ROUND_UNIT", "1"))
	if err != nil || !unit.IsPositive() {
		return nil, fmt.Errorf("DUP_ROUND_UNIT must be a positive decimal")
	}
	cfg.DupRoundUnit = unit

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
