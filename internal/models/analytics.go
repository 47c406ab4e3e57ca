package models

import (
	"github.com/Dan9191/bet-tracker/internal/dates"
	"github.com/shopspring/decimal"
)

// WindowStats represents profit/loss KPIs over a calendar window.
type WindowStats struct {
	TotalRisked decimal.Decimal `json:"total_risked"`
	TotalPnL    decimal.Decimal `json:"total_pnl"`
	ROIPct      float64         `json:"roi_pct"`
}

// SeriesPoint is one point of the cumulative profit/loss series.
type SeriesPoint struct {
	Date          dates.Date      `json:"date"`
	CumulativePnL decimal.Decimal `json:"cumulative_pnl"`
}
