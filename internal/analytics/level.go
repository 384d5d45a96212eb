package analytics

import (
	"github.com/shopspring/decimal"

	"spendwise/internal/utilization"
)

// Level classifies a utilization percentage.
type Level = utilization.Level

const (
	LevelOK      = utilization.OK
	LevelWarning = utilization.Warning
	LevelOver    = utilization.Over
)

// Utilization thresholds shared by budget statuses, insights and progress bars.
const (
	WarningThreshold = utilization.WarningThreshold
	OverThreshold    = utilization.OverThreshold
)

// ClassifyUtilization maps a percentage to a level.
func ClassifyUtilization(pct float64) Level {
	return utilization.Classify(pct)
}

// Trend is the direction of change between two amounts.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

// trendDeadBand is the percentage change treated as flat.
const trendDeadBand = 5.0

// Arrow returns ↑, ↓ or →.
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	default:
		return "→"
	}
}

// TrendOf compares current to previous. Changes within ±5% are flat, and so
// is any comparison against a zero previous amount.
func TrendOf(current, previous decimal.Decimal) Trend {
	if previous.IsZero() {
		return TrendFlat
	}
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).InexactFloat64()
	switch {
	case change > trendDeadBand:
		return TrendUp
	case change < -trendDeadBand:
		return TrendDown
	default:
		return TrendFlat
	}
}
