package charts

import (
	"spendwise/internal/money"
	"spendwise/internal/utilization"

	"github.com/shopspring/decimal"
)

// DefaultProgressWidth is the cell width of budget progress bars.
const DefaultProgressWidth = 20

// Progress is a budget progress bar.
type Progress struct {
	Filled     int
	Width      int
	Percentage float64
	Level      utilization.Level
}

// ProgressBar fills width cells in proportion to spent over limit, capped at
// full. A non-positive limit reads as 0%.
func ProgressBar(spent, limit decimal.Decimal, width int) Progress {
	if width < 0 {
		width = 0
	}
	p := Progress{Width: width}
	if !limit.IsPositive() {
		p.Level = utilization.Classify(0)
		return p
	}

	p.Percentage = money.Percent(spent, limit)
	p.Level = utilization.Classify(p.Percentage)

	filled := int(spent.Mul(decimal.NewFromInt(int64(width))).Div(limit).Floor().IntPart())
	switch {
	case filled > width:
		filled = width
	case filled < 0:
		filled = 0
	}
	p.Filled = filled
	return p
}
