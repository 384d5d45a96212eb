// Package charts maps numeric summaries to fixed text representations:
// bars with eighth-block remainders, pie legends, sparklines and progress
// bars. The chart functions are pure; Canvas adds terminal styling.
package charts

import (
	"strings"

	"spendwise/internal/money"

	"github.com/shopspring/decimal"
)

// Entry is a labelled amount.
type Entry struct {
	Label string
	Value decimal.Decimal
}

// Tier is a bar's size relative to the largest bar in its chart.
type Tier int

const (
	// TierLow is below half of the maximum.
	TierLow Tier = iota
	// TierMid is from half up to 80% of the maximum.
	TierMid
	// TierHigh is 80% of the maximum and above.
	TierHigh
)

const fullBlock = "█"

// partialBlocks[i] fills i eighths of a cell.
var partialBlocks = [8]string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

var (
	eight    = decimal.NewFromInt(8)
	tierMid  = decimal.RequireFromString("0.5")
	tierHigh = decimal.RequireFromString("0.8")
)

// Bar is one row of a bar chart.
type Bar struct {
	Label  string
	Value  decimal.Decimal
	Filled int
	// Partial is the eighth-block glyph after the full cells, or "".
	Partial string
	Tier    Tier
	// Percentage is the bar's share of the chart's total.
	Percentage float64
}

// Glyphs returns the bar body.
func (b Bar) Glyphs() string {
	return strings.Repeat(fullBlock, b.Filled) + b.Partial
}

// BarChart scales entries against the largest value so that it spans
// maxWidth cells. An empty or all-zero set yields empty bars.
func BarChart(entries []Entry, maxWidth int) []Bar {
	if maxWidth < 0 {
		maxWidth = 0
	}
	maxValue := decimal.Zero
	sum := decimal.Zero
	for _, e := range entries {
		if e.Value.GreaterThan(maxValue) {
			maxValue = e.Value
		}
		sum = sum.Add(e.Value)
	}

	width := decimal.NewFromInt(int64(maxWidth))
	bars := make([]Bar, 0, len(entries))
	for _, e := range entries {
		bar := Bar{
			Label:      e.Label,
			Value:      e.Value,
			Percentage: money.Percent(e.Value, sum),
		}
		if maxValue.IsPositive() && e.Value.IsPositive() {
			scaled := e.Value.Mul(width).Div(maxValue)
			filled := scaled.Floor()
			bar.Filled = int(filled.IntPart())
			remainder := int(scaled.Sub(filled).Mul(eight).Floor().IntPart())
			if bar.Filled < maxWidth && remainder > 0 {
				bar.Partial = partialBlocks[remainder]
			}
			bar.Tier = tierOf(e.Value, maxValue)
		}
		bars = append(bars, bar)
	}
	return bars
}

func tierOf(value, maxValue decimal.Decimal) Tier {
	switch {
	case value.LessThan(maxValue.Mul(tierMid)):
		return TierLow
	case value.LessThan(maxValue.Mul(tierHigh)):
		return TierMid
	default:
		return TierHigh
	}
}
