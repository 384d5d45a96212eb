package charts

import (
	"sort"

	"spendwise/internal/money"

	"github.com/shopspring/decimal"
)

// PieTop is how many entries a pie legend shows before folding the rest
// into OtherLabel.
const PieTop = 5

// OtherLabel names the folded remainder of a pie chart.
const OtherLabel = "Other"

// Palette is the cycle of slice colors, by display position.
var Palette = []string{"red", "green", "blue", "yellow", "magenta", "cyan"}

// Slice is one legend row of a pie chart.
type Slice struct {
	Label      string
	Value      decimal.Decimal
	Percentage float64
	Color      string
}

// PieChart sorts entries by value, keeps the top five and sums the rest into
// an "Other" slice when that remainder is positive. Percentages are shares
// of the displayed slices.
func PieChart(entries []Entry) []Slice {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value.GreaterThan(sorted[j].Value)
	})

	shown := sorted
	if len(sorted) > PieTop {
		shown = append([]Entry(nil), sorted[:PieTop]...)
		other := decimal.Zero
		for _, e := range sorted[PieTop:] {
			other = other.Add(e.Value)
		}
		if other.IsPositive() {
			shown = append(shown, Entry{Label: OtherLabel, Value: other})
		}
	}

	total := decimal.Zero
	for _, e := range shown {
		total = total.Add(e.Value)
	}

	slices := make([]Slice, 0, len(shown))
	for i, e := range shown {
		slices = append(slices, Slice{
			Label:      e.Label,
			Value:      e.Value,
			Percentage: money.Percent(e.Value, total),
			Color:      Palette[i%len(Palette)],
		})
	}
	return slices
}
