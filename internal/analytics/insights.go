package analytics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxInsights is how many recommendations reports display.
const MaxInsights = 5

const (
	risingThreshold  = 20.0
	fallingThreshold = -10.0
)

// concentrationShare is the share of monthly spend above which one category
// draws a warning.
var concentrationShare = decimal.RequireFromString("0.4")

// Insights summarizes a month's spending pattern. Recommendations are in
// display order; reports show at most MaxInsights of them.
type Insights struct {
	BiggestCategory      string          `json:"biggest_category"`
	BiggestAmount        decimal.Decimal `json:"biggest_amount"`
	MostFrequentCategory string          `json:"most_frequent_category"`
	MostFrequentCount    int             `json:"most_frequent_count"`
	AverageTransaction   decimal.Decimal `json:"average_transaction"`
	Recommendations      []string        `json:"recommendations"`
}

// SpendingInsights derives the month's pattern and advisory messages from its
// breakdown and summary. Budget warnings come first in breakdown order, then
// the trend note, then the concentration note.
func SpendingInsights(breakdown []CategorySummary, summary MonthlySummary) Insights {
	out := Insights{Recommendations: []string{}}

	biggest, ok := largest(breakdown)
	if ok {
		out.BiggestCategory, out.BiggestAmount = biggest.Name, biggest.Total
		frequent := mostFrequent(breakdown)
		out.MostFrequentCategory, out.MostFrequentCount = frequent.Name, frequent.Count
	}
	if summary.Count > 0 {
		out.AverageTransaction = summary.Total.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)
	}

	for _, c := range breakdown {
		if c.BudgetUsed == nil {
			continue
		}
		used := *c.BudgetUsed
		switch {
		case used >= OverThreshold:
			out.add("You've exceeded your %s budget by %.0f%%", c.Name, used-OverThreshold)
		case used >= WarningThreshold:
			out.add("You're at %.0f%% of your %s budget", used, c.Name)
		}
	}

	if v := summary.VsPreviousMonth; v != nil {
		switch {
		case *v > risingThreshold:
			out.add("Spending is up %.0f%% from last month. Consider reviewing discretionary expenses.", *v)
		case *v < fallingThreshold:
			out.add("Great job! Spending is down %.0f%% from last month.", math.Abs(*v))
		}
	}

	if ok && biggest.Total.GreaterThan(summary.Total.Mul(concentrationShare)) {
		out.add("%s accounts for %.0f%% of spending. Consider setting a stricter budget here.", biggest.Name, biggest.Percentage)
	}

	return out
}

// Top returns at most MaxInsights recommendations.
func (in Insights) Top() []string {
	if len(in.Recommendations) > MaxInsights {
		return in.Recommendations[:MaxInsights]
	}
	return in.Recommendations
}

func (in *Insights) add(format string, args ...interface{}) {
	in.Recommendations = append(in.Recommendations, fmt.Sprintf(format, args...))
}

func largest(breakdown []CategorySummary) (CategorySummary, bool) {
	if len(breakdown) == 0 {
		return CategorySummary{}, false
	}
	best := breakdown[0]
	for _, c := range breakdown[1:] {
		if c.Total.GreaterThan(best.Total) {
			best = c
		}
	}
	return best, true
}

// mostFrequent returns the first category with the most transactions.
func mostFrequent(breakdown []CategorySummary) CategorySummary {
	best := breakdown[0]
	for _, c := range breakdown[1:] {
		if c.Count > best.Count {
			best = c
		}
	}
	return best
}
