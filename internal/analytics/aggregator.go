package analytics

import (
	"context"
	"sort"
	"time"

	"spendwise/internal/logger"
	"spendwise/internal/money"
	"spendwise/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Aggregator computes summaries from a Store.
type Aggregator struct {
	store Store
	log   *zap.SugaredLogger
}

// NewAggregator returns an Aggregator reading from store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store, log: logger.Get()}
}

// CategoryBreakdown returns the categories with spending in w, largest first.
// Percentages are shares of the window's grand total, which includes
// uncategorized expenses.
func (a *Aggregator) CategoryBreakdown(ctx context.Context, w Window) ([]CategorySummary, error) {
	totals, err := a.store.CategoryTotals(ctx, w)
	if err != nil {
		return nil, err
	}
	grand, err := a.store.Totals(ctx, w, nil)
	if err != nil {
		return nil, err
	}
	return BuildBreakdown(totals, grand.Total), nil
}

// BuildBreakdown drops categories with no spending, attaches percentages and
// sorts by descending total. Ties keep the input order.
func BuildBreakdown(totals []CategoryTotal, grandTotal decimal.Decimal) []CategorySummary {
	out := make([]CategorySummary, 0, len(totals))
	for _, t := range totals {
		if !t.Total.IsPositive() {
			continue
		}
		s := CategorySummary{
			CategoryID:  t.CategoryID,
			Name:        t.Name,
			Color:       t.Color,
			Total:       t.Total,
			Count:       t.Count,
			Percentage:  money.Percent(t.Total, grandTotal),
			BudgetLimit: t.BudgetLimit,
		}
		if t.BudgetLimit != nil && t.BudgetLimit.IsPositive() {
			used := money.Percent(t.Total, *t.BudgetLimit)
			s.BudgetUsed = &used
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// MonthlySummary rolls up one calendar month and compares it with the month
// before.
func (a *Aggregator) MonthlySummary(ctx context.Context, year int, month time.Month) (MonthlySummary, error) {
	w := MonthWindow(year, month)

	current, err := a.store.Totals(ctx, w, nil)
	if err != nil {
		return MonthlySummary{}, err
	}
	categoryTotals, err := a.store.CategoryTotals(ctx, w)
	if err != nil {
		return MonthlySummary{}, err
	}

	prevYear, prevMonth := PreviousMonth(year, month)
	previous, err := a.store.Totals(ctx, MonthWindow(prevYear, prevMonth), nil)
	if err != nil {
		return MonthlySummary{}, err
	}

	breakdown := BuildBreakdown(categoryTotals, current.Total)
	return buildMonthlySummary(year, month, current, previous.Total, breakdown), nil
}

func buildMonthlySummary(year int, month time.Month, current Totals, previousTotal decimal.Decimal, breakdown []CategorySummary) MonthlySummary {
	days := MonthWindow(year, month).Days()

	s := MonthlySummary{
		Year:         year,
		Month:        month,
		Total:        current.Total,
		Count:        current.Count,
		Categories:   make([]CategoryAmount, 0, len(breakdown)),
		DailyAverage: current.Total.Div(decimal.NewFromInt(int64(days))),
	}
	for _, c := range breakdown {
		s.Categories = append(s.Categories, CategoryAmount{Name: c.Name, Amount: c.Total})
	}
	if len(s.Categories) > 0 {
		s.TopCategory = s.Categories[0].Name
	}
	if !previousTotal.IsZero() {
		change := current.Total.Sub(previousTotal).Div(previousTotal).Mul(decimal.NewFromInt(100)).InexactFloat64()
		s.VsPreviousMonth = &change
	}
	return s
}

// YearlySummary returns the monthly summaries of year in month order. A month
// that cannot be computed is logged and left out.
func (a *Aggregator) YearlySummary(ctx context.Context, year int) []MonthlySummary {
	out := make([]MonthlySummary, 0, 12)
	for m := time.January; m <= time.December; m++ {
		s, err := a.MonthlySummary(ctx, year, m)
		if err != nil {
			a.log.Warnw("monthly summary failed", "year", year, "month", int(m), "error", err)
			continue
		}
		out = append(out, s)
	}
	return out
}

// BudgetReport measures every budget against spending in the calendar month
// containing today.
func (a *Aggregator) BudgetReport(ctx context.Context, today models.Date) ([]BudgetStatus, error) {
	budgets, err := a.store.Budgets(ctx)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []BudgetStatus{}, nil
	}
	spend, err := a.MonthSpend(ctx, MonthWindow(today.Year(), today.Month()))
	if err != nil {
		return nil, err
	}
	return BudgetUtilization(budgets, spend), nil
}

// MonthSpend collects per-category and overall spending for w.
func (a *Aggregator) MonthSpend(ctx context.Context, w Window) (Spend, error) {
	totals, err := a.store.CategoryTotals(ctx, w)
	if err != nil {
		return Spend{}, err
	}
	overall, err := a.store.Totals(ctx, w, nil)
	if err != nil {
		return Spend{}, err
	}
	spend := Spend{ByCategory: make(map[string]decimal.Decimal, len(totals)), Overall: overall.Total}
	for _, t := range totals {
		spend.ByCategory[t.CategoryID] = t.Total
	}
	return spend, nil
}
