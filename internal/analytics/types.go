// Package analytics turns the expense log into category breakdowns, monthly
// and yearly rollups, budget utilization and advisory insights.
//
// Every result is a value computed fresh per call. The package owns no
// storage; it reads through the Store interface and never caches.
package analytics

import (
	"time"

	"spendwise/internal/models"

	"github.com/shopspring/decimal"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start models.Date
	End   models.Date
}

// MonthWindow returns the window covering the whole calendar month. The last
// day is the first of the following month minus one day, so December rolls
// into January of the next year.
func MonthWindow(year int, month time.Month) Window {
	start := models.NewDate(year, month, 1)
	nextYear, nextMonth := year, month+1
	if month == time.December {
		nextYear, nextMonth = year+1, time.January
	}
	end := models.NewDate(nextYear, nextMonth, 1).AddDays(-1)
	return Window{Start: start, End: end}
}

// YearWindow covers January 1st through December 31st.
func YearWindow(year int) Window {
	return Window{
		Start: models.NewDate(year, time.January, 1),
		End:   models.NewDate(year, time.December, 31),
	}
}

// LastDays returns the window of n days ending on (and including) end.
func LastDays(end models.Date, n int) Window {
	return Window{Start: end.AddDays(-n), End: end}
}

// PreviousMonth returns the calendar month before the given one. January
// rolls back to December of the previous year.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// Days returns the number of days in the window, counting both ends.
func (w Window) Days() int {
	if w.End.Before(w.Start.Time) {
		return 0
	}
	return int(w.End.Sub(w.Start.Time).Hours()/24) + 1
}

// Totals is the sum and count of expenses matching a query.
type Totals struct {
	Total decimal.Decimal
	Count int
}

// CategoryTotal is one category's spending inside a window as reported by
// the store. Categories with no spending are included with zero totals.
type CategoryTotal struct {
	CategoryID  string
	Name        string
	Color       string
	Total       decimal.Decimal
	Count       int
	BudgetLimit *decimal.Decimal
}

// Category is the store's view of a category.
type Category struct {
	ID          string
	Name        string
	Color       string
	BudgetLimit *decimal.Decimal
}

// Budget is a spending limit for a category, or for all spending when
// CategoryID is nil. Period is informational; utilization is always
// measured over calendar months.
type Budget struct {
	ID             string          `json:"id"`
	CategoryID     *string         `json:"category_id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	Period         string          `json:"period"`
	AlertThreshold int             `json:"alert_threshold"`
}

// IsOverall reports whether the budget covers all spending.
func (b Budget) IsOverall() bool {
	return b.CategoryID == nil
}

// Transaction is a single expense as returned by Store.Query.
type Transaction struct {
	ID            string
	Date          models.Date
	Amount        decimal.Decimal
	CategoryID    *string
	CategoryName  string
	Description   string
	PaymentMethod string
	Tags          []string
	IsRecurring   bool
}

// ExpenseFilter narrows Store.Query. Nil fields do not filter.
type ExpenseFilter struct {
	Start      *models.Date
	End        *models.Date
	CategoryID *string
	Limit      int
}

// CategorySummary is one row of a breakdown.
type CategorySummary struct {
	CategoryID  string           `json:"category_id"`
	Name        string           `json:"name"`
	Color       string           `json:"color"`
	Total       decimal.Decimal  `json:"total"`
	Count       int              `json:"count"`
	Percentage  float64          `json:"percentage"`
	BudgetLimit *decimal.Decimal `json:"budget_limit"`
	// BudgetUsed is nil unless the category has a positive budget limit.
	BudgetUsed *float64 `json:"budget_used"`
}

// CategoryAmount pairs a category name with its total.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlySummary is the rollup of one calendar month.
type MonthlySummary struct {
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
	// Categories is ordered by descending total.
	Categories   []CategoryAmount `json:"categories"`
	DailyAverage decimal.Decimal  `json:"daily_average"`
	TopCategory  string           `json:"top_category"`
	// VsPreviousMonth is nil when the previous month had no spending.
	VsPreviousMonth *float64 `json:"vs_previous_month"`
}

// Window returns the calendar window the summary covers.
func (s MonthlySummary) Window() Window {
	return MonthWindow(s.Year, s.Month)
}

// Spend is the actual spending a set of budgets is measured against.
type Spend struct {
	ByCategory map[string]decimal.Decimal
	Overall    decimal.Decimal
}

// For returns the spend relevant to b.
func (s Spend) For(b Budget) decimal.Decimal {
	if b.IsOverall() {
		return s.Overall
	}
	if v, ok := s.ByCategory[*b.CategoryID]; ok {
		return v
	}
	return decimal.Zero
}

// BudgetStatus is a budget measured against actual spending.
type BudgetStatus struct {
	Budget      Budget          `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Utilization float64         `json:"utilization"`
	Level       Level           `json:"level"`
	// Alert is set once utilization reaches the budget's alert threshold.
	Alert bool `json:"alert"`
}
