package reports

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init("test")
}

// memStore keeps transactions newest first.
type memStore struct {
	categories []analytics.Category
	budgets    []analytics.Budget
	txns       []analytics.Transaction
	err        error
}

func (m *memStore) add(id string, date models.Date, amount, categoryID string) {
	cat := categoryID
	m.txns = append(m.txns, analytics.Transaction{
		ID: id, Date: date, Amount: decimal.RequireFromString(amount),
		CategoryID: &cat, Description: "expense " + id, PaymentMethod: "card",
	})
	sort.SliceStable(m.txns, func(i, j int) bool { return m.txns[i].Date.After(m.txns[j].Date.Time) })
}

func within(d models.Date, start, end *models.Date) bool {
	return (start == nil || !d.Before(start.Time)) && (end == nil || !d.After(end.Time))
}

func (m *memStore) Totals(_ context.Context, w analytics.Window, categoryID *string) (analytics.Totals, error) {
	var t analytics.Totals
	if m.err != nil {
		return t, m.err
	}
	for _, e := range m.txns {
		if within(e.Date, &w.Start, &w.End) && (categoryID == nil || *e.CategoryID == *categoryID) {
			t.Total = t.Total.Add(e.Amount)
			t.Count++
		}
	}
	return t, nil
}

func (m *memStore) CategoryTotals(ctx context.Context, w analytics.Window) ([]analytics.CategoryTotal, error) {
	out := []analytics.CategoryTotal{}
	for _, c := range m.categories {
		id := c.ID
		t, err := m.Totals(ctx, w, &id)
		if err != nil {
			return nil, err
		}
		out = append(out, analytics.CategoryTotal{CategoryID: c.ID, Name: c.Name, Total: t.Total, Count: t.Count, BudgetLimit: c.BudgetLimit})
	}
	return out, nil
}

func (m *memStore) Categories(context.Context) ([]analytics.Category, error) {
	return m.categories, m.err
}

func (m *memStore) Budgets(context.Context) ([]analytics.Budget, error) {
	return m.budgets, m.err
}

func (m *memStore) Query(_ context.Context, f analytics.ExpenseFilter) ([]analytics.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []analytics.Transaction
	for _, e := range m.txns {
		if within(e.Date, f.Start, f.End) && (f.CategoryID == nil || *e.CategoryID == *f.CategoryID) {
			out = append(out, e)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func newFixture() (*memStore, *Generator) {
	limit := decimal.NewFromInt(200)
	store := &memStore{categories: []analytics.Category{
		{ID: "food", Name: "Food", BudgetLimit: &limit},
		{ID: "rent", Name: "Rent"},
	}}
	store.add("a1", models.NewDate(2024, time.April, 10), "100.00", "rent")
	store.add("m1", models.NewDate(2024, time.May, 2), "100.00", "food")
	store.add("m2", models.NewDate(2024, time.May, 9), "50.00", "food")
	store.add("m3", models.NewDate(2024, time.May, 15), "50.00", "rent")

	gen := NewGenerator(store, Options{
		Now: func() time.Time { return time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC) },
	})
	return store, gen
}

func render(t *testing.T, gen *Generator, req Request) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gen.Generate(context.Background(), &buf, req))
	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "non-terminal output must be plain")
	return out
}

func TestMonthlyReport(t *testing.T) {
	_, gen := newFixture()
	out := render(t, gen, Request{Kind: KindMonthly, Year: 2024, Month: time.May, ShowCharts: true})

	for _, want := range []string{
		"Monthly Report: May 2024",
		"Total Spent: $200.00",
		"Transactions: 3",
		"vs Last Month: +100.0%",
		"● 75%",
		"$150.00",
		"Spending is up 100% from last month.",
		"Food accounts for 75% of spending.",
		"█",
	} {
		assert.Contains(t, out, want)
	}
}

func TestMonthlyReportWithoutCharts(t *testing.T) {
	_, gen := newFixture()
	out := render(t, gen, Request{Kind: KindMonthly, Year: 2024, Month: time.May})
	assert.NotContains(t, out, "█")
}

func TestMonthlyReportDefaultsToCurrentMonth(t *testing.T) {
	_, gen := newFixture()
	out := render(t, gen, Request{Kind: KindMonthly})
	assert.Contains(t, out, "Monthly Report: May 2024")
}

func TestYearlyReport(t *testing.T) {
	_, gen := newFixture()
	out := render(t, gen, Request{Kind: KindYearly, Year: 2024})

	for _, want := range []string{
		"Yearly Report: 2024",
		"Total Spent: $300.00",
		"Total Transactions: 4",
		"Monthly Avg: $25.00",
		"Jan 2024",
		"Dec 2024",
		"↑ 100.0%",
		"Monthly Spending Trend",
		"Top 5 Categories",
		"Share of Spending",
	} {
		assert.Contains(t, out, want)
	}
}

func TestCategoryReport(t *testing.T) {
	t.Run("default_window", func(t *testing.T) {
		_, gen := newFixture()
		out := render(t, gen, Request{Kind: KindCategory, CategoryID: "food"})
		assert.Contains(t, out, "Category Report: Food")
		assert.Contains(t, out, "Period: 2024-02-20 to 2024-05-20")
		assert.Contains(t, out, "Total: $150.00")
		assert.Contains(t, out, "Average: $75.00")
		assert.Contains(t, out, "expense m2")
	})

	t.Run("explicit_window", func(t *testing.T) {
		_, gen := newFixture()
		start := models.NewDate(2024, time.May, 5)
		end := models.NewDate(2024, time.May, 31)
		out := render(t, gen, Request{Kind: KindCategory, CategoryID: "food", Start: &start, End: &end})
		assert.Contains(t, out, "Transactions: 1")
		assert.NotContains(t, out, "expense m1")
	})

	t.Run("unknown_category", func(t *testing.T) {
		_, gen := newFixture()
		err := gen.Generate(context.Background(), &bytes.Buffer{}, Request{Kind: KindCategory, CategoryID: "nope"})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("inverted_window", func(t *testing.T) {
		_, gen := newFixture()
		start := models.NewDate(2024, time.June, 1)
		end := models.NewDate(2024, time.May, 1)
		err := gen.Generate(context.Background(), &bytes.Buffer{}, Request{Kind: KindCategory, CategoryID: "food", Start: &start, End: &end})
		testutil.AssertAppError(t, err, "INVALID_DATE")
	})

	t.Run("caps_recent_expenses", func(t *testing.T) {
		store, gen := newFixture()
		for day := 1; day <= 25; day++ {
			store.add("r"+models.NewDate(2024, time.March, day).String(), models.NewDate(2024, time.March, day), "1.00", "rent")
		}
		out := render(t, gen, Request{Kind: KindCategory, CategoryID: "rent"})
		assert.Contains(t, out, "Transactions: 27")
		assert.Equal(t, RecentExpenses, strings.Count(out, "expense "))
	})
}

func TestBudgetReport(t *testing.T) {
	t.Run("no_budgets", func(t *testing.T) {
		_, gen := newFixture()
		out := render(t, gen, Request{Kind: KindBudget})
		assert.Contains(t, out, NoBudgetsMessage)
	})

	t.Run("alerts", func(t *testing.T) {
		store, gen := newFixture()
		food := "food"
		store.budgets = []analytics.Budget{
			{ID: "b1", Name: "Overall", Amount: decimal.NewFromInt(150), AlertThreshold: 80},
			{ID: "b2", CategoryID: &food, Name: "Food", Amount: decimal.NewFromInt(180), AlertThreshold: 80},
			{ID: "b3", CategoryID: &food, Name: "Relaxed", Amount: decimal.NewFromInt(1000), AlertThreshold: 80},
		}
		out := render(t, gen, Request{Kind: KindBudget})

		assert.Contains(t, out, "Budget Overview")
		assert.Contains(t, out, "🔴 Overall: 133% over budget!")
		assert.Contains(t, out, "🟡 Food: 83% of budget used")
		assert.NotContains(t, out, "Relaxed: ")
		assert.Contains(t, out, "-$50.00")
	})
}

func TestSummaryCard(t *testing.T) {
	store, gen := newFixture()
	store.budgets = []analytics.Budget{{ID: "b1", Name: "Overall", Amount: decimal.NewFromInt(400)}}
	out := render(t, gen, Request{Kind: KindSummary})

	for _, want := range []string{
		"Financial Summary",
		"This Month",
		"Total: $200.00",
		"(3 transactions)",
		"vs Last Month: +100.0%",
		"Top Category: Food",
		"Budget Status: 50% used",
	} {
		assert.Contains(t, out, want)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk gone")
	for _, kind := range []Kind{KindMonthly, KindCategory, KindBudget, KindSummary} {
		t.Run(string(kind), func(t *testing.T) {
			store, gen := newFixture()
			store.budgets = []analytics.Budget{{ID: "b1", Name: "Overall", Amount: decimal.NewFromInt(1)}}
			store.err = boom
			err := gen.Generate(context.Background(), &bytes.Buffer{}, Request{Kind: kind, CategoryID: "food"})
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	_, gen := newFixture()
	err := gen.Generate(context.Background(), &bytes.Buffer{}, Request{Kind: "weekly"})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	err = gen.Generate(context.Background(), &bytes.Buffer{}, Request{Kind: KindMonthly, Month: 13})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Yearly ")
	require.NoError(t, err)
	assert.Equal(t, KindYearly, k)

	_, err = ParseKind("")
	assert.Error(t, err)
}

func TestTrendIndicator(t *testing.T) {
	tests := []struct {
		current, previous string
		want              string
	}{
		{"110", "100", "↑"},
		{"90", "100", "↓"},
		{"103", "100", "→"},
		{"50", "0", "→"},
	}
	for _, tt := range tests {
		got := TrendIndicator(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.previous))
		assert.Equal(t, tt.want, got, "%s vs %s", tt.current, tt.previous)
	}
}
