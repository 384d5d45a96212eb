package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerStore_Totals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := NewLedgerStore(db)
	ctx := context.Background()

	food := testutil.CreateTestCategory(t, db)
	testutil.CreateTestExpense(t, db, &food.ID, 1050, models.NewDate(2024, time.February, 1))
	testutil.CreateTestExpense(t, db, nil, 2000, models.NewDate(2024, time.February, 29))
	testutil.CreateTestExpense(t, db, &food.ID, 9999, models.NewDate(2024, time.March, 1))

	w := analytics.MonthWindow(2024, time.February)

	all, err := store.Totals(ctx, w, nil)
	require.NoError(t, err)
	assert.True(t, all.Total.Equal(decimal.RequireFromString("30.50")), "total %s", all.Total)
	assert.Equal(t, 2, all.Count)

	onlyFood, err := store.Totals(ctx, w, &food.ID)
	require.NoError(t, err)
	assert.True(t, onlyFood.Total.Equal(decimal.RequireFromString("10.50")))
	assert.Equal(t, 1, onlyFood.Count)

	empty, err := store.Totals(ctx, analytics.MonthWindow(2023, time.February), nil)
	require.NoError(t, err)
	assert.True(t, empty.Total.IsZero())
}

func TestLedgerStore_CategoryTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := NewLedgerStore(db)

	limit := int64(20000)
	rent := testutil.CreateTestCategoryWithLimit(t, db, "Rent", nil)
	food := testutil.CreateTestCategoryWithLimit(t, db, "Food", &limit)
	testutil.CreateTestCategoryWithLimit(t, db, "Books", nil)

	day := models.NewDate(2024, time.May, 15)
	testutil.CreateTestExpense(t, db, &food.ID, 5000, day)
	testutil.CreateTestExpense(t, db, &food.ID, 2500, day)
	testutil.CreateTestExpense(t, db, &rent.ID, 120000, day)
	testutil.CreateTestExpense(t, db, &rent.ID, 120000, models.NewDate(2024, time.June, 1))

	got, err := store.CategoryTotals(context.Background(), analytics.MonthWindow(2024, time.May))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"Books", "Food", "Rent"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.True(t, got[0].Total.IsZero())
	assert.Equal(t, 0, got[0].Count)
	assert.Nil(t, got[0].BudgetLimit)

	assert.True(t, got[1].Total.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, 2, got[1].Count)
	require.NotNil(t, got[1].BudgetLimit)
	assert.True(t, got[1].BudgetLimit.Equal(decimal.NewFromInt(200)))

	assert.True(t, got[2].Total.Equal(decimal.NewFromInt(1200)))
}

func TestLedgerStore_BudgetsAndCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := NewLedgerStore(db)
	ctx := context.Background()

	food := testutil.CreateTestCategoryWithLimit(t, db, "Food", nil)
	testutil.CreateTestBudget(t, db, &food.ID, 30000)
	testutil.CreateTestBudget(t, db, nil, 100000)

	budgets, err := store.Budgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.True(t, budgets[0].IsOverall())
	assert.Equal(t, models.OverallBudgetName, budgets[0].Name)
	assert.Equal(t, "Food", budgets[1].Name)
	assert.True(t, budgets[1].Amount.Equal(decimal.NewFromInt(300)))

	cats, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, food.ID, cats[0].ID)
}

func TestLedgerStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	store := NewLedgerStore(db)

	food := testutil.CreateTestCategoryWithLimit(t, db, "Food", nil)
	older := testutil.CreateTestExpense(t, db, &food.ID, 100, models.NewDate(2024, time.May, 1))
	a := testutil.CreateTestExpense(t, db, nil, 200, models.NewDate(2024, time.May, 2))
	b := testutil.CreateTestExpense(t, db, &food.ID, 300, models.NewDate(2024, time.May, 2))

	got, err := store.Query(context.Background(), analytics.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{b.ID, a.ID, older.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "Food", got[0].CategoryName)
	assert.Equal(t, models.UncategorizedName, got[1].CategoryName)

	start := models.NewDate(2024, time.May, 2)
	got, err = store.Query(context.Background(), analytics.ExpenseFilter{Start: &start, CategoryID: &food.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	got, err = store.Query(context.Background(), analytics.ExpenseFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLedgerStore_ClosedDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewLedgerStore(db)
	testutil.TeardownTestDB(t, db)

	_, err := store.Totals(context.Background(), analytics.MonthWindow(2024, time.May), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
	testutil.AssertAppError(t, err, "STORE_UNAVAILABLE")
}

func TestLedgerStore_WithAggregator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	agg := analytics.NewAggregator(NewLedgerStore(db))

	food := testutil.CreateTestCategoryWithLimit(t, db, "Food", nil)
	for day := 1; day <= 29; day++ {
		testutil.CreateTestExpense(t, db, &food.ID, 1000, models.NewDate(2024, time.February, day))
	}

	s, err := agg.MonthlySummary(context.Background(), 2024, time.February)
	require.NoError(t, err)
	assert.True(t, s.DailyAverage.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Food", s.TopCategory)
}
