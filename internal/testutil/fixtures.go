package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendwise/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with a unique name and no budget limit.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithLimit(t, db, fmt.Sprintf("Test Category %d", nextID()), nil)
}

// CreateTestCategoryWithLimit creates a named category with an optional
// monthly budget limit in cents.
func CreateTestCategoryWithLimit(t *testing.T, db *gorm.DB, name string, limitCents *int64) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:             name,
		BudgetLimitCents: limitCents,
		Color:            models.DefaultCategoryColor,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates a card expense of amountCents on date.
func CreateTestExpense(t *testing.T, db *gorm.DB, categoryID *string, amountCents int64, date models.Date) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		AmountCents:   amountCents,
		CategoryID:    categoryID,
		Description:   fmt.Sprintf("Test Expense %d", nextID()),
		Date:          date,
		PaymentMethod: models.PaymentMethodCard,
		Tags:          []string{},
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestExpenseToday creates an expense dated today.
func CreateTestExpenseToday(t *testing.T, db *gorm.DB, categoryID *string, amountCents int64) *models.Expense {
	t.Helper()
	return CreateTestExpense(t, db, categoryID, amountCents, models.DateOf(time.Now()))
}

// CreateTestBudget creates a monthly budget for the category, or the overall
// budget when categoryID is nil.
func CreateTestBudget(t *testing.T, db *gorm.DB, categoryID *string, amountCents int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Scope:          models.ScopeFor(categoryID),
		CategoryID:     categoryID,
		AmountCents:    amountCents,
		Period:         models.BudgetPeriodMonthly,
		AlertThreshold: models.DefaultAlertThreshold,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
