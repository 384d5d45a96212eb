package services

import (
	"testing"
	"time"

	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		cat := testutil.CreateTestCategory(t, db)

		expense, err := svc.CreateExpense(ExpenseInput{
			AmountCents:   1234,
			CategoryID:    &cat.ID,
			Description:   "  Lunch  ",
			Date:          models.NewDate(2024, time.March, 3),
			PaymentMethod: models.PaymentMethodCard,
			Tags:          []string{"work", " ", "food"},
			IsRecurring:   true,
		})
		testutil.AssertNoError(t, err)

		if expense.Description != "Lunch" {
			t.Errorf("expected trimmed description, got %q", expense.Description)
		}
		if len(expense.Tags) != 2 || expense.Tags[0] != "work" || expense.Tags[1] != "food" {
			t.Errorf("unexpected tags %v", expense.Tags)
		}
		if expense.Category == nil || expense.Category.ID != cat.ID {
			t.Error("expected category to be loaded")
		}
		if expense.Date.String() != "2024-03-03" {
			t.Errorf("expected date 2024-03-03, got %s", expense.Date)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := &expenseService{db: db, now: func() time.Time { return time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC) }}

		expense, err := svc.CreateExpense(ExpenseInput{AmountCents: 100})
		testutil.AssertNoError(t, err)
		if expense.Date.String() != "2026-10-19" {
			t.Errorf("expected today's date, got %s", expense.Date)
		}
		if expense.PaymentMethod != models.PaymentMethodCash {
			t.Errorf("expected cash, got %s", expense.PaymentMethod)
		}
		if expense.CategoryName() != models.UncategorizedName {
			t.Errorf("expected uncategorized, got %s", expense.CategoryName())
		}
	})

	tests := []struct {
		name string
		in   ExpenseInput
		code string
	}{
		{"zero_amount", ExpenseInput{AmountCents: 0}, "INVALID_AMOUNT"},
		{"negative_amount", ExpenseInput{AmountCents: -5}, "INVALID_AMOUNT"},
		{"bad_method", ExpenseInput{AmountCents: 5, PaymentMethod: "crypto"}, "INVALID_PAYMENT_METHOD"},
		{"missing_category", ExpenseInput{AmountCents: 5, CategoryID: strPtr("missing")}, "CATEGORY_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			_, err := NewExpenseService(db).CreateExpense(tt.in)
			testutil.AssertAppError(t, err, tt.code)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestCreateExpenses(t *testing.T) {
	t.Run("all_or_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		_, err := svc.CreateExpenses([]ExpenseInput{{AmountCents: 100}, {AmountCents: 0}})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")

		var count int64
		db.Model(&models.Expense{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no expenses after a failed batch, got %d", count)
		}
	})

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)

		created, err := svc.CreateExpenses([]ExpenseInput{{AmountCents: 100}, {AmountCents: 200}})
		testutil.AssertNoError(t, err)
		if len(created) != 2 {
			t.Errorf("expected 2 expenses, got %d", len(created))
		}
	})

	t.Run("empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewExpenseService(db).CreateExpenses(nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateExpense(t *testing.T) {
	t.Run("fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		cat := testutil.CreateTestCategory(t, db)
		expense := testutil.CreateTestExpense(t, db, &cat.ID, 500, models.NewDate(2024, time.May, 1))

		amount := int64(750)
		desc := "Dinner"
		method := models.PaymentMethodTransfer
		date := models.NewDate(2024, time.May, 2)
		updated, err := svc.UpdateExpense(expense.ID, ExpenseUpdate{
			AmountCents:   &amount,
			Description:   &desc,
			PaymentMethod: &method,
			Date:          &date,
			ClearCategory: true,
			Tags:          []string{"date-night"},
		})
		testutil.AssertNoError(t, err)

		if updated.AmountCents != 750 || updated.Description != "Dinner" || updated.PaymentMethod != method {
			t.Errorf("unexpected expense after update: %+v", updated)
		}
		if updated.Date.String() != "2024-05-02" {
			t.Errorf("expected 2024-05-02, got %s", updated.Date)
		}
		if updated.CategoryID != nil {
			t.Error("expected category cleared")
		}
		if len(updated.Tags) != 1 || updated.Tags[0] != "date-night" {
			t.Errorf("unexpected tags %v", updated.Tags)
		}
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		expense := testutil.CreateTestExpenseToday(t, db, nil, 500)

		zero := int64(0)
		_, err := svc.UpdateExpense(expense.ID, ExpenseUpdate{AmountCents: &zero})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewExpenseService(db).UpdateExpense("missing", ExpenseUpdate{})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	expense := testutil.CreateTestExpenseToday(t, db, nil, 500)

	testutil.AssertNoError(t, svc.DeleteExpense(expense.ID))
	testutil.AssertAppError(t, svc.DeleteExpense(expense.ID), "EXPENSE_NOT_FOUND")
}

func TestListExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	food := testutil.CreateTestCategory(t, db)

	first := testutil.CreateTestExpense(t, db, &food.ID, 1000, models.NewDate(2024, time.May, 1))
	second := testutil.CreateTestExpense(t, db, &food.ID, 2000, models.NewDate(2024, time.May, 1))
	latest := testutil.CreateTestExpense(t, db, nil, 3000, models.NewDate(2024, time.May, 20))
	testutil.CreateTestExpense(t, db, nil, 4000, models.NewDate(2024, time.April, 30))

	t.Run("newest_first_then_insertion_order", func(t *testing.T) {
		from := models.NewDate(2024, time.May, 1)
		to := models.NewDate(2024, time.May, 31)
		page, err := svc.ListExpenses(pagination.PageRequest{}, ExpenseFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 3 {
			t.Fatalf("expected 3 expenses in May, got %d", page.TotalItems)
		}
		got := []string{page.Data[0].ID, page.Data[1].ID, page.Data[2].ID}
		want := []string{latest.ID, second.ID, first.ID}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("category_and_amount", func(t *testing.T) {
		minAmount := int64(1500)
		page, err := svc.ListExpenses(pagination.PageRequest{}, ExpenseFilter{CategoryID: &food.ID, MinAmount: &minAmount})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || page.Data[0].ID != second.ID {
			t.Errorf("expected only the second expense, got %d items", page.TotalItems)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.ListExpenses(pagination.PageRequest{Page: 2, PageSize: 3}, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 || page.TotalPages != 2 || len(page.Data) != 1 {
			t.Errorf("unexpected page: total=%d pages=%d len=%d", page.TotalItems, page.TotalPages, len(page.Data))
		}
	})
}

func TestSearchExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)

	for _, desc := range []string{"Coffee beans", "Morning COFFEE", "Bus ticket"} {
		_, err := svc.CreateExpense(ExpenseInput{AmountCents: 300, Description: desc})
		testutil.AssertNoError(t, err)
	}

	found, err := svc.SearchExpenses("coffee", 0)
	testutil.AssertNoError(t, err)
	if len(found) != 2 {
		t.Errorf("expected 2 matches, got %d", len(found))
	}

	found, err = svc.SearchExpenses("coffee", 1)
	testutil.AssertNoError(t, err)
	if len(found) != 1 {
		t.Errorf("expected the limit to apply, got %d", len(found))
	}

	_, err = svc.SearchExpenses(" ", 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
