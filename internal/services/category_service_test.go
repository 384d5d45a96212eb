package services

import (
	"testing"
	"time"

	"spendwise/internal/models"
	"spendwise/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		limit := int64(40000)
		cat, err := svc.CreateCategory("Groceries", "Food shopping", "#ff0000", &limit)
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected category ID")
		}
		if cat.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", cat.Name)
		}
		if cat.BudgetLimitCents == nil || *cat.BudgetLimitCents != 40000 {
			t.Errorf("expected budget limit 40000, got %v", cat.BudgetLimitCents)
		}
	})

	t.Run("default_color", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cat, err := svc.CreateCategory("Pets", "", "", nil)
		testutil.AssertNoError(t, err)
		if cat.Color != models.DefaultCategoryColor {
			t.Errorf("expected default color, got %s", cat.Color)
		}
	})

	t.Run("duplicate_name_ignores_case", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("Food", "", "", nil)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory("FOOD", "", "", nil)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("   ", "", "", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		zero := int64(0)
		_, err := svc.CreateCategory("Fun", "", "", &zero)
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})
}

func TestGetCategoryByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	created := testutil.CreateTestCategoryWithLimit(t, db, "Food & Dining", nil)

	t.Run("case_insensitive", func(t *testing.T) {
		cat, err := svc.GetCategoryByName("food & dining")
		testutil.AssertNoError(t, err)
		if cat.ID != created.ID {
			t.Errorf("expected %s, got %s", created.ID, cat.ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetCategoryByName("Nope")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestListCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	for _, name := range []string{"Travel", "Books", "Rent"} {
		testutil.CreateTestCategoryWithLimit(t, db, name, nil)
	}

	cats, err := svc.ListCategories()
	testutil.AssertNoError(t, err)
	if len(cats) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(cats))
	}
	if cats[0].Name != "Books" || cats[2].Name != "Travel" {
		t.Errorf("expected categories ordered by name, got %s..%s", cats[0].Name, cats[2].Name)
	}
}

func TestUpdateCategory(t *testing.T) {
	t.Run("fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		limit := int64(1000)
		cat := testutil.CreateTestCategoryWithLimit(t, db, "Old", &limit)

		name, color := "New", "#123456"
		updated, err := svc.UpdateCategory(cat.ID, CategoryUpdate{Name: &name, Color: &color, ClearBudgetLimit: true})
		testutil.AssertNoError(t, err)

		if updated.Name != "New" || updated.Color != "#123456" {
			t.Errorf("unexpected category after update: %+v", updated)
		}
		if updated.BudgetLimitCents != nil {
			t.Errorf("expected budget limit cleared, got %v", *updated.BudgetLimitCents)
		}
	})

	t.Run("rename_to_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		testutil.CreateTestCategoryWithLimit(t, db, "Taken", nil)
		cat := testutil.CreateTestCategory(t, db)

		name := "taken"
		_, err := svc.UpdateCategory(cat.ID, CategoryUpdate{Name: &name})
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("keep_own_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		cat := testutil.CreateTestCategoryWithLimit(t, db, "Same", nil)

		name := "SAME"
		_, err := svc.UpdateCategory(cat.ID, CategoryUpdate{Name: &name})
		testutil.AssertNoError(t, err)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.UpdateCategory("missing", CategoryUpdate{})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	day := models.NewDate(2024, time.May, 1)

	t.Run("expenses_become_uncategorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		cat := testutil.CreateTestCategory(t, db)
		expense := testutil.CreateTestExpense(t, db, &cat.ID, 500, day)
		testutil.CreateTestBudget(t, db, &cat.ID, 10000)

		testutil.AssertNoError(t, svc.DeleteCategory(cat.ID, nil))

		var reloaded models.Expense
		if err := db.First(&reloaded, "id = ?", expense.ID).Error; err != nil {
			t.Fatalf("expense should survive category deletion: %v", err)
		}
		if reloaded.CategoryID != nil {
			t.Errorf("expected uncategorized expense, got category %s", *reloaded.CategoryID)
		}

		var budgets int64
		db.Model(&models.Budget{}).Count(&budgets)
		if budgets != 0 {
			t.Errorf("expected the category budget to be removed, found %d", budgets)
		}
	})

	t.Run("reassign", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		from := testutil.CreateTestCategory(t, db)
		to := testutil.CreateTestCategory(t, db)
		expense := testutil.CreateTestExpense(t, db, &from.ID, 500, day)

		testutil.AssertNoError(t, svc.DeleteCategory(from.ID, &to.ID))

		var reloaded models.Expense
		db.First(&reloaded, "id = ?", expense.ID)
		if reloaded.CategoryID == nil || *reloaded.CategoryID != to.ID {
			t.Errorf("expected expense moved to %s, got %v", to.ID, reloaded.CategoryID)
		}
	})

	t.Run("reassign_to_self", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		cat := testutil.CreateTestCategory(t, db)

		err := svc.DeleteCategory(cat.ID, &cat.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		testutil.AssertAppError(t, svc.DeleteCategory("missing", nil), "CATEGORY_NOT_FOUND")
	})
}

func TestSeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	n, err := svc.SeedDefaults()
	testutil.AssertNoError(t, err)
	if n != len(models.DefaultCategories) {
		t.Errorf("expected %d seeded categories, got %d", len(models.DefaultCategories), n)
	}

	n, err = svc.SeedDefaults()
	testutil.AssertNoError(t, err)
	if n != 0 {
		t.Errorf("expected seeding to be a no-op the second time, got %d", n)
	}

	food, err := svc.GetCategoryByName("Food & Dining")
	testutil.AssertNoError(t, err)
	if food.Color != "#ef4444" {
		t.Errorf("expected #ef4444, got %s", food.Color)
	}
}
