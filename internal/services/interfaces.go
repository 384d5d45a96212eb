package services

import (
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name, description, color string, budgetLimitCents *int64) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	UpdateCategory(categoryID string, upd CategoryUpdate) (*models.Category, error)
	DeleteCategory(categoryID string, reassignTo *string) error
	SeedDefaults() (int, error)
}

// CategoryUpdate holds the category fields to change. Nil fields are left as is.
type CategoryUpdate struct {
	Name             *string
	Description      *string
	Color            *string
	BudgetLimitCents *int64
	ClearBudgetLimit bool
}

// ExpenseInput holds the fields of a new expense. A zero Date means today.
type ExpenseInput struct {
	AmountCents   int64
	CategoryID    *string
	Description   string
	Date          models.Date
	PaymentMethod models.PaymentMethod
	Tags          []string
	IsRecurring   bool
}

// ExpenseUpdate holds the expense fields to change. Nil fields are left as is.
type ExpenseUpdate struct {
	AmountCents   *int64
	CategoryID    *string
	ClearCategory bool
	Description   *string
	Date          *models.Date
	PaymentMethod *models.PaymentMethod
	Tags          []string
	IsRecurring   *bool
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate      *models.Date
	ToDate        *models.Date
	CategoryID    *string
	MinAmount     *int64
	MaxAmount     *int64
	PaymentMethod *models.PaymentMethod
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(in ExpenseInput) (*models.Expense, error)
	CreateExpenses(in []ExpenseInput) ([]models.Expense, error)
	GetExpenseByID(expenseID string) (*models.Expense, error)
	UpdateExpense(expenseID string, upd ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(expenseID string) error
	ListExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	SearchExpenses(keyword string, limit int) ([]models.Expense, error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	SetBudget(categoryID *string, amountCents int64, period models.BudgetPeriod, alertThreshold int) (*models.Budget, error)
	ListBudgets() ([]models.Budget, error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	DeleteBudget(budgetID string) error
}

// Stats summarizes the contents of the store.
type Stats struct {
	TotalExpenses   int64        `json:"total_expenses"`
	TotalCents      int64        `json:"total_amount_cents"`
	TotalCategories int64        `json:"total_categories"`
	FirstExpense    *models.Date `json:"first_expense,omitempty"`
	LastExpense     *models.Date `json:"last_expense,omitempty"`
	Driver          string       `json:"driver"`
	DatabasePath    string       `json:"database_path,omitempty"`
	DatabaseBytes   int64        `json:"database_bytes,omitempty"`
}

// StatsServicer defines the contract for store statistics.
type StatsServicer interface {
	GetStats() (*Stats, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(source, action, resourceType, resourceID string, changes map[string]interface{})
}
