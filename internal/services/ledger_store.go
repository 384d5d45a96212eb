package services

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/money"
)

// LedgerStore is the gorm-backed analytics.Store. Driver errors are
// reported as ErrStoreUnavailable.
type LedgerStore struct {
	db *gorm.DB
}

var _ analytics.Store = (*LedgerStore)(nil)

// NewLedgerStore creates a LedgerStore.
func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func storeErr(err error) error {
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}

func inWindow(q *gorm.DB, w analytics.Window) *gorm.DB {
	return q.Where("expenses.date >= ? AND expenses.date <= ?", w.Start, w.End)
}

// Totals sums expenses in w, optionally for one category.
func (s *LedgerStore) Totals(ctx context.Context, w analytics.Window, categoryID *string) (analytics.Totals, error) {
	var row struct {
		Total int64
		Count int
	}
	q := inWindow(s.db.WithContext(ctx).Model(&models.Expense{}), w)
	if categoryID != nil {
		q = q.Where("expenses.category_id = ?", *categoryID)
	}
	if err := q.Select("COALESCE(SUM(expenses.amount_cents), 0) AS total, COUNT(*) AS count").Scan(&row).Error; err != nil {
		return analytics.Totals{}, storeErr(err)
	}
	return analytics.Totals{Total: money.FromCents(row.Total), Count: row.Count}, nil
}

// categoryTotalRow is the raw shape of the per-category aggregate.
type categoryTotalRow struct {
	ID               string
	Name             string
	Color            string
	BudgetLimitCents sql.NullInt64
	Total            int64
	Count            int
}

// CategoryTotals returns every category with its window total, ordered by name.
func (s *LedgerStore) CategoryTotals(ctx context.Context, w analytics.Window) ([]analytics.CategoryTotal, error) {
	var rows []categoryTotalRow
	err := s.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, categories.color, categories.budget_limit_cents, "+
			"COALESCE(SUM(expenses.amount_cents), 0) AS total, COUNT(expenses.id) AS count").
		Joins("LEFT JOIN expenses ON expenses.category_id = categories.id AND expenses.date >= ? AND expenses.date <= ?", w.Start, w.End).
		Group("categories.id, categories.name, categories.color, categories.budget_limit_cents").
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}

	out := make([]analytics.CategoryTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.CategoryTotal{
			CategoryID:  r.ID,
			Name:        r.Name,
			Color:       r.Color,
			Total:       money.FromCents(r.Total),
			Count:       r.Count,
			BudgetLimit: limitOf(r.BudgetLimitCents),
		})
	}
	return out, nil
}

func limitOf(cents sql.NullInt64) *decimal.Decimal {
	if !cents.Valid {
		return nil
	}
	d := money.FromCents(cents.Int64)
	return &d
}

func limitPtr(cents *int64) *decimal.Decimal {
	if cents == nil {
		return nil
	}
	return limitOf(sql.NullInt64{Int64: *cents, Valid: true})
}

// Categories returns all categories ordered by name.
func (s *LedgerStore) Categories(ctx context.Context) ([]analytics.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, storeErr(err)
	}
	out := make([]analytics.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, analytics.Category{
			ID:          c.ID,
			Name:        c.Name,
			Color:       c.Color,
			BudgetLimit: limitPtr(c.BudgetLimitCents),
		})
	}
	return out, nil
}

// Budgets returns the overall budget first, then category budgets by name.
func (s *LedgerStore) Budgets(ctx context.Context) ([]analytics.Budget, error) {
	budgets, err := NewBudgetService(s.db.WithContext(ctx)).ListBudgets()
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]analytics.Budget, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		out = append(out, analytics.Budget{
			ID:             b.ID,
			CategoryID:     b.CategoryID,
			Name:           b.DisplayName(),
			Amount:         money.FromCents(b.AmountCents),
			Period:         string(b.Period),
			AlertThreshold: b.AlertThreshold,
		})
	}
	return out, nil
}

// Query lists expenses newest first, breaking ties by insertion order.
func (s *LedgerStore) Query(ctx context.Context, filter analytics.ExpenseFilter) ([]analytics.Transaction, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if filter.Start != nil {
		q = q.Where("expenses.date >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("expenses.date <= ?", *filter.End)
	}
	if filter.CategoryID != nil {
		q = q.Where("expenses.category_id = ?", *filter.CategoryID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var expenses []models.Expense
	if err := q.Scopes(newestFirst).Find(&expenses).Error; err != nil {
		return nil, storeErr(err)
	}

	out := make([]analytics.Transaction, 0, len(expenses))
	for i := range expenses {
		e := &expenses[i]
		out = append(out, analytics.Transaction{
			ID:            e.ID,
			Date:          e.Date,
			Amount:        money.FromCents(e.AmountCents),
			CategoryID:    e.CategoryID,
			CategoryName:  e.CategoryName(),
			Description:   e.Description,
			PaymentMethod: string(e.PaymentMethod),
			Tags:          e.Tags,
			IsRecurring:   e.IsRecurring,
		})
	}
	return out, nil
}
