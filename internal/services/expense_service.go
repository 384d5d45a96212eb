package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// DefaultSearchLimit caps keyword searches when no limit is given.
const DefaultSearchLimit = 50

// expenseService handles expense-related business logic.
type expenseService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db, now: time.Now}
}

// newestFirst orders expenses by date, breaking ties by insertion order.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("expenses.date DESC").Order("expenses.created_at DESC").Order("expenses.id DESC")
}

// CreateExpense validates and stores a single expense.
func (s *expenseService) CreateExpense(in ExpenseInput) (*models.Expense, error) {
	expense, err := s.prepare(s.db, in)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetExpenseByID(expense.ID)
}

// CreateExpenses stores a batch of expenses in one transaction. Nothing is
// stored if any entry is invalid.
func (s *expenseService) CreateExpenses(in []ExpenseInput) ([]models.Expense, error) {
	if len(in) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one expense is required")
	}

	created := make([]models.Expense, 0, len(in))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range in {
			expense, err := s.prepare(tx, item)
			if err != nil {
				return err
			}
			if err := tx.Create(expense).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			created = append(created, *expense)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// prepare validates input and builds the model. db may be a transaction.
func (s *expenseService) prepare(db *gorm.DB, in ExpenseInput) (*models.Expense, error) {
	if in.AmountCents <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, apperrors.ErrInvalidPaymentMethod
	}
	date := in.Date
	if date.IsZero() {
		date = models.DateOf(s.now())
	}
	if in.CategoryID != nil {
		if err := categoryExists(db, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	tags := normalizeTags(in.Tags)

	return &models.Expense{
		AmountCents:   in.AmountCents,
		CategoryID:    in.CategoryID,
		Description:   strings.TrimSpace(in.Description),
		Date:          date,
		PaymentMethod: method,
		Tags:          tags,
		IsRecurring:   in.IsRecurring,
	}, nil
}

func categoryExists(db *gorm.DB, categoryID string) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// GetExpenseByID retrieves an expense with its category.
func (s *expenseService) GetExpenseByID(expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").Where("id = ?", expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense changes the given fields of an expense.
func (s *expenseService) UpdateExpense(expenseID string, upd ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if upd.AmountCents != nil {
		if *upd.AmountCents <= 0 {
			return nil, apperrors.ErrInvalidAmount
		}
		updates["amount_cents"] = *upd.AmountCents
	}
	switch {
	case upd.ClearCategory:
		updates["category_id"] = nil
	case upd.CategoryID != nil:
		if err := categoryExists(s.db, *upd.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *upd.CategoryID
	}
	if upd.Description != nil {
		updates["description"] = strings.TrimSpace(*upd.Description)
	}
	if upd.Date != nil {
		updates["date"] = *upd.Date
	}
	if upd.PaymentMethod != nil {
		if !upd.PaymentMethod.Valid() {
			return nil, apperrors.ErrInvalidPaymentMethod
		}
		updates["payment_method"] = *upd.PaymentMethod
	}
	if upd.IsRecurring != nil {
		updates["is_recurring"] = *upd.IsRecurring
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Expense{}).Where("id = ?", expense.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if upd.Tags != nil {
			tags := &models.Expense{Tags: normalizeTags(upd.Tags)}
			if err := tx.Model(&models.Expense{}).Where("id = ?", expense.ID).Select("tags").Updates(tags).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(expenseID)
}

// DeleteExpense permanently removes an expense.
func (s *expenseService) DeleteExpense(expenseID string) error {
	result := s.db.Where("id = ?", expenseID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// ListExpenses returns a page of expenses matching filter, newest first.
func (s *expenseService) ListExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := applyExpenseFilters(s.db.Model(&models.Expense{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").Scopes(newestFirst, pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("expenses.date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("expenses.date <= ?", *f.ToDate)
	}
	if f.CategoryID != nil {
		q = q.Where("expenses.category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("expenses.amount_cents >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("expenses.amount_cents <= ?", *f.MaxAmount)
	}
	if f.PaymentMethod != nil {
		q = q.Where("expenses.payment_method = ?", *f.PaymentMethod)
	}
	return q
}

// SearchExpenses finds expenses whose description contains keyword,
// ignoring case.
func (s *expenseService) SearchExpenses(keyword string, limit int) ([]models.Expense, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "search keyword is required")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	pattern := "%" + strings.ToLower(keyword) + "%"
	var expenses []models.Expense
	if err := s.db.Preload("Category").
		Where("LOWER(expenses.description) LIKE ?", pattern).
		Scopes(newestFirst).
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}
