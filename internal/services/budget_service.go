package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// SetBudget creates or replaces the budget for a category, or the overall
// budget when categoryID is nil. A zero alert threshold means the default.
func (s *budgetService) SetBudget(categoryID *string, amountCents int64, period models.BudgetPeriod, alertThreshold int) (*models.Budget, error) {
	if amountCents <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if period == "" {
		period = models.BudgetPeriodMonthly
	}
	if !period.Valid() {
		return nil, apperrors.ErrInvalidBudgetPeriod
	}
	if alertThreshold == 0 {
		alertThreshold = models.DefaultAlertThreshold
	}
	if alertThreshold < 0 || alertThreshold > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alert threshold must be between 1 and 100")
	}

	if categoryID != nil {
		if err := categoryExists(s.db, *categoryID); err != nil {
			return nil, err
		}
	}

	budget := &models.Budget{
		Scope:          models.ScopeFor(categoryID),
		CategoryID:     categoryID,
		AmountCents:    amountCents,
		Period:         period,
		AlertThreshold: alertThreshold,
	}

	// One budget per scope: a second set replaces the first.
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount_cents", "period", "alert_threshold", "updated_at"}),
	}).Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.getByScope(budget.Scope)
}

func (s *budgetService) getByScope(scope string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("scope = ?", scope).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// ListBudgets returns the overall budget first, then category budgets by
// category name.
func (s *budgetService) ListBudgets() ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.Model(&models.Budget{}).
		Preload("Category").
		Joins("LEFT JOIN categories ON categories.id = budgets.category_id").
		Order("CASE WHEN budgets.category_id IS NULL THEN 0 ELSE 1 END").
		Order("categories.name ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ?", budgetID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget permanently removes a budget.
func (s *budgetService) DeleteBudget(budgetID string) error {
	result := s.db.Where("id = ?", budgetID).Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}
