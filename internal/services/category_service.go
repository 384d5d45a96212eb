package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category. Names are unique regardless of case.
func (s *categoryService) CreateCategory(name, description, color string, budgetLimitCents *int64) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if budgetLimitCents != nil && *budgetLimitCents <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "budget limit must be greater than zero")
	}
	if color == "" {
		color = models.DefaultCategoryColor
	}

	if err := s.ensureNameFree(s.db, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:             name,
		Description:      description,
		BudgetLimitCents: budgetLimitCents,
		Color:            color,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// ensureNameFree returns ErrDuplicateCategory when another category already
// uses name, ignoring case.
func (s *categoryService) ensureNameFree(db *gorm.DB, name, exceptID string) error {
	q := db.Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *categoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by name, ignoring case.
func (s *categoryService) GetCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "category '"+name+"' not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *categoryService) UpdateCategory(categoryID string, upd CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
		}
		if err := s.ensureNameFree(s.db, name, categoryID); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Color != nil {
		updates["color"] = *upd.Color
	}
	switch {
	case upd.ClearBudgetLimit:
		updates["budget_limit_cents"] = nil
	case upd.BudgetLimitCents != nil:
		if *upd.BudgetLimitCents <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "budget limit must be greater than zero")
		}
		updates["budget_limit_cents"] = *upd.BudgetLimitCents
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetCategoryByID(categoryID)
}

// DeleteCategory removes a category. Its expenses move to reassignTo when
// given and become uncategorized otherwise; the category's budget is removed.
func (s *categoryService) DeleteCategory(categoryID string, reassignTo *string) error {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return err
	}
	if reassignTo != nil {
		if *reassignTo == categoryID {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "cannot reassign expenses to the category being deleted")
		}
		if _, err := s.GetCategoryByID(*reassignTo); err != nil {
			return err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var target interface{}
		if reassignTo != nil {
			target = *reassignTo
		}
		if err := tx.Model(&models.Expense{}).
			Where("category_id = ?", categoryID).
			Update("category_id", target).Error; err != nil {
			return err
		}
		if err := tx.Where("scope = ?", categoryID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SeedDefaults creates the default categories when the table is empty and
// returns how many were created.
func (s *categoryService) SeedDefaults() (int, error) {
	var count int64
	if err := s.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return 0, nil
	}

	categories := make([]models.Category, 0, len(models.DefaultCategories))
	for _, d := range models.DefaultCategories {
		categories = append(categories, models.Category{Name: d.Name, Description: d.Description, Color: d.Color})
	}
	if err := s.db.Create(&categories).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(categories), nil
}
