package services

import (
	"os"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// statsService reports what the store holds.
type statsService struct {
	db     *gorm.DB
	driver string
	path   string
}

// NewStatsService creates a new StatsServicer. path is the database file,
// empty for server databases.
func NewStatsService(db *gorm.DB, driver, path string) StatsServicer {
	return &statsService{db: db, driver: driver, path: path}
}

// GetStats counts expenses and categories and reports the date span and the
// size of the database file.
func (s *statsService) GetStats() (*Stats, error) {
	stats := &Stats{Driver: s.driver, DatabasePath: s.path}

	var totals struct {
		Count int64
		Sum   int64
	}
	if err := s.db.Model(&models.Expense{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS sum").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	stats.TotalExpenses = totals.Count
	stats.TotalCents = totals.Sum

	if err := s.db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if stats.TotalExpenses > 0 {
		first, err := s.edgeDate("date ASC")
		if err != nil {
			return nil, err
		}
		last, err := s.edgeDate("date DESC")
		if err != nil {
			return nil, err
		}
		stats.FirstExpense, stats.LastExpense = first, last
	}

	if s.path != "" {
		if info, err := os.Stat(s.path); err == nil {
			stats.DatabaseBytes = info.Size()
		}
	}

	return stats, nil
}

func (s *statsService) edgeDate(order string) (*models.Date, error) {
	var expense models.Expense
	if err := s.db.Select("date").Order(order).First(&expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense.Date, nil
}
