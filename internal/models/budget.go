package models

// BudgetPeriod labels a budget. Utilization is always measured over calendar
// months; the period is kept for display.
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is one of the known periods.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodDaily, BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// OverallScope is the scope key of the budget not tied to any category.
const OverallScope = "overall"

// OverallBudgetName is the display name of the overall budget.
const OverallBudgetName = "Overall"

// DefaultAlertThreshold is the utilization percentage that raises an alert.
const DefaultAlertThreshold = 80

// Budget is a spending limit for one category or, when CategoryID is nil,
// for all spending. Scope is unique, so each category and the overall
// budget have at most one row.
type Budget struct {
	Base
	Scope          string       `gorm:"not null;uniqueIndex" json:"scope"`
	CategoryID     *string      `gorm:"type:text" json:"category_id,omitempty"`
	AmountCents    int64        `gorm:"not null" json:"amount_cents"`
	Period         BudgetPeriod `gorm:"not null;default:'monthly'" json:"period"`
	StartDate      *Date        `json:"start_date,omitempty"`
	EndDate        *Date        `json:"end_date,omitempty"`
	AlertThreshold int          `gorm:"not null;default:80" json:"alert_threshold"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

// ScopeFor returns the scope key for a category id, or OverallScope for nil.
func ScopeFor(categoryID *string) string {
	if categoryID == nil {
		return OverallScope
	}
	return *categoryID
}

// IsOverall reports whether the budget covers all spending.
func (b *Budget) IsOverall() bool {
	return b.CategoryID == nil
}

// DisplayName returns the category name or OverallBudgetName.
func (b *Budget) DisplayName() string {
	if b.IsOverall() {
		return OverallBudgetName
	}
	if b.Category != nil {
		return b.Category.Name
	}
	return ""
}
