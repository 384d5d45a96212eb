package models

// PaymentMethod represents how an expense was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodOther    PaymentMethod = "other"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// UncategorizedName labels expenses without a category.
const UncategorizedName = "Uncategorized"

// Expense is a single spending transaction. Amounts are stored in cents.
type Expense struct {
	Base
	AmountCents   int64         `gorm:"not null" json:"amount_cents"`
	CategoryID    *string       `gorm:"type:text;index" json:"category_id,omitempty"`
	Description   string        `gorm:"not null;default:''" json:"description"`
	Date          Date          `gorm:"not null;index" json:"date"`
	PaymentMethod PaymentMethod `gorm:"not null;default:'cash'" json:"payment_method"`
	Tags          []string      `gorm:"serializer:json;not null" json:"tags"`
	IsRecurring   bool          `gorm:"not null;default:false" json:"is_recurring"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
}

// CategoryName returns the joined category name or UncategorizedName.
func (e *Expense) CategoryName() string {
	if e.Category == nil || e.Category.Name == "" {
		return UncategorizedName
	}
	return e.Category.Name
}
