package models

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#6366f1"

// Category represents an expense category with an optional monthly budget limit.
type Category struct {
	Base
	Name             string `gorm:"not null;uniqueIndex" json:"name"`
	Description      string `gorm:"not null;default:''" json:"description"`
	BudgetLimitCents *int64 `json:"budget_limit_cents,omitempty"`
	Color            string `gorm:"not null;default:'#6366f1'" json:"color"`
}

// DefaultCategory describes a category seeded into a fresh database.
type DefaultCategory struct {
	Name        string
	Description string
	Color       string
}

// DefaultCategories are created the first time the store is opened.
var DefaultCategories = []DefaultCategory{
	{"Food & Dining", "Groceries, restaurants, takeout", "#ef4444"},
	{"Transportation", "Gas, public transit, rideshare", "#3b82f6"},
	{"Housing", "Rent, mortgage, utilities", "#10b981"},
	{"Entertainment", "Movies, games, hobbies", "#f59e0b"},
	{"Shopping", "Clothing, electronics, gifts", "#8b5cf6"},
	{"Health", "Medical, pharmacy, fitness", "#ec4899"},
	{"Personal", "Haircuts, subscriptions, etc.", "#6366f1"},
	{"Education", "Books, courses, training", "#14b8a6"},
	{"Travel", "Flights, hotels, vacations", "#f97316"},
	{"Savings", "Investments, emergency fund", "#22c55e"},
}
