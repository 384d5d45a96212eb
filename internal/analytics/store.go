package analytics

import "context"

//go:generate mockgen -destination=mocks/mock_store.go -source=store.go Store

// Store is the read side of the expense ledger. Implementations map their
// rows into these types; the aggregation code never sees raw rows.
//
// Errors are returned to callers unchanged.
type Store interface {
	// Totals sums expenses in the window, optionally limited to one category.
	Totals(ctx context.Context, w Window, categoryID *string) (Totals, error)
	// CategoryTotals returns every category with its window total, ordered by name.
	CategoryTotals(ctx context.Context, w Window) ([]CategoryTotal, error)
	Categories(ctx context.Context) ([]Category, error)
	// Budgets returns the overall budget first, then category budgets by name.
	Budgets(ctx context.Context) ([]Budget, error)
	// Query lists expenses newest first, breaking ties by insertion order.
	Query(ctx context.Context, filter ExpenseFilter) ([]Transaction, error)
}
