package analytics

import "spendwise/internal/money"

// BudgetUtilization measures each budget against spend. A budget with a
// non-positive amount reports 0% utilization.
func BudgetUtilization(budgets []Budget, spend Spend) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := spend.For(b)
		pct := money.Percent(spent, b.Amount)
		threshold := float64(b.AlertThreshold)
		if b.AlertThreshold <= 0 {
			threshold = WarningThreshold
		}
		out = append(out, BudgetStatus{
			Budget:      b,
			Spent:       spent,
			Remaining:   b.Amount.Sub(spent),
			Utilization: pct,
			Level:       ClassifyUtilization(pct),
			Alert:       b.Amount.IsPositive() && pct >= threshold,
		})
	}
	return out
}
