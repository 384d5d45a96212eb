package reports

import (
	"fmt"
	"strconv"
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/charts"

	"github.com/charmbracelet/x/ansi"
)

func breakdownTable(c *charts.Canvas, title string, rows []analytics.CategorySummary) string {
	t := c.Table("Category", "Amount", "%", "Transactions", "Budget", "Status")
	for _, s := range rows {
		budget, status := "-", "-"
		if s.BudgetLimit != nil && s.BudgetLimit.IsPositive() {
			budget = c.Money(*s.BudgetLimit)
		}
		if s.BudgetUsed != nil {
			used := *s.BudgetUsed
			level := analytics.ClassifyUtilization(used)
			if level == analytics.LevelOver {
				status = c.LevelColor(level, "● Over")
			} else {
				status = c.LevelColor(level, fmt.Sprintf("● %.0f%%", used))
			}
		}
		t.Row(
			s.Name,
			c.Money(s.Total),
			fmt.Sprintf("%.1f%%", s.Percentage),
			strconv.Itoa(s.Count),
			budget,
			status,
		)
	}
	return c.Title(title) + "\n" + t.String()
}

func comparisonTable(c *charts.Canvas, title string, months []analytics.MonthlySummary) string {
	t := c.Table("Month", "Total", "Transactions", "Daily Avg", "vs Prev", "Top Category")
	for _, s := range months {
		vs := "-"
		if s.VsPreviousMonth != nil {
			pct := *s.VsPreviousMonth
			if pct > 0 {
				vs = c.LevelColor(analytics.LevelOver, fmt.Sprintf("↑ %.1f%%", pct))
			} else {
				vs = c.LevelColor(analytics.LevelOK, fmt.Sprintf("↓ %.1f%%", -pct))
			}
		}
		top := "-"
		if s.TopCategory != "" {
			top = ansi.Truncate(s.TopCategory, 20, "")
		}
		t.Row(
			time.Date(s.Year, s.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			c.Money(s.Total),
			strconv.Itoa(s.Count),
			c.Money(s.DailyAverage),
			vs,
			top,
		)
	}
	return c.Title(title) + "\n" + t.String()
}

func budgetTable(c *charts.Canvas, statuses []analytics.BudgetStatus) string {
	t := c.Table("Budget", "Limit", "Spent", "Remaining", "Progress")
	for _, s := range statuses {
		bar := charts.ProgressBar(s.Spent, s.Budget.Amount, charts.DefaultProgressWidth)
		t.Row(
			s.Budget.Name,
			c.Money(s.Budget.Amount),
			c.Money(s.Spent),
			c.LevelColor(s.Level, c.Money(s.Remaining)),
			c.ProgressBar(bar),
		)
	}
	return c.Title("Budget Overview") + "\n" + t.String()
}

func budgetAlerts(statuses []analytics.BudgetStatus) []string {
	var alerts []string
	for _, s := range statuses {
		if !s.Budget.Amount.IsPositive() {
			continue
		}
		switch {
		case s.Level == analytics.LevelOver:
			alerts = append(alerts, fmt.Sprintf("🔴 %s: %.0f%% over budget!", s.Budget.Name, s.Utilization))
		case s.Alert:
			alerts = append(alerts, fmt.Sprintf("🟡 %s: %.0f%% of budget used", s.Budget.Name, s.Utilization))
		}
	}
	return alerts
}
