package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/charts"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/money"

	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
)

const separator = "  |  "

func (g *Generator) canvas(w io.Writer) *charts.Canvas {
	return charts.NewCanvas(w, g.opts.CurrencySymbol)
}

func changeText(c *charts.Canvas, label string, pct *float64) string {
	if pct == nil {
		return ""
	}
	return c.Muted(label) + c.Change(*pct)
}

// Monthly writes the report for one calendar month: header, category
// breakdown, optional bar chart and insights.
func (g *Generator) Monthly(ctx context.Context, w io.Writer, year int, month time.Month, showCharts bool) error {
	summary, err := g.agg.MonthlySummary(ctx, year, month)
	if err != nil {
		return err
	}
	breakdown, err := g.agg.CategoryBreakdown(ctx, summary.Window())
	if err != nil {
		return err
	}

	c := g.canvas(w)
	header := []string{
		c.Muted("Total Spent: ") + c.Money(summary.Total),
		c.Muted("Transactions: ") + fmt.Sprint(summary.Count),
		c.Muted("Daily Avg: ") + c.Money(summary.DailyAverage),
	}
	if vs := changeText(c, "vs Last Month: ", summary.VsPreviousMonth); vs != "" {
		header = append(header, vs)
	}
	title := "Monthly Report: " + time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	blocks := []string{c.Panel(title, strings.Join(header, separator))}

	if len(breakdown) > 0 {
		blocks = append(blocks, breakdownTable(c, "Spending by Category", breakdown))
		if showCharts {
			bars := charts.BarChart(breakdownEntries(breakdown), g.opts.ChartWidth)
			blocks = append(blocks, c.BarChart("Spending by Category", bars))
		}
	}

	if insights := analytics.SpendingInsights(breakdown, summary).Top(); len(insights) > 0 {
		lines := make([]string, len(insights))
		for i, s := range insights {
			lines[i] = "• " + s
		}
		blocks = append(blocks, c.Panel("💡 Insights", strings.Join(lines, "\n")))
	}

	return writeBlocks(w, blocks...)
}

func breakdownEntries(rows []analytics.CategorySummary) []charts.Entry {
	entries := make([]charts.Entry, len(rows))
	for i, r := range rows {
		entries[i] = charts.Entry{Label: r.Name, Value: r.Total}
	}
	return entries
}

// Yearly writes the twelve-month comparison for year with a trend line and
// the year's top categories.
func (g *Generator) Yearly(ctx context.Context, w io.Writer, year int) error {
	months := g.agg.YearlySummary(ctx, year)
	breakdown, err := g.agg.CategoryBreakdown(ctx, analytics.YearWindow(year))
	if err != nil {
		return err
	}

	total := decimal.Zero
	count := 0
	values := make([]decimal.Decimal, len(months))
	for i, m := range months {
		total = total.Add(m.Total)
		count += m.Count
		values[i] = m.Total
	}

	c := g.canvas(w)
	header := strings.Join([]string{
		c.Muted("Total Spent: ") + c.Money(total),
		c.Muted("Total Transactions: ") + fmt.Sprint(count),
		c.Muted("Monthly Avg: ") + c.Money(total.Div(decimal.NewFromInt(12)).Round(2)),
	}, separator)

	blocks := []string{
		c.Panel(fmt.Sprintf("Yearly Report: %d", year), header),
		comparisonTable(c, "Monthly Spending", months),
		c.Sparkline("Monthly Spending Trend", charts.Sparkline(values, g.opts.SparklineWidth)),
	}

	if len(breakdown) > 0 {
		top := breakdown
		if len(top) > topCategories {
			top = top[:topCategories]
		}
		blocks = append(blocks,
			breakdownTable(c, "Top 5 Categories", top),
			c.PieChart("Share of Spending", charts.PieChart(breakdownEntries(breakdown))),
		)
	}

	return writeBlocks(w, blocks...)
}

// Category writes totals and the most recent expenses of one category. A
// missing end means today and a missing start means CategoryReportDays
// before the end.
func (g *Generator) Category(ctx context.Context, w io.Writer, categoryID string, start, end *models.Date) error {
	categories, err := g.store.Categories(ctx)
	if err != nil {
		return err
	}
	var category *analytics.Category
	for i := range categories {
		if categories[i].ID == categoryID {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return apperrors.ErrCategoryNotFound
	}

	window := analytics.LastDays(g.today(), CategoryReportDays)
	if end != nil {
		window = analytics.LastDays(*end, CategoryReportDays)
	}
	if start != nil {
		window.Start = *start
	}
	if window.End.Before(window.Start.Time) {
		return apperrors.WithMessage(apperrors.ErrInvalidDate, "start date is after end date")
	}

	expenses, err := g.store.Query(ctx, analytics.ExpenseFilter{
		Start:      &window.Start,
		End:        &window.End,
		CategoryID: &category.ID,
	})
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	avg := decimal.Zero
	if len(expenses) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(expenses)))).Round(2)
	}

	c := g.canvas(w)
	header := c.Muted(fmt.Sprintf("Period: %s to %s", window.Start, window.End)) + "\n" +
		strings.Join([]string{
			c.Muted("Total: ") + c.Money(total),
			c.Muted("Transactions: ") + fmt.Sprint(len(expenses)),
			c.Muted("Average: ") + c.Money(avg),
		}, separator)
	blocks := []string{c.Panel("Category Report: "+category.Name, header)}

	if len(expenses) > 0 {
		t := c.Table("Date", "Description", "Amount", "Method")
		recent := expenses
		if len(recent) > RecentExpenses {
			recent = recent[:RecentExpenses]
		}
		for _, e := range recent {
			t.Row(e.Date.String(), orDash(ansi.Truncate(e.Description, 40, "")), c.Money(e.Amount), orDash(e.PaymentMethod))
		}
		blocks = append(blocks, t.String())
	}

	return writeBlocks(w, blocks...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NoBudgetsMessage is written by Budget when nothing has been set.
const NoBudgetsMessage = "No budgets set. Use 'finance budget set' to create budgets."

// Budget writes every budget against this month's spending, followed by
// alerts for those over their threshold.
func (g *Generator) Budget(ctx context.Context, w io.Writer) error {
	statuses, err := g.agg.BudgetReport(ctx, g.today())
	if err != nil {
		return err
	}
	c := g.canvas(w)
	if len(statuses) == 0 {
		return writeBlocks(w, c.Panel("", NoBudgetsMessage))
	}

	blocks := []string{budgetTable(c, statuses)}
	if alerts := budgetAlerts(statuses); len(alerts) > 0 {
		blocks = append(blocks, c.Panel("Budget Alerts", strings.Join(alerts, "\n")))
	}
	return writeBlocks(w, blocks...)
}

// Summary writes the quick status card for the current month.
func (g *Generator) Summary(ctx context.Context, w io.Writer) error {
	today := g.today()
	summary, err := g.agg.MonthlySummary(ctx, today.Year(), today.Month())
	if err != nil {
		return err
	}
	budgets, err := g.store.Budgets(ctx)
	if err != nil {
		return err
	}

	c := g.canvas(w)
	var b strings.Builder
	b.WriteString(c.Title("This Month") + "\n")
	fmt.Fprintf(&b, "%s%s  (%d transactions)\n", c.Muted("Total: "), c.Money(summary.Total), summary.Count)
	if vs := changeText(c, "vs Last Month: ", summary.VsPreviousMonth); vs != "" {
		b.WriteString(vs + "\n")
	}

	top := summary.TopCategory
	if top == "" {
		top = "N/A"
	}
	fmt.Fprintf(&b, "\n%s%s", c.Muted("Top Category: "), top)
	fmt.Fprintf(&b, "\n%s%s", c.Muted("Daily Average: "), c.Money(summary.DailyAverage))

	overall := decimal.Zero
	for _, bud := range budgets {
		if bud.IsOverall() {
			overall = overall.Add(bud.Amount)
		}
	}
	if overall.IsPositive() {
		pct := money.Percent(summary.Total, overall)
		level := analytics.ClassifyUtilization(pct)
		fmt.Fprintf(&b, "\n\n%s%s", c.Title("Budget Status:")+" ", c.LevelColor(level, fmt.Sprintf("%.0f%% used", pct)))
	}

	return writeBlocks(w, c.Panel("📊 Financial Summary", b.String()))
}
