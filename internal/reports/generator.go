// Package reports composes analytics results and rendered charts into the
// text reports shown by the CLI and served by the API.
package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Kind names a report.
type Kind string

// Report kinds.
const (
	KindMonthly  Kind = "monthly"
	KindYearly   Kind = "yearly"
	KindCategory Kind = "category"
	KindBudget   Kind = "budget"
	KindSummary  Kind = "summary"
)

// Defaults applied when Options leaves a width unset.
const (
	DefaultChartWidth     = 40
	DefaultSparklineWidth = 40
	// CategoryReportDays is the look-back of a category report without dates.
	CategoryReportDays = 90
	// RecentExpenses caps the expense table of a category report.
	RecentExpenses = 20
	topCategories  = 5
)

// ParseKind validates a report name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMonthly, KindYearly, KindCategory, KindBudget, KindSummary:
		return k, nil
	}
	return "", apperrors.WithMessage(apperrors.ErrInvalidInput,
		fmt.Sprintf("unknown report %q, use monthly, yearly, category, budget or summary", s))
}

// Options configures a Generator.
type Options struct {
	ChartWidth     int
	SparklineWidth int
	CurrencySymbol string
	// Now supplies "today". Defaults to time.Now.
	Now func() time.Time
}

// Request selects a report and its parameters. Zero Year or Month mean the
// current ones. Start and End only apply to category reports.
type Request struct {
	Kind       Kind
	Year       int
	Month      time.Month
	CategoryID string
	Start      *models.Date
	End        *models.Date
	ShowCharts bool
}

// Generator renders reports from a Store.
type Generator struct {
	store analytics.Store
	agg   *analytics.Aggregator
	opts  Options
	log   *zap.SugaredLogger
}

// NewGenerator creates a Generator over store.
func NewGenerator(store analytics.Store, opts Options) *Generator {
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = DefaultChartWidth
	}
	if opts.SparklineWidth <= 0 {
		opts.SparklineWidth = DefaultSparklineWidth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{
		store: store,
		agg:   analytics.NewAggregator(store),
		opts:  opts,
		log:   logger.Get(),
	}
}

func (g *Generator) today() models.Date {
	return models.DateOf(g.opts.Now())
}

// Generate writes the report selected by req to w.
func (g *Generator) Generate(ctx context.Context, w io.Writer, req Request) error {
	today := g.today()
	year, month := req.Year, req.Month
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	if month < time.January || month > time.December {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	g.log.Debugw("generating report", "kind", req.Kind, "year", year, "month", int(month))

	switch req.Kind {
	case KindMonthly:
		return g.Monthly(ctx, w, year, month, req.ShowCharts)
	case KindYearly:
		return g.Yearly(ctx, w, year)
	case KindCategory:
		return g.Category(ctx, w, req.CategoryID, req.Start, req.End)
	case KindBudget:
		return g.Budget(ctx, w)
	case KindSummary:
		return g.Summary(ctx, w)
	}
	_, err := ParseKind(string(req.Kind))
	return err
}

// TrendIndicator returns ↑, ↓ or → for current against previous.
func TrendIndicator(current, previous decimal.Decimal) string {
	return analytics.TrendOf(current, previous).Arrow()
}

// writeBlocks writes non-empty blocks separated by blank lines.
func writeBlocks(w io.Writer, blocks ...string) error {
	var b strings.Builder
	for _, block := range blocks {
		if block == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
