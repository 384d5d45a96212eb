package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/reports"
)

// AnalyticsHandler serves aggregated spending figures and rendered reports.
type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
	reports    *reports.Generator
	now        func() time.Time
}

// NewAnalyticsHandler creates an AnalyticsHandler over store. Reports are
// rendered without color.
func NewAnalyticsHandler(store analytics.Store, opts reports.Options) *AnalyticsHandler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AnalyticsHandler{
		aggregator: analytics.NewAggregator(store),
		reports:    reports.NewGenerator(store, opts),
		now:        opts.Now,
	}
}

// Breakdown returns per-category spending for a date range
// @Summary     Category breakdown
// @Description Spending per category between from and to, largest first. Defaults to the current month.
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Start date (YYYY-MM-DD)"
// @Param       to   query string false "End date (YYYY-MM-DD)"
// @Success     200 {array} analytics.CategorySummary
// @Failure     400 {object} ErrorResponse "Invalid dates"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/breakdown [get]
func (h *AnalyticsHandler) Breakdown(c *gin.Context) {
	today := models.DateOf(h.now())
	w := analytics.MonthWindow(today.Year(), today.Month())

	from, err := optionalDate(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := optionalDate(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if from != nil {
		w.Start = *from
	}
	if to != nil {
		w.End = *to
	}
	if w.End.Before(w.Start.Time) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidDate, "from is after to"))
		return
	}

	breakdown, err := h.aggregator.CategoryBreakdown(c.Request.Context(), w)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": w.Start, "to": w.End, "categories": breakdown})
}

// Monthly returns the summary of one month
// @Summary     Monthly summary
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       year  path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} analytics.MonthlySummary
// @Failure     400 {object} ErrorResponse "Invalid year or month"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/monthly/{year}/{month} [get]
func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	summary, err := h.aggregator.MonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Yearly returns the twelve monthly summaries of a year
// @Summary     Yearly summary
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       year path int true "Year"
// @Success     200 {array} analytics.MonthlySummary
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Router      /analytics/yearly/{year} [get]
func (h *AnalyticsHandler) Yearly(c *gin.Context) {
	year, _, err := yearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	months := h.aggregator.YearlySummary(c.Request.Context(), year)
	c.JSON(http.StatusOK, gin.H{"year": year, "months": months})
}

// Insights returns the spending pattern and advice for one month
// @Summary     Spending insights
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       year  path int true "Year"
// @Param       month path int true "Month (1-12)"
// @Success     200 {object} analytics.Insights
// @Failure     400 {object} ErrorResponse "Invalid year or month"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/insights/{year}/{month} [get]
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	ctx := c.Request.Context()
	summary, err := h.aggregator.MonthlySummary(ctx, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	breakdown, err := h.aggregator.CategoryBreakdown(ctx, summary.Window())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.SpendingInsights(breakdown, summary))
}

// Budgets measures every budget against this month's spending
// @Summary     Budget utilization
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} analytics.BudgetStatus
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /analytics/budgets [get]
func (h *AnalyticsHandler) Budgets(c *gin.Context) {
	statuses, err := h.aggregator.BudgetReport(c.Request.Context(), models.DateOf(h.now()))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": statuses})
}

// Report renders a text report
// @Summary     Render a report
// @Description Render the monthly, yearly, category, budget or summary report as plain text
// @Tags        reports
// @Produce     plain
// @Security    BearerAuth
// @Param       kind        path  string true  "monthly, yearly, category, budget or summary"
// @Param       year        query int    false "Year (default current)"
// @Param       month       query int    false "Month (default current)"
// @Param       category_id query string false "Category for the category report"
// @Param       from        query string false "Category report start (YYYY-MM-DD)"
// @Param       to          query string false "Category report end (YYYY-MM-DD)"
// @Param       charts      query bool   false "Include charts in the monthly report"
// @Success     200 {string} string
// @Failure     400 {object} ErrorResponse "Invalid report request"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /reports/{kind} [get]
func (h *AnalyticsHandler) Report(c *gin.Context) {
	kind, err := reports.ParseKind(c.Param("kind"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	req := reports.Request{Kind: kind, CategoryID: c.Query("category_id")}

	if req.Year, err = intQuery(c, "year"); err != nil {
		respondWithError(c, err)
		return
	}
	month, err := intQuery(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	req.Month = time.Month(month)
	if req.Start, err = optionalDate(c, "from"); err != nil {
		respondWithError(c, err)
		return
	}
	if req.End, err = optionalDate(c, "to"); err != nil {
		respondWithError(c, err)
		return
	}
	req.ShowCharts = c.Query("charts") != "false"

	var buf bytes.Buffer
	if err := h.reports.Generate(c.Request.Context(), &buf, req); err != nil {
		respondWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+key)
	}
	return n, nil
}
