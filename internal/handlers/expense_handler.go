package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// ExpenseHandler handles expense requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	Amount        string   `json:"amount" binding:"required" example:"12.50"`
	CategoryID    *string  `json:"category_id" binding:"omitempty,uuid"`
	Description   string   `json:"description" binding:"max=500"`
	Date          string   `json:"date" binding:"omitempty,iso_date" example:"2024-05-01"`
	PaymentMethod string   `json:"payment_method" binding:"omitempty,payment_method"`
	Tags          []string `json:"tags" binding:"max=20,dive,max=50"`
	IsRecurring   bool     `json:"is_recurring"`
}

func (r CreateExpenseRequest) toInput() (services.ExpenseInput, error) {
	cents, err := parseAmount(r.Amount)
	if err != nil {
		return services.ExpenseInput{}, err
	}
	in := services.ExpenseInput{
		AmountCents:   cents,
		CategoryID:    r.CategoryID,
		Description:   r.Description,
		PaymentMethod: models.PaymentMethod(r.PaymentMethod),
		Tags:          r.Tags,
		IsRecurring:   r.IsRecurring,
	}
	if r.Date != "" {
		d, err := models.ParseDate(r.Date)
		if err != nil {
			return services.ExpenseInput{}, apperrors.ErrInvalidDate
		}
		in.Date = d
	}
	return in, nil
}

// UpdateExpenseRequest represents the fields of an expense to change.
type UpdateExpenseRequest struct {
	Amount        *string  `json:"amount"`
	CategoryID    *string  `json:"category_id" binding:"omitempty,uuid"`
	ClearCategory bool     `json:"clear_category"`
	Description   *string  `json:"description" binding:"omitempty,max=500"`
	Date          *string  `json:"date" binding:"omitempty,iso_date"`
	PaymentMethod *string  `json:"payment_method" binding:"omitempty,payment_method"`
	Tags          []string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	IsRecurring   *bool    `json:"is_recurring"`
}

func (r UpdateExpenseRequest) toUpdate() (services.ExpenseUpdate, error) {
	upd := services.ExpenseUpdate{
		CategoryID:    r.CategoryID,
		ClearCategory: r.ClearCategory,
		Description:   r.Description,
		Tags:          r.Tags,
		IsRecurring:   r.IsRecurring,
	}
	if r.Amount != nil {
		cents, err := parseAmount(*r.Amount)
		if err != nil {
			return upd, err
		}
		upd.AmountCents = &cents
	}
	if r.Date != nil {
		d, err := models.ParseDate(*r.Date)
		if err != nil {
			return upd, apperrors.ErrInvalidDate
		}
		upd.Date = &d
	}
	if r.PaymentMethod != nil {
		pm := models.PaymentMethod(*r.PaymentMethod)
		upd.PaymentMethod = &pm
	}
	return upd, nil
}

// CreateExpense records a new expense
// @Summary     Record an expense
// @Description Record a new expense. The date defaults to today and the payment method to cash.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "CREATE_EXPENSE", "expense", expense.ID,
		map[string]interface{}{"amount_cents": expense.AmountCents, "date": expense.Date.String()})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses lists expenses newest first
// @Summary     List expenses
// @Description List expenses newest first with optional filters and pagination
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       from           query string false "Start date (YYYY-MM-DD)"
// @Param       to             query string false "End date (YYYY-MM-DD)"
// @Param       category_id    query string false "Category ID"
// @Param       min_amount     query string false "Minimum amount"
// @Param       max_amount     query string false "Maximum amount"
// @Param       payment_method query string false "Payment method"
// @Param       page           query int    false "Page number"
// @Param       page_size      query int    false "Page size (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense]
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		badRequest(c, err)
		return
	}

	filter, err := expenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListExpenses(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func expenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var (
		f   services.ExpenseFilter
		err error
	)
	if f.FromDate, err = optionalDate(c, "from"); err != nil {
		return f, err
	}
	if f.ToDate, err = optionalDate(c, "to"); err != nil {
		return f, err
	}
	if f.MinAmount, err = optionalAmount(c, "min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = optionalAmount(c, "max_amount"); err != nil {
		return f, err
	}
	if id := c.Query("category_id"); id != "" {
		f.CategoryID = &id
	}
	if raw := c.Query("payment_method"); raw != "" {
		pm := models.PaymentMethod(raw)
		if !pm.Valid() {
			return f, apperrors.ErrInvalidPaymentMethod
		}
		f.PaymentMethod = &pm
	}
	return f, nil
}

// GetExpenseByID returns one expense
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	expense, err := h.expenseService.GetExpenseByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense changes the given fields of an expense
// @Summary     Update an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} models.Expense
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or category not found"
// @Router      /expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(id, upd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "UPDATE_EXPENSE", "expense", id, nil)
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense permanently removes an expense
// @Summary     Delete an expense
// @Tags        expenses
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.expenseService.DeleteExpense(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "DELETE_EXPENSE", "expense", id, nil)
	c.Status(http.StatusNoContent)
}

// SearchExpenses finds expenses whose description contains a keyword
// @Summary     Search expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       q     query string true  "Keyword"
// @Param       limit query int    false "Maximum results (default 50)"
// @Success     200 {array} models.Expense
// @Failure     400 {object} ErrorResponse "Missing keyword"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses/search [get]
func (h *ExpenseHandler) SearchExpenses(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "q is required"))
		return
	}
	limit := services.DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > pagination.MaxPageSize {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
		limit = n
	}

	expenses, err := h.expenseService.SearchExpenses(keyword, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}
