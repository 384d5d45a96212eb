package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/services"
)

// PipelineHandler accepts expenses pushed by external importers.
type PipelineHandler struct {
	expenseService  services.ExpenseServicer
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(expenseService services.ExpenseServicer, categoryService services.CategoryServicer, auditService services.AuditServicer) *PipelineHandler {
	return &PipelineHandler{expenseService: expenseService, categoryService: categoryService, auditService: auditService}
}

// PipelineExpense is one imported expense. Category is matched by name.
type PipelineExpense struct {
	CreateExpenseRequest
	Category string `json:"category"`
}

// IngestExpensesRequest is a batch of imported expenses.
type IngestExpensesRequest struct {
	Expenses []PipelineExpense `json:"expenses" binding:"required,min=1,max=500,dive"`
}

// IngestExpenses records a batch of expenses atomically
// @Summary     Ingest expenses
// @Description Record a batch of expenses from an importer. Either all are stored or none.
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string                true "Pipeline API key"
// @Param       request   body   IngestExpensesRequest true "Expenses"
// @Success     201 {object} map[string]interface{}
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /pipeline/expenses [post]
func (h *PipelineHandler) IngestExpenses(c *gin.Context) {
	var req IngestExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	categoryIDs := map[string]string{}
	inputs := make([]services.ExpenseInput, 0, len(req.Expenses))
	for i := range req.Expenses {
		item := req.Expenses[i]
		in, err := item.toInput()
		if err != nil {
			respondWithError(c, err)
			return
		}
		if name := strings.TrimSpace(item.Category); name != "" && in.CategoryID == nil {
			key := strings.ToLower(name)
			id, ok := categoryIDs[key]
			if !ok {
				category, err := h.categoryService.GetCategoryByName(name)
				if err != nil {
					respondWithError(c, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "Category not found: "+name))
					return
				}
				id = category.ID
				categoryIDs[key] = id
			}
			in.CategoryID = &id
		}
		inputs = append(inputs, in)
	}

	expenses, err := h.expenseService.CreateExpenses(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ids := make([]string, len(expenses))
	for i := range expenses {
		ids[i] = expenses[i].ID
	}
	h.auditService.Log(services.SourcePipeline, "INGEST_EXPENSES", "expense", "",
		map[string]interface{}{"count": len(expenses), "ids": ids})

	c.JSON(http.StatusCreated, gin.H{"created": len(expenses), "expenses": expenses})
}
