package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendwise/internal/models"
	"spendwise/internal/services"
)

// BudgetHandler handles budget requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// SetBudgetRequest sets the budget of a category, or the overall budget when
// category_id is omitted.
type SetBudgetRequest struct {
	CategoryID     *string `json:"category_id" binding:"omitempty,uuid"`
	Amount         string  `json:"amount" binding:"required" example:"500.00"`
	Period         string  `json:"period" binding:"omitempty,budget_period"`
	AlertThreshold int     `json:"alert_threshold" binding:"omitempty,min=1,max=100"`
}

// SetBudget creates or replaces a budget
// @Summary     Set a budget
// @Description Create or replace the budget for a category or, without category_id, for all spending
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budgets [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cents, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.SetBudget(req.CategoryID, cents, models.BudgetPeriod(req.Period), req.AlertThreshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "SET_BUDGET", "budget", budget.ID,
		map[string]interface{}{"scope": budget.Scope, "amount_cents": cents})
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ListBudgets returns the overall budget first, then category budgets
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Budget
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.budgetService.ListBudgets()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// DeleteBudget removes a budget
// @Summary     Delete a budget
// @Tags        budgets
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.budgetService.DeleteBudget(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "DELETE_BUDGET", "budget", id, nil)
	c.Status(http.StatusNoContent)
}
