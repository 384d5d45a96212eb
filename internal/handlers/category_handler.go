package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendwise/internal/services"
)

// CategoryHandler handles category requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=500"`
	Color       string  `json:"color" binding:"omitempty,hex_color"`
	BudgetLimit *string `json:"budget_limit" example:"300.00"`
}

// UpdateCategoryRequest represents the category fields to change.
type UpdateCategoryRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description      *string `json:"description" binding:"omitempty,max=500"`
	Color            *string `json:"color" binding:"omitempty,hex_color"`
	BudgetLimit      *string `json:"budget_limit"`
	ClearBudgetLimit bool    `json:"clear_budget_limit"`
}

func optionalLimit(raw *string) (*int64, error) {
	if raw == nil {
		return nil, nil
	}
	cents, err := parseAmount(*raw)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new expense category. Names are unique ignoring case.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	limit, err := optionalLimit(req.BudgetLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.Description, req.Color, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "CREATE_CATEGORY", "category", category.ID,
		map[string]interface{}{"name": category.Name})
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories returns every category by name
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Category
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryByID returns one category
// @Summary     Get category by ID
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	category, err := h.categoryService.GetCategoryByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory changes the given fields of a category
// @Summary     Update category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to change"
// @Success     200 {object} models.Category
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	limit, err := optionalLimit(req.BudgetLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(id, services.CategoryUpdate{
		Name:             req.Name,
		Description:      req.Description,
		Color:            req.Color,
		BudgetLimitCents: limit,
		ClearBudgetLimit: req.ClearBudgetLimit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "UPDATE_CATEGORY", "category", id, nil)
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category
// @Summary     Delete category
// @Description Delete a category. Its expenses move to reassign_to when given, otherwise they become uncategorized.
// @Tags        categories
// @Security    BearerAuth
// @Param       id          path  string true  "Category ID"
// @Param       reassign_to query string false "Category receiving the expenses"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var reassign *string
	if target := c.Query("reassign_to"); target != "" {
		reassign = &target
	}

	if err := h.categoryService.DeleteCategory(id, reassign); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.SourceAPI, "DELETE_CATEGORY", "category", id,
		map[string]interface{}{"reassign_to": reassign})
	c.Status(http.StatusNoContent)
}
