package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/services"
)

func setupPipelineRouter(handler *PipelineHandler) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/expenses", handler.IngestExpenses)
	return r
}

func TestPipelineHandler_IngestExpenses(t *testing.T) {
	t.Run("resolves category names once per batch", func(t *testing.T) {
		lookups := 0
		categories := &mockCategoryService{
			getCategoryByNameFn: func(name string) (*models.Category, error) {
				lookups++
				if !strings.EqualFold(name, "food") {
					t.Errorf("unexpected lookup %q", name)
				}
				return &models.Category{Base: models.Base{ID: testCategoryID}, Name: "Food"}, nil
			},
		}
		var got []services.ExpenseInput
		expenses := &mockExpenseService{
			createExpensesFn: func(in []services.ExpenseInput) ([]models.Expense, error) {
				got = in
				out := make([]models.Expense, len(in))
				for i := range in {
					out[i] = models.Expense{Base: models.Base{ID: testExpenseID}, AmountCents: in[i].AmountCents}
				}
				return out, nil
			},
		}
		audit := &mockAuditService{}
		r := setupPipelineRouter(NewPipelineHandler(expenses, categories, audit))

		rec := doRequest(r, "POST", "/pipeline/expenses", `{"expenses":[
			{"amount":"4.50","category":"food","description":"Coffee"},
			{"amount":"12","category":"Food"},
			{"amount":"30"}
		]}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if lookups != 1 {
			t.Errorf("expected 1 category lookup, got %d", lookups)
		}
		if len(got) != 3 || got[0].AmountCents != 450 {
			t.Fatalf("unexpected inputs %+v", got)
		}
		if got[1].CategoryID == nil || *got[1].CategoryID != testCategoryID {
			t.Errorf("expected resolved category on second expense")
		}
		if got[2].CategoryID != nil {
			t.Errorf("expected third expense uncategorized")
		}
		if parseJSON(t, rec)["created"].(float64) != 3 {
			t.Errorf("expected created 3")
		}
		if len(audit.entries) != 1 || audit.entries[0].source != services.SourcePipeline {
			t.Errorf("expected one pipeline audit entry, got %+v", audit.entries)
		}
	})

	t.Run("fails the batch on an unknown category", func(t *testing.T) {
		called := false
		expenses := &mockExpenseService{
			createExpensesFn: func([]services.ExpenseInput) ([]models.Expense, error) {
				called = true
				return nil, nil
			},
		}
		r := setupPipelineRouter(NewPipelineHandler(expenses, &mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/pipeline/expenses", `{"expenses":[{"amount":"1","category":"Yachts"}]}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, rec, "CATEGORY_NOT_FOUND")
		if !strings.Contains(rec.Body.String(), "Category not found: Yachts") {
			t.Errorf("expected the category name in the message, got %s", rec.Body.String())
		}
		if called {
			t.Errorf("expected no expenses to be stored")
		}
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		r := setupPipelineRouter(NewPipelineHandler(&mockExpenseService{}, &mockCategoryService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/pipeline/expenses", `{"expenses":[]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, rec, "INVALID_INPUT")
	})

	t.Run("rejects an invalid item", func(t *testing.T) {
		r := setupPipelineRouter(NewPipelineHandler(&mockExpenseService{}, &mockCategoryService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/pipeline/expenses", `{"expenses":[{"amount":"1","payment_method":"barter"}]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("propagates store errors", func(t *testing.T) {
		expenses := &mockExpenseService{
			createExpensesFn: func([]services.ExpenseInput) ([]models.Expense, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		r := setupPipelineRouter(NewPipelineHandler(expenses, &mockCategoryService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/pipeline/expenses", `{"expenses":[{"amount":"1"}]}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
