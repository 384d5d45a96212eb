package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"

	"spendwise/internal/analytics"
	mock_analytics "spendwise/internal/analytics/mocks"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/reports"
)

var analyticsNow = func() time.Time { return time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC) }

func setupAnalyticsRouter(store analytics.Store) *gin.Engine {
	handler := NewAnalyticsHandler(store, reports.Options{Now: analyticsNow})
	r := gin.New()
	r.GET("/analytics/breakdown", handler.Breakdown)
	r.GET("/analytics/monthly/:year/:month", handler.Monthly)
	r.GET("/analytics/yearly/:year", handler.Yearly)
	r.GET("/analytics/insights/:year/:month", handler.Insights)
	r.GET("/analytics/budgets", handler.Budgets)
	r.GET("/reports/:kind", handler.Report)
	return r
}

// emptyStore answers every query with no data.
func emptyStore(ctrl *gomock.Controller) *mock_analytics.MockStore {
	store := mock_analytics.NewMockStore(ctrl)
	store.EXPECT().Totals(gomock.Any(), gomock.Any(), gomock.Any()).Return(analytics.Totals{}, nil).AnyTimes()
	store.EXPECT().CategoryTotals(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().Categories(gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().Budgets(gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	return store
}

func TestAnalyticsHandler_Breakdown(t *testing.T) {
	t.Run("defaults to the current month", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_analytics.NewMockStore(ctrl)
		may := analytics.MonthWindow(2024, time.May)
		store.EXPECT().CategoryTotals(gomock.Any(), may).Return([]analytics.CategoryTotal{
			{CategoryID: "food", Name: "Food", Total: decimal.NewFromInt(30), Count: 2},
			{CategoryID: "rent", Name: "Rent"},
		}, nil)
		store.EXPECT().Totals(gomock.Any(), may, nil).Return(analytics.Totals{Total: decimal.NewFromInt(40), Count: 3}, nil)

		rec := doRequest(setupAnalyticsRouter(store), "GET", "/analytics/breakdown", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseJSON(t, rec)
		if body["from"] != "2024-05-01" || body["to"] != "2024-05-31" {
			t.Errorf("unexpected window %v..%v", body["from"], body["to"])
		}
		categories := body["categories"].([]interface{})
		if len(categories) != 1 {
			t.Fatalf("expected only categories with spending, got %d", len(categories))
		}
		if pct := categories[0].(map[string]interface{})["percentage"].(float64); pct != 75 {
			t.Errorf("expected 75%%, got %v", pct)
		}
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rec := doRequest(setupAnalyticsRouter(mock_analytics.NewMockStore(ctrl)), "GET",
			"/analytics/breakdown?from=2024-05-10&to=2024-05-01", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, rec, "INVALID_DATE")
	})

	t.Run("maps store failures to 503", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_analytics.NewMockStore(ctrl)
		store.EXPECT().CategoryTotals(gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrStoreUnavailable)

		rec := doRequest(setupAnalyticsRouter(store), "GET", "/analytics/breakdown", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, rec, "STORE_UNAVAILABLE")
	})
}

func TestAnalyticsHandler_Monthly(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := setupAnalyticsRouter(emptyStore(ctrl))

	rec := doRequest(r, "GET", "/analytics/monthly/2024/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["year"].(float64) != 2024 {
		t.Errorf("unexpected summary %v", summary)
	}

	for _, path := range []string{"/analytics/monthly/2024/13", "/analytics/monthly/abc/1"} {
		rec = doRequest(r, "GET", path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestAnalyticsHandler_Yearly(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := doRequest(setupAnalyticsRouter(emptyStore(ctrl)), "GET", "/analytics/yearly/2023", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if n := len(parseJSON(t, rec)["months"].([]interface{})); n != 12 {
		t.Errorf("expected 12 months, got %d", n)
	}
}

func TestAnalyticsHandler_InsightsAndBudgets(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := setupAnalyticsRouter(emptyStore(ctrl))

	rec := doRequest(r, "GET", "/analytics/insights/2024/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := parseJSON(t, rec)
	if recs, ok := body["recommendations"].([]interface{}); !ok || len(recs) != 0 {
		t.Errorf("expected an empty recommendations array, got %v", body["recommendations"])
	}
	if body["biggest_category"] != "" {
		t.Errorf("expected no biggest category, got %v", body["biggest_category"])
	}

	rec = doRequest(r, "GET", "/analytics/budgets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if n := len(parseJSON(t, rec)["budgets"].([]interface{})); n != 0 {
		t.Errorf("expected no budgets, got %d", n)
	}
}

func TestAnalyticsHandler_Report(t *testing.T) {
	t.Run("renders plain text", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rec := doRequest(setupAnalyticsRouter(emptyStore(ctrl)), "GET", "/reports/monthly?charts=false", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("expected text/plain, got %q", ct)
		}
		if !strings.Contains(rec.Body.String(), "Monthly Report: May 2024") {
			t.Errorf("unexpected report:\n%s", rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "\x1b[") {
			t.Errorf("expected no ANSI escapes")
		}
	})

	t.Run("renders the budget empty state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rec := doRequest(setupAnalyticsRouter(emptyStore(ctrl)), "GET", "/reports/budget", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), reports.NoBudgetsMessage) {
			t.Errorf("expected empty state, got:\n%s", rec.Body.String())
		}
	})

	tests := []struct {
		name string
		path string
		code string
	}{
		{"unknown kind", "/reports/weekly", "INVALID_INPUT"},
		{"bad month", "/reports/monthly?month=14", "INVALID_INPUT"},
		{"bad year", "/reports/yearly?year=twenty", "INVALID_INPUT"},
		{"bad date", "/reports/category?category_id=x&from=May", "INVALID_DATE"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			rec := doRequest(setupAnalyticsRouter(emptyStore(ctrl)), "GET", tt.path, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, rec, tt.code)
		})
	}
}
