package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func pipelineRouter(apiKey string) *gin.Engine {
	r := gin.New()
	r.Use(PipelineAuthMiddleware(apiKey))
	r.POST("/pipeline/expenses", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"created": 1})
	})
	return r
}

func TestPipelineAuthMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		configuredKey string
		requestKey    string
		wantStatus    int
		wantErrorCode string
	}{
		{"valid_key", "ingest-key", "ingest-key", http.StatusCreated, ""},
		{"wrong_key", "ingest-key", "other", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"missing_key", "ingest-key", "", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"prefix_rejected", "ingest-key", "ingest", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"not_configured", "", "ingest-key", http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
		{"nothing_set", "", "", http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/pipeline/expenses", http.NoBody)
			if tt.requestKey != "" {
				req.Header.Set("X-API-Key", tt.requestKey)
			}
			rec := httptest.NewRecorder()
			pipelineRouter(tt.configuredKey).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantErrorCode != "" {
				if code := errorCode(t, rec); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
			}
		})
	}
}
