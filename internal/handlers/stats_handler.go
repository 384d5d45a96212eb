package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendwise/internal/export"
	"spendwise/internal/services"
)

// StatsHandler serves store statistics and data exports.
type StatsHandler struct {
	statsService services.StatsServicer
	exporter     *export.Exporter
	now          func() time.Time
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer, exporter *export.Exporter) *StatsHandler {
	return &StatsHandler{statsService: statsService, exporter: exporter, now: time.Now}
}

// GetStats returns database statistics
// @Summary     Database statistics
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Stats
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Export downloads expenses as CSV or JSON
// @Summary     Export expenses
// @Tags        stats
// @Produce     text/csv
// @Produce     json
// @Security    BearerAuth
// @Param       format query string false "csv (default) or json"
// @Param       from   query string false "Start date (YYYY-MM-DD)"
// @Param       to     query string false "End date (YYYY-MM-DD)"
// @Success     200 {file} file
// @Failure     400 {object} ErrorResponse "Invalid format or dates"
// @Router      /export [get]
func (h *StatsHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
	if err != nil {
		respondWithError(c, err)
		return
	}
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

	var buf bytes.Buffer
	if _, err := h.exporter.Export(c.Request.Context(), &buf, format, from, to); err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.DefaultFilename(format, h.now())+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
