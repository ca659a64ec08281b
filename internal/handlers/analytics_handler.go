package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/services"
)

// AnalyticsHandler serves spend summaries.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// StatsQuery is an optional inclusive date range.
type StatsQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,isodate"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate"`
}

// GetStats summarizes spend over a date range, the current month by default.
// @Summary     Get expense stats
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string false "Range start (YYYY-MM-DD)"
// @Param       endDate   query string false "Range end (YYYY-MM-DD)"
// @Success     200 {object} models.ExpenseStats "Stats"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /analytics/stats [get]
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	stats, err := h.analyticsService.GetStats(c.Request.Context(), userID, q.StartDate, q.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
