package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/services"
)

// InsightHandler handles AI insight requests.
type InsightHandler struct {
	insightService services.InsightServicer
	auditService   services.AuditServicer
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer, auditService services.AuditServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService, auditService: auditService}
}

// InsightQuery bounds an insight listing.
type InsightQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetInsights lists the user's insights newest first.
// @Summary     Get insights
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum number of insights"
// @Success     200 {array}  models.Insight "Insights"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /insights [get]
func (h *InsightHandler) GetInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q InsightQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	insights, err := h.insightService.GetInsights(c.Request.Context(), userID, q.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

// GenerateInsights replaces the user's insights with a fresh set of three.
// @Summary     Generate insights
// @Description Analyse this month against last month and active budgets
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Success     201 {array}  models.Insight "Generated insights"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights/generate [post]
func (h *InsightHandler) GenerateInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.insightService.Generate(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_INSIGHTS", "insight", "", c.ClientIP(),
		map[string]interface{}{"count": len(insights)})
	c.JSON(http.StatusCreated, gin.H{"insights": insights})
}

// MarkInsightRead flags an insight as read.
// @Summary     Mark insight read
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Insight ID"
// @Success     200 {object} models.Insight "Insight"
// @Failure     404 {object} ErrorResponse "Insight not found"
// @Router      /insights/{id}/read [put]
func (h *InsightHandler) MarkInsightRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insight, err := h.insightService.MarkRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": insight})
}
