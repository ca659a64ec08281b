package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/models"
	"finsight/internal/services"
)

// AIHandler exposes categorization and budget recommendations.
type AIHandler struct {
	recommendationService services.RecommendationServicer
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(recommendationService services.RecommendationServicer) *AIHandler {
	return &AIHandler{recommendationService: recommendationService}
}

// CategorizeRequest describes an expense to categorize.
type CategorizeRequest struct {
	Description string         `json:"description" binding:"required,max=500"`
	Amount      *models.Amount `json:"amount" binding:"omitempty,gte=0"`
}

// Categorize suggests a category without storing anything.
// @Summary     Categorize an expense
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategorizeRequest true "Expense description"
// @Success     200 {object} services.CategorySuggestion "Suggestion"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /ai/categorize [post]
func (h *AIHandler) Categorize(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	var amount float64
	if req.Amount != nil {
		amount = req.Amount.Float64()
	}

	suggestion, err := h.recommendationService.Categorize(c.Request.Context(), req.Description, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// GetRecommendations suggests monthly budgets.
// @Summary     Get budget recommendations
// @Description Suggest monthly budgets from the last 30 days of spend and income
// @Tags        ai
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  ai.BudgetRecommendation "Recommendations"
// @Router      /ai/recommendations [get]
func (h *AIHandler) GetRecommendations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recs, err := h.recommendationService.RecommendBudgets(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
