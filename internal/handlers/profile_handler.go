package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/models"
	"finsight/internal/services"
)

// ProfileHandler handles per-user financial settings.
type ProfileHandler struct {
	profileService services.ProfileServicer
	auditService   services.AuditServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer, auditService services.AuditServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, auditService: auditService}
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	MonthlyIncome *models.Amount `json:"monthlyIncome" binding:"omitempty,gte=0"`
	Currency      *string        `json:"currency" binding:"omitempty,iso4217"`
	Timezone      *string        `json:"timezone" binding:"omitempty,timezone"`
}

// GetProfile returns the user's profile or the defaults.
// @Summary     Get profile
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserProfile "Profile"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile updates the user's profile.
// @Summary     Update profile
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Fields to update"
// @Success     200 {object} models.UserProfile "Profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	upd := models.ProfileUpdate{Currency: req.Currency, Timezone: req.Timezone}
	changes := map[string]interface{}{}
	if req.MonthlyIncome != nil {
		income := req.MonthlyIncome.Float64()
		upd.MonthlyIncome = &income
		changes["monthlyIncome"] = income
	}
	if req.Currency != nil {
		changes["currency"] = *req.Currency
	}
	if req.Timezone != nil {
		changes["timezone"] = *req.Timezone
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PROFILE", "profile", userID, c.ClientIP(), changes)
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
