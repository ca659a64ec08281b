package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finsight/internal/errors"
	"finsight/internal/logger"
	"finsight/internal/middleware"
)

// WSServer upgrades a request into a notification stream for one user.
type WSServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

// WSHandler authenticates WebSocket handshakes. Browsers cannot set headers on
// a WebSocket request, so the access token travels in the token query parameter.
type WSHandler struct {
	hub WSServer
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub WSServer) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect opens the notification stream.
// @Summary     Notification stream
// @Description Upgrade to a WebSocket delivering expense, analytics and insight updates
// @Tags        ws
// @Param       token query string true "Access token"
// @Success     101 "Switching protocols"
// @Failure     401 {object} ErrorResponse "Invalid token"
// @Router      /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "token query parameter is required"))
		return
	}

	claims, err := middleware.ParseAccessToken(token)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidToken)
		return
	}

	// On failure the upgrader has already written the HTTP error.
	if err := h.hub.ServeWS(c.Writer, c.Request, claims.UserID); err != nil {
		logger.Get().Debugw("websocket upgrade failed", "user_id", claims.UserID, "error", err)
	}
}
