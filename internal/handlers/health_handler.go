package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/storage"
)

// StorageStatus reports which backend is serving requests.
type StorageStatus interface {
	Status() storage.Status
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	storage StorageStatus
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storage StorageStatus) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Health reports liveness and the active storage backend. The service is
// healthy on either backend.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Status"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": h.storage.Status(),
	})
}
