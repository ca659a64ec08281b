package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"finsight/internal/storage"
)

type staticStatus storage.Status

func (s staticStatus) Status() storage.Status { return storage.Status(s) }

func TestHealthHandler_Health(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewHealthHandler(staticStatus{Backend: "memory", State: storage.StateConnecting}).Health)

	rec := doRequest(r, "GET", "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["status"] != "ok" {
		t.Errorf("expected status ok, got %v", result["status"])
	}
	store := result["storage"].(map[string]interface{})
	if store["backend"] != "memory" || store["state"] != "connecting" {
		t.Errorf("unexpected storage status: %v", store)
	}
}
