package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"finsight/internal/middleware"
	"finsight/internal/models"
	"finsight/internal/notify"
)

func TestWSHandler_Connect(t *testing.T) {
	hub := notify.NewHub("*")
	t.Cleanup(hub.Close)

	r := gin.New()
	r.GET("/ws", NewWSHandler(hub).Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	t.Run("rejects missing token", func(t *testing.T) {
		rec := doRequest(r, "GET", "/ws", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		rec := doRequest(r, "GET", "/ws?token=garbage", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TOKEN")
	})

	t.Run("streams events for the token's user", func(t *testing.T) {
		token, err := middleware.GenerateAccessToken(&models.User{ID: "user-1", Username: "alice"})
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		ws, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
		if err != nil {
			t.Fatalf("dial failed: %v", err)
		}
		defer ws.Close()

		var msg notify.Message
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if msg.Type != notify.TypeConnection {
			t.Fatalf("expected connection frame, got %q", msg.Type)
		}

		hub.Publish("user-2", notify.TypeExpenseUpdate, map[string]string{"action": "created"})
		hub.Publish("user-1", notify.TypeAnalyticsUpdate, nil)

		var raw json.RawMessage
		if err := ws.ReadJSON(&raw); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if msg.Type != notify.TypeAnalyticsUpdate {
			t.Errorf("expected only user-1's event, got %q", msg.Type)
		}
	})
}
