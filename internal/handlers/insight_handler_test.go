package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/services"
)

// --- mock insight service ---

type mockInsightService struct {
	getInsightsFn func(userID string, limit int) ([]models.Insight, error)
	markReadFn    func(userID, id string) (*models.Insight, error)
	generateFn    func(userID string) ([]models.Insight, error)
}

func (m *mockInsightService) GetInsights(_ context.Context, userID string, limit int) ([]models.Insight, error) {
	if m.getInsightsFn != nil {
		return m.getInsightsFn(userID, limit)
	}
	return []models.Insight{}, nil
}

func (m *mockInsightService) MarkRead(_ context.Context, userID, id string) (*models.Insight, error) {
	if m.markReadFn != nil {
		return m.markReadFn(userID, id)
	}
	return &models.Insight{ID: id, UserID: userID, IsRead: true}, nil
}

func (m *mockInsightService) Generate(_ context.Context, userID string) ([]models.Insight, error) {
	if m.generateFn != nil {
		return m.generateFn(userID)
	}
	return []models.Insight{{ID: "i-1"}, {ID: "i-2"}, {ID: "i-3"}}, nil
}

var _ services.InsightServicer = (*mockInsightService)(nil)

func setupInsightRouter(handler *InsightHandler) *gin.Engine {
	r := gin.New()
	r.Use(injectUserID("user-1"))
	r.GET("/insights", handler.GetInsights)
	r.POST("/insights/generate", handler.GenerateInsights)
	r.PUT("/insights/:id/read", handler.MarkInsightRead)
	return r
}

// --- tests ---

func TestInsightHandler_GetInsights(t *testing.T) {
	t.Run("passes limit", func(t *testing.T) {
		var gotLimit int
		svc := &mockInsightService{
			getInsightsFn: func(_ string, limit int) ([]models.Insight, error) {
				gotLimit = limit
				return []models.Insight{{ID: "i-1", Type: models.InsightAlert}}, nil
			},
		}
		handler := NewInsightHandler(svc, &mockAuditService{})
		r := setupInsightRouter(handler)

		rec := doRequest(r, "GET", "/insights?limit=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotLimit != 5 {
			t.Errorf("expected limit 5, got %d", gotLimit)
		}
		if len(parseJSON(t, rec)["insights"].([]interface{})) != 1 {
			t.Error("expected one insight")
		}
	})

	t.Run("rejects out of range limit", func(t *testing.T) {
		handler := NewInsightHandler(&mockInsightService{}, &mockAuditService{})
		r := setupInsightRouter(handler)

		rec := doRequest(r, "GET", "/insights?limit=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertDetailField(t, parseJSON(t, rec), "limit")
	})
}

func TestInsightHandler_GenerateInsights(t *testing.T) {
	audit := &mockAuditService{}
	handler := NewInsightHandler(&mockInsightService{}, audit)
	r := setupInsightRouter(handler)

	rec := doRequest(r, "POST", "/insights/generate", "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(parseJSON(t, rec)["insights"].([]interface{})) != 3 {
		t.Error("expected three insights")
	}
	if len(audit.actions) != 1 || audit.actions[0] != "GENERATE_INSIGHTS" {
		t.Errorf("expected GENERATE_INSIGHTS audit entry, got %v", audit.actions)
	}
}

func TestInsightHandler_MarkInsightRead(t *testing.T) {
	t.Run("returns the updated insight", func(t *testing.T) {
		handler := NewInsightHandler(&mockInsightService{}, &mockAuditService{})
		r := setupInsightRouter(handler)

		rec := doRequest(r, "PUT", "/insights/i-1/read", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		insight := parseJSON(t, rec)["insight"].(map[string]interface{})
		if insight["isRead"] != true {
			t.Errorf("expected isRead true, got %v", insight["isRead"])
		}
	})

	t.Run("returns 404 for another user's insight", func(t *testing.T) {
		svc := &mockInsightService{
			markReadFn: func(string, string) (*models.Insight, error) {
				return nil, apperrors.ErrInsightNotFound
			},
		}
		handler := NewInsightHandler(svc, &mockAuditService{})
		r := setupInsightRouter(handler)

		rec := doRequest(r, "PUT", "/insights/i-9/read", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSIGHT_NOT_FOUND")
	})
}
