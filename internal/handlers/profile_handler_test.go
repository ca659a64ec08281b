package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"finsight/internal/models"
	"finsight/internal/services"
)

type mockProfileService struct {
	getProfileFn    func(userID string) (*models.UserProfile, error)
	updateProfileFn func(userID string, upd models.ProfileUpdate) (*models.UserProfile, error)
}

func (m *mockProfileService) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(userID)
	}
	p := models.DefaultProfile(userID)
	return &p, nil
}

func (m *mockProfileService) UpdateProfile(_ context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, upd)
	}
	p := models.DefaultProfile(userID)
	upd.ApplyTo(&p)
	return &p, nil
}

var _ services.ProfileServicer = (*mockProfileService)(nil)

func setupProfileRouter(handler *ProfileHandler) *gin.Engine {
	r := gin.New()
	r.Use(injectUserID("user-1"))
	r.GET("/profile", handler.GetProfile)
	r.PUT("/profile", handler.UpdateProfile)
	return r
}

func TestProfileHandler_GetProfile(t *testing.T) {
	r := setupProfileRouter(NewProfileHandler(&mockProfileService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/profile", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	profile := parseJSON(t, rec)["profile"].(map[string]interface{})
	if profile["currency"] != models.DefaultCurrency {
		t.Errorf("expected default currency, got %v", profile["currency"])
	}
	if profile["monthlyIncome"] != float64(models.DefaultMonthlyIncome) {
		t.Errorf("expected default income, got %v", profile["monthlyIncome"])
	}
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	t.Run("updates provided fields", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupProfileRouter(NewProfileHandler(&mockProfileService{}, audit))

		rec := doRequest(r, "PUT", "/profile", `{"monthlyIncome":"80000","currency":"USD"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		profile := parseJSON(t, rec)["profile"].(map[string]interface{})
		if profile["monthlyIncome"] != float64(80000) || profile["currency"] != "USD" {
			t.Errorf("unexpected profile: %v", profile)
		}
		if profile["timezone"] != models.DefaultTimezone {
			t.Errorf("expected timezone untouched, got %v", profile["timezone"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "UPDATE_PROFILE" {
			t.Errorf("expected UPDATE_PROFILE audit entry, got %v", audit.actions)
		}
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		r := setupProfileRouter(NewProfileHandler(&mockProfileService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/profile", `{"timezone":"Mars/Olympus"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertDetailField(t, parseJSON(t, rec), "timezone")
	})

	t.Run("rejects negative income", func(t *testing.T) {
		r := setupProfileRouter(NewProfileHandler(&mockProfileService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/profile", `{"monthlyIncome":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
