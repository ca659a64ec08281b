package services

import (
	"testing"
	"time"

	"finsight/internal/models"
	"finsight/internal/pagination"
	"finsight/internal/testutil"
)

func TestAuditService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	_, provider := testutil.SetupTestStore()
	svc := NewAuditService(db, provider)

	svc.Log("user-1", "CREATE", "expense", "exp-1", "127.0.0.1", map[string]any{"amount": 250.5})
	time.Sleep(2 * time.Millisecond)
	svc.Log("user-1", "DELETE", "expense", "exp-1", "127.0.0.1", nil)
	svc.Log("user-2", "CREATE", "budget", "bud-1", "127.0.0.1", nil)

	page, err := svc.List("user-1", pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 || len(page.Data) != 2 {
		t.Fatalf("expected 2 entries for user-1, got %d", page.TotalItems)
	}
	if page.Data[0].Action != "DELETE" {
		t.Errorf("expected newest entry first, got %s", page.Data[0].Action)
	}
	if page.Data[1].Changes != `{"amount":250.5}` {
		t.Errorf("unexpected changes JSON: %s", page.Data[1].Changes)
	}
	if page.Data[0].Backend != "memory" {
		t.Errorf("expected backend to be recorded, got %q", page.Data[0].Backend)
	}

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	if count != 3 {
		t.Errorf("expected 3 audit rows, got %d", count)
	}
}

func TestAuditService_LogNeverFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAuditService(db, nil)
	testutil.TeardownTestDB(t, db)

	// The database is closed; Log must swallow the error.
	svc.Log("user-1", "CREATE", "expense", "exp-1", "", nil)
}
