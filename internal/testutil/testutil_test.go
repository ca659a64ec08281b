package testutil_test

import (
	"testing"

	"finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	if err := db.Table("audit_logs").Count(&count).Error; err != nil {
		t.Errorf("table audit_logs should exist after migration: %v", err)
	}
}

func TestFixtures(t *testing.T) {
	store, provider := testutil.SetupTestStore()
	if provider.Current() != store {
		t.Fatal("provider should serve the test store")
	}

	user := testutil.CreateTestUser(t, store)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	food := testutil.FindCategory(t, store, "Food & Dining")
	expense := testutil.CreateTestExpense(t, store, user.ID, 250, "2024-03-15", &food.ID)
	if expense.CategoryID == nil || *expense.CategoryID != food.ID {
		t.Error("expense should reference the category")
	}

	budget := testutil.CreateTestBudget(t, store, user.ID, nil, 5000, models.BudgetPeriodMonthly, "2024-03-01", "2024-03-31")
	if budget.CategoryID != nil {
		t.Error("budget should apply to all categories")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrExpenseNotFound, "EXPENSE_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrInternalServer, nil), "INTERNAL_ERROR")
}
