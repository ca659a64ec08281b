package services

import (
	"context"
	"math"
	"testing"

	"finsight/internal/ai"
	"finsight/internal/models"
	"finsight/internal/notify"
	"finsight/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("categorizes_when_category_omitted", func(t *testing.T) {
		store, provider := testutil.SetupTestStore()
		notifier := &recordingNotifier{}
		svc := NewExpenseService(provider, fallbackAI(t), notifier)
		user := testutil.CreateTestUser(t, store)

		amount, err := models.ParseAmount("250.50")
		testutil.AssertNoError(t, err)

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Amount:        amount,
			Description:   "Uber ride",
			Date:          "2024-03-15",
			PaymentMethod: models.PaymentUPI,
		})
		testutil.AssertNoError(t, err)

		if expense.CategoryID == nil {
			t.Fatal("expected a category to be assigned")
		}
		if expense.CategoryName != "Transportation" {
			t.Errorf("expected Transportation, got %s", expense.CategoryName)
		}
		if expense.Amount != 250.5 {
			t.Errorf("expected amount 250.5, got %v", expense.Amount)
		}

		stored, err := store.GetExpense(ctx, user.ID, expense.ID)
		testutil.AssertNoError(t, err)
		if stored.CategoryID == nil || *stored.CategoryID != *expense.CategoryID {
			t.Error("stored expense should carry the assigned category")
		}

		types := notifier.types()
		if len(types) != 2 || types[0] != notify.TypeExpenseUpdate || types[1] != notify.TypeAnalyticsUpdate {
			t.Errorf("expected expense and analytics updates, got %v", types)
		}
	})

	t.Run("unknown_suggestion_uses_keyword_rules", func(t *testing.T) {
		store, provider := testutil.SetupTestStore()
		svc := NewExpenseService(provider, &stubAI{category: ai.Categorization{Category: "Travel", Confidence: 0.9}}, nil)
		user := testutil.CreateTestUser(t, store)

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Amount:        250.5,
			Description:   "Uber ride",
			Date:          "2024-03-15",
			PaymentMethod: models.PaymentUPI,
		})
		testutil.AssertNoError(t, err)

		transport := testutil.FindCategory(t, store, "Transportation")
		if expense.CategoryID == nil || *expense.CategoryID != transport.ID {
			t.Fatalf("expected Transportation id %s, got %v", transport.ID, expense.CategoryID)
		}
		if expense.CategoryName != "Transportation" {
			t.Errorf("expected Transportation, got %s", expense.CategoryName)
		}
	})

	t.Run("unmatched_suggestion_is_uncategorized", func(t *testing.T) {
		store, provider := testutil.SetupTestStore()
		svc := NewExpenseService(provider, fallbackAI(t), nil)
		user := testutil.CreateTestUser(t, store)

		// Only custom categories: the fallback answer "Other" is removed first.
		other := testutil.FindCategory(t, store, "Other")
		testutil.AssertNoError(t, store.DeleteCategory(ctx, other.ID))

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Amount:        10,
			Description:   "zzz",
			Date:          "2024-03-15",
			PaymentMethod: models.PaymentCash,
		})
		testutil.AssertNoError(t, err)
		if expense.CategoryID != nil {
			t.Errorf("expected no category, got %v", *expense.CategoryID)
		}
		if expense.CategoryName != models.UncategorizedName {
			t.Errorf("expected %s, got %s", models.UncategorizedName, expense.CategoryName)
		}
	})

	t.Run("explicit_category", func(t *testing.T) {
		store, provider := testutil.SetupTestStore()
		svc := NewExpenseService(provider, fallbackAI(t), nil)
		user := testutil.CreateTestUser(t, store)
		food := testutil.FindCategory(t, store, "Food & Dining")

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			CategoryID:    &food.ID,
			Amount:        99,
			Description:   "Uber eats",
			Date:          "2024-03-15",
			PaymentMethod: models.PaymentCreditCard,
		})
		testutil.AssertNoError(t, err)
		if expense.CategoryName != "Food & Dining" {
			t.Errorf("explicit category should win, got %s", expense.CategoryName)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		store, provider := testutil.SetupTestStore()
		svc := NewExpenseService(provider, fallbackAI(t), nil)
		user := testutil.CreateTestUser(t, store)

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			CategoryID:    strPtr("missing"),
			Amount:        10,
			Description:   "Lunch",
			Date:          "2024-03-15",
			PaymentMethod: models.PaymentCash,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("validation", func(t *testing.T) {
		_, provider := testutil.SetupTestStore()
		svc := NewExpenseService(provider, fallbackAI(t), nil)

		cases := map[string]ExpenseInput{
			"negative_amount": {Amount: -1, Description: "x", Date: "2024-03-15", PaymentMethod: models.PaymentCash},
			"infinite_amount": {Amount: math.Inf(1), Description: "x", Date: "2024-03-15", PaymentMethod: models.PaymentCash},
			"huge_amount":     {Amount: models.MaxAmount * 2, Description: "x", Date: "2024-03-15", PaymentMethod: models.PaymentCash},
			"no_description":  {Amount: 1, Description: " ", Date: "2024-03-15", PaymentMethod: models.PaymentCash},
			"bad_date":        {Amount: 1, Description: "x", Date: "15/03/2024", PaymentMethod: models.PaymentCash},
			"bad_method":      {Amount: 1, Description: "x", Date: "2024-03-15", PaymentMethod: "cheque"},
		}
		for name, in := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.CreateExpense(ctx, "user", in)
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}
	})
}

func TestGetExpenses(t *testing.T) {
	ctx := context.Background()
	store, provider := testutil.SetupTestStore()
	svc := NewExpenseService(provider, fallbackAI(t), nil)
	user := testutil.CreateTestUser(t, store)
	other := testutil.CreateTestUser(t, store)

	testutil.CreateTestExpense(t, store, user.ID, 10, "2024-02-28", nil)
	testutil.CreateTestExpense(t, store, user.ID, 20, "2024-03-01", nil)
	testutil.CreateTestExpense(t, store, user.ID, 30, "2024-03-31", nil)
	testutil.CreateTestExpense(t, store, other.ID, 40, "2024-03-15", nil)

	t.Run("all", func(t *testing.T) {
		expenses, err := svc.GetExpenses(ctx, user.ID, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if len(expenses) != 3 {
			t.Fatalf("expected 3 expenses, got %d", len(expenses))
		}
		if expenses[0].Date != "2024-03-31" {
			t.Errorf("expected newest first, got %s", expenses[0].Date)
		}
	})

	t.Run("limit", func(t *testing.T) {
		expenses, err := svc.GetExpenses(ctx, user.ID, ExpenseFilter{Limit: 2})
		testutil.AssertNoError(t, err)
		if len(expenses) != 2 {
			t.Errorf("expected 2 expenses, got %d", len(expenses))
		}
	})

	t.Run("date_range", func(t *testing.T) {
		expenses, err := svc.GetExpenses(ctx, user.ID, ExpenseFilter{StartDate: "2024-03-01", EndDate: "2024-03-31"})
		testutil.AssertNoError(t, err)
		if len(expenses) != 2 {
			t.Errorf("expected 2 expenses in March, got %d", len(expenses))
		}
	})

	t.Run("half_open_range", func(t *testing.T) {
		_, err := svc.GetExpenses(ctx, user.ID, ExpenseFilter{StartDate: "2024-03-01"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("reversed_range", func(t *testing.T) {
		_, err := svc.GetExpenses(ctx, user.ID, ExpenseFilter{StartDate: "2024-04-01", EndDate: "2024-03-01"})
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()
	store, provider := testutil.SetupTestStore()
	notifier := &recordingNotifier{}
	svc := NewExpenseService(provider, fallbackAI(t), notifier)
	user := testutil.CreateTestUser(t, store)
	food := testutil.FindCategory(t, store, "Food & Dining")
	expense := testutil.CreateTestExpense(t, store, user.ID, 100, "2024-03-10", &food.ID)

	t.Run("partial", func(t *testing.T) {
		updated, err := svc.UpdateExpense(ctx, user.ID, expense.ID, models.ExpenseUpdate{Amount: floatPtr(150)})
		testutil.AssertNoError(t, err)
		if updated.Amount != 150 {
			t.Errorf("expected amount 150, got %v", updated.Amount)
		}
		if updated.CategoryName != "Food & Dining" {
			t.Errorf("category should be unchanged, got %s", updated.CategoryName)
		}
	})

	t.Run("clear_category", func(t *testing.T) {
		updated, err := svc.UpdateExpense(ctx, user.ID, expense.ID, models.ExpenseUpdate{CategoryID: strPtr("")})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil || updated.CategoryName != models.UncategorizedName {
			t.Errorf("expected category to be cleared, got %+v", updated)
		}
	})

	t.Run("other_users_expense", func(t *testing.T) {
		intruder := testutil.CreateTestUser(t, store)
		_, err := svc.UpdateExpense(ctx, intruder.ID, expense.ID, models.ExpenseUpdate{Amount: floatPtr(1)})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("invalid_date", func(t *testing.T) {
		_, err := svc.UpdateExpense(ctx, user.ID, expense.ID, models.ExpenseUpdate{Date: strPtr("2024-13-01")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	store, provider := testutil.SetupTestStore()
	notifier := &recordingNotifier{}
	svc := NewExpenseService(provider, fallbackAI(t), notifier)
	user := testutil.CreateTestUser(t, store)
	expense := testutil.CreateTestExpense(t, store, user.ID, 100, "2024-03-10", nil)

	testutil.AssertNoError(t, svc.DeleteExpense(ctx, user.ID, expense.ID))
	if len(notifier.types()) != 2 {
		t.Errorf("expected two notifications, got %v", notifier.types())
	}

	_, err := svc.GetExpense(ctx, user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	err = svc.DeleteExpense(ctx, user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}
