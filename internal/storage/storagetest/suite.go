// Package storagetest is a behavioral suite every storage backend must pass.
// Backends call Run from their own tests with a factory for fresh instances.
package storagetest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/models"
	"finsight/internal/storage"
)

// MissingID is well formed for every backend but never assigned.
const MissingID = "000000000000000000000000"

// Factory returns an empty backend seeded with the default categories.
type Factory func(t *testing.T) storage.Storage

// Run executes the suite against backends produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"Users", testUsers},
		{"DefaultCategories", testDefaultCategories},
		{"CategoryCRUD", testCategoryCRUD},
		{"ExpenseWithoutCategoryIsUncategorized", testExpenseWithoutCategory},
		{"ExpenseCRUD", testExpenseCRUD},
		{"ExpenseOrderingAndLimit", testExpenseOrderingAndLimit},
		{"ExpenseDateRange", testExpenseDateRange},
		{"UserIsolation", testUserIsolation},
		{"MissingIDs", testMissingIDs},
		{"DeletedCategoryDegrades", testDeletedCategoryDegrades},
		{"Budgets", testBudgets},
		{"Insights", testInsights},
		{"Profiles", testProfiles},
		{"StatsRange", testStatsRange},
		{"StatsEmpty", testStatsEmpty},
		{"StatsUncategorizedMerge", testStatsUncategorizedMerge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func createUser(t *testing.T, s storage.Storage, username string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "hash",
	})
	require.NoError(t, err)
	return u
}

func categoryByName(t *testing.T, s storage.Storage, name string) models.Category {
	t.Helper()
	cats, err := s.GetCategories(context.Background())
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("category %q not found", name)
	return models.Category{}
}

func createExpense(t *testing.T, s storage.Storage, userID string, amount float64, date string, categoryID *string) *models.Expense {
	t.Helper()
	e, err := s.CreateExpense(context.Background(), models.Expense{
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        amount,
		Description:   fmt.Sprintf("expense %.2f", amount),
		Date:          date,
		PaymentMethod: models.PaymentUPI,
	})
	require.NoError(t, err)
	return e
}

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err := s.CreateUser(ctx, models.User{Username: "alice"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	updated, err := s.UpdateUser(ctx, u.ID, models.UserUpdate{FirstName: ptr("Alicia"), RefreshTokenHash: ptr("abc")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "User", updated.LastName)
	assert.Equal(t, "abc", updated.RefreshTokenHash)

	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDefaultCategories(t *testing.T, s storage.Storage) {
	cats, err := s.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, len(storage.DefaultCategories()))
	categoryByName(t, s, "Transportation")
}

func testCategoryCRUD(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	c, err := s.CreateCategory(ctx, models.Category{Name: "Pets", Color: "#123456", Icon: "🐶"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	lower, err := s.CreateCategory(ctx, models.Category{Name: "aquarium", Color: "#654321", Icon: "🐟"})
	require.NoError(t, err)
	cats, err := s.GetCategories(ctx)
	require.NoError(t, err)
	for i := 1; i < len(cats); i++ {
		assert.LessOrEqual(t, strings.ToLower(cats[i-1].Name), strings.ToLower(cats[i].Name),
			"categories should be sorted by name ignoring case")
	}
	require.NoError(t, s.DeleteCategory(ctx, lower.ID))

	updated, err := s.UpdateCategory(ctx, c.ID, models.CategoryUpdate{Color: ptr("#abcdef")})
	require.NoError(t, err)
	assert.Equal(t, "Pets", updated.Name)
	assert.Equal(t, "#abcdef", updated.Color)

	require.NoError(t, s.DeleteCategory(ctx, c.ID))
	_, err = s.GetCategory(ctx, c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testExpenseWithoutCategory(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	e := createExpense(t, s, u.ID, 250.50, "2024-03-15", nil)
	assert.Nil(t, e.CategoryID)

	got, err := s.GetExpense(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Equal(t, models.UncategorizedName, got.CategoryName)
	assert.InDelta(t, 250.50, got.Amount, 1e-9)
}

func testExpenseCRUD(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	food := categoryByName(t, s, "Food & Dining")
	e := createExpense(t, s, u.ID, 100, "2024-03-01", &food.ID)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := s.GetExpense(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food & Dining", got.CategoryName)
	require.NotNil(t, got.Category)
	assert.Equal(t, food.ID, got.Category.ID)

	updated, err := s.UpdateExpense(ctx, u.ID, e.ID, models.ExpenseUpdate{Amount: ptr(120.0), Description: ptr("lunch")})
	require.NoError(t, err)
	assert.InDelta(t, 120, updated.Amount, 1e-9)
	assert.Equal(t, "lunch", updated.Description)
	assert.Equal(t, "2024-03-01", updated.Date)
	require.NotNil(t, updated.CategoryID)

	cleared, err := s.UpdateExpense(ctx, u.ID, e.ID, models.ExpenseUpdate{CategoryID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.CategoryID)

	require.NoError(t, s.DeleteExpense(ctx, u.ID, e.ID))
	_, err = s.GetExpense(ctx, u.ID, e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testExpenseOrderingAndLimit(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	createExpense(t, s, u.ID, 1, "2024-03-01", nil)
	createExpense(t, s, u.ID, 3, "2024-03-03", nil)
	createExpense(t, s, u.ID, 2, "2024-03-02", nil)

	all, err := s.GetExpenses(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-03", all[0].Date)
	assert.Equal(t, "2024-03-01", all[2].Date)

	limited, err := s.GetExpenses(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func testExpenseDateRange(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	createExpense(t, s, u.ID, 1, "2024-02-29", nil)
	createExpense(t, s, u.ID, 2, "2024-03-01", nil)
	createExpense(t, s, u.ID, 3, "2024-03-31", nil)
	createExpense(t, s, u.ID, 4, "2024-04-01", nil)

	got, err := s.GetExpensesByDateRange(ctx, u.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.True(t, e.Date >= "2024-03-01" && e.Date <= "2024-03-31", e.Date)
	}
}

func testUserIsolation(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	e := createExpense(t, s, alice.ID, 10, "2024-03-01", nil)
	b, err := s.CreateBudget(ctx, models.Budget{
		UserID: alice.ID, Amount: 100, Period: models.BudgetPeriodMonthly,
		StartDate: "2024-03-01", EndDate: "2024-03-31",
	})
	require.NoError(t, err)
	in, err := s.CreateInsight(ctx, models.Insight{UserID: alice.ID, Type: models.InsightGoal, Title: "t", Priority: models.PriorityLow})
	require.NoError(t, err)

	expenses, err := s.GetExpenses(ctx, bob.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, expenses)

	_, err = s.GetExpense(ctx, bob.ID, e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.UpdateExpense(ctx, bob.ID, e.ID, models.ExpenseUpdate{Amount: ptr(1.0)})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteExpense(ctx, bob.ID, e.ID), storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBudget(ctx, bob.ID, b.ID), storage.ErrNotFound)
	_, err = s.MarkInsightRead(ctx, bob.ID, in.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.ClearInsights(ctx, bob.ID))
	insights, err := s.GetInsights(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, insights, 1)

	stats, err := s.GetExpenseStats(ctx, bob.ID, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSpent)
}

func testMissingIDs(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")

	for _, id := range []string{MissingID, "not-an-id"} {
		_, err := s.GetUser(ctx, id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.UpdateUser(ctx, id, models.UserUpdate{FirstName: ptr("x")})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.UpdateCategory(ctx, id, models.CategoryUpdate{Name: ptr("x")})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.DeleteCategory(ctx, id), storage.ErrNotFound)
		_, err = s.UpdateExpense(ctx, u.ID, id, models.ExpenseUpdate{Amount: ptr(1.0)})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.DeleteExpense(ctx, u.ID, id), storage.ErrNotFound)
		_, err = s.UpdateBudget(ctx, u.ID, id, models.BudgetUpdate{Amount: ptr(1.0)})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.DeleteBudget(ctx, u.ID, id), storage.ErrNotFound)
		_, err = s.MarkInsightRead(ctx, u.ID, id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
}

func testDeletedCategoryDegrades(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	c, err := s.CreateCategory(ctx, models.Category{Name: "Temp", Color: "#111111"})
	require.NoError(t, err)
	e := createExpense(t, s, u.ID, 40, "2024-03-10", &c.ID)
	_, err = s.CreateBudget(ctx, models.Budget{
		UserID: u.ID, CategoryID: &c.ID, Amount: 100, Period: models.BudgetPeriodMonthly,
		StartDate: "2024-03-01", EndDate: "2024-03-31",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, c.ID))

	got, err := s.GetExpense(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UncategorizedName, got.CategoryName)
	assert.Nil(t, got.Category)

	list, err := s.GetExpenses(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.UncategorizedName, list[0].CategoryName)

	budgets, err := s.GetBudgets(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, models.UncategorizedName, budgets[0].CategoryName)

	stats, err := s.GetExpenseStats(ctx, u.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, stats.CategoryBreakdown, 1)
	assert.Equal(t, models.UncategorizedName, stats.CategoryBreakdown[0].CategoryName)
	assert.Equal(t, models.UncategorizedColor, stats.CategoryBreakdown[0].Color)
}

func testBudgets(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	food := categoryByName(t, s, "Food & Dining")

	all, err := s.CreateBudget(ctx, models.Budget{
		UserID: u.ID, Amount: 5000, Period: models.BudgetPeriodMonthly,
		StartDate: "2024-03-01", EndDate: "2024-03-31",
	})
	require.NoError(t, err)
	_, err = s.CreateBudget(ctx, models.Budget{
		UserID: u.ID, CategoryID: &food.ID, Amount: 500, Period: models.BudgetPeriodWeekly,
		StartDate: "2024-03-11", EndDate: "2024-03-17",
	})
	require.NoError(t, err)

	budgets, err := s.GetBudgets(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	names := []string{budgets[0].CategoryName, budgets[1].CategoryName}
	assert.ElementsMatch(t, []string{models.AllCategoriesName, "Food & Dining"}, names)

	active, err := s.GetActiveBudgets(ctx, u.ID, models.BudgetPeriodMonthly, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, all.ID, active[0].ID)

	active, err = s.GetActiveBudgets(ctx, u.ID, models.BudgetPeriodMonthly, "2024-04-01")
	require.NoError(t, err)
	assert.Empty(t, active)

	active, err = s.GetActiveBudgets(ctx, u.ID, models.BudgetPeriodWeekly, "2024-03-17")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	got, err := s.GetBudget(ctx, u.ID, all.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got.StartDate)
	assert.Nil(t, got.CategoryID)

	other := createUser(t, s, "bob")
	_, err = s.GetBudget(ctx, other.ID, all.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetBudget(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	updated, err := s.UpdateBudget(ctx, u.ID, all.ID, models.BudgetUpdate{Amount: ptr(6000.0), CategoryID: &food.ID})
	require.NoError(t, err)
	assert.InDelta(t, 6000, updated.Amount, 1e-9)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, food.ID, *updated.CategoryID)

	require.NoError(t, s.DeleteBudget(ctx, u.ID, all.ID))
	budgets, err = s.GetBudgets(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, budgets, 1)
}

func testInsights(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	var last *models.Insight
	for i := 0; i < 3; i++ {
		in, err := s.CreateInsight(ctx, models.Insight{
			UserID: u.ID, Type: models.InsightRecommendation,
			Title: fmt.Sprintf("insight %d", i), Description: "d", Priority: models.PriorityMedium,
		})
		require.NoError(t, err)
		assert.False(t, in.IsRead)
		last = in
	}

	limited, err := s.GetInsights(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	read, err := s.MarkInsightRead(ctx, u.ID, last.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	require.NoError(t, s.ClearInsights(ctx, u.ID))
	all, err := s.GetInsights(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testProfiles(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")

	p, err := s.GetUserProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProfile(u.ID), *p)

	p, err = s.UpsertUserProfile(ctx, u.ID, models.ProfileUpdate{MonthlyIncome: ptr(80000.0)})
	require.NoError(t, err)
	assert.InDelta(t, 80000, p.MonthlyIncome, 1e-9)
	assert.Equal(t, models.DefaultCurrency, p.Currency)

	p, err = s.UpsertUserProfile(ctx, u.ID, models.ProfileUpdate{Currency: ptr("USD")})
	require.NoError(t, err)
	assert.InDelta(t, 80000, p.MonthlyIncome, 1e-9)
	assert.Equal(t, "USD", p.Currency)

	p, err = s.GetUserProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, models.DefaultTimezone, p.Timezone)
}

func testStatsRange(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	other := createUser(t, s, "bob")
	food := categoryByName(t, s, "Food & Dining")
	travel := categoryByName(t, s, "Transportation")

	inRange := []struct {
		amount float64
		date   string
		cat    *string
	}{
		{100.25, "2024-03-01", &food.ID},
		{49.75, "2024-03-01", &travel.ID},
		{300, "2024-03-15", &travel.ID},
		{10.10, "2024-03-31", nil},
	}
	var want float64
	for _, e := range inRange {
		createExpense(t, s, u.ID, e.amount, e.date, e.cat)
		want += e.amount
	}
	createExpense(t, s, u.ID, 1000, "2024-02-29", &food.ID)
	createExpense(t, s, u.ID, 1000, "2024-04-01", &food.ID)
	createExpense(t, s, other.ID, 1000, "2024-03-10", &food.ID)

	stats, err := s.GetExpenseStats(ctx, u.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)

	assert.InDelta(t, want, stats.TotalSpent, 1e-6)

	var breakdown float64
	for i, c := range stats.CategoryBreakdown {
		breakdown += c.Amount
		if i > 0 {
			assert.GreaterOrEqual(t, stats.CategoryBreakdown[i-1].Amount, c.Amount)
		}
	}
	assert.InDelta(t, stats.TotalSpent, breakdown, 1e-6)
	require.Len(t, stats.CategoryBreakdown, 3)
	assert.Equal(t, "Transportation", stats.CategoryBreakdown[0].CategoryName)
	assert.InDelta(t, 349.75, stats.CategoryBreakdown[0].Amount, 1e-6)

	seen := make(map[string]bool)
	var trend float64
	for i, d := range stats.DailyTrend {
		assert.False(t, seen[d.Date], "duplicate date %s", d.Date)
		seen[d.Date] = true
		if i > 0 {
			assert.Less(t, stats.DailyTrend[i-1].Date, d.Date)
		}
		assert.True(t, d.Date >= "2024-03-01" && d.Date <= "2024-03-31", d.Date)
		trend += d.Amount
	}
	assert.Len(t, stats.DailyTrend, 3)
	assert.InDelta(t, 150, stats.DailyTrend[0].Amount, 1e-6)
	assert.True(t, math.Abs(trend-stats.TotalSpent) < 1e-6)
}

func testStatsEmpty(t *testing.T, s storage.Storage) {
	u := createUser(t, s, "alice")
	createExpense(t, s, u.ID, 10, "2024-01-15", nil)

	stats, err := s.GetExpenseStats(context.Background(), u.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSpent)
	assert.NotNil(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.CategoryBreakdown)
	assert.NotNil(t, stats.DailyTrend)
	assert.Empty(t, stats.DailyTrend)
}

func testStatsUncategorizedMerge(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	u := createUser(t, s, "alice")
	c, err := s.CreateCategory(ctx, models.Category{Name: "Gone", Color: "#222222"})
	require.NoError(t, err)
	createExpense(t, s, u.ID, 30, "2024-03-02", &c.ID)
	createExpense(t, s, u.ID, 20, "2024-03-03", nil)
	require.NoError(t, s.DeleteCategory(ctx, c.ID))

	stats, err := s.GetExpenseStats(ctx, u.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, stats.CategoryBreakdown, 1)
	assert.Equal(t, models.UncategorizedName, stats.CategoryBreakdown[0].CategoryName)
	assert.InDelta(t, 50, stats.CategoryBreakdown[0].Amount, 1e-9)
}
