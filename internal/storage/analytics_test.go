package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/models"
)

func strPtr(s string) *string { return &s }

func TestSummarizeExpenses_FiltersByUserAndRange(t *testing.T) {
	expenses := []models.Expense{
		{UserID: "u1", Amount: 100, Date: "2024-03-01", CategoryID: strPtr("food")},
		{UserID: "u1", Amount: 50, Date: "2024-03-31", CategoryID: strPtr("food")},
		{UserID: "u1", Amount: 25, Date: "2024-03-15"},
		{UserID: "u1", Amount: 999, Date: "2024-04-01", CategoryID: strPtr("food")},
		{UserID: "u1", Amount: 999, Date: "2024-02-29"},
		{UserID: "u2", Amount: 999, Date: "2024-03-10"},
	}

	summary := SummarizeExpenses(expenses, "u1", "2024-03-01", "2024-03-31")

	assert.InDelta(t, 175, summary.Total, 1e-9)
	assert.Len(t, summary.ByCategory, 2)
	assert.Len(t, summary.ByDate, 3)
}

func TestBuildStats_OrdersAndMergesUncategorized(t *testing.T) {
	summary := ExpenseSummary{
		Total: 400,
		ByCategory: []CategoryTotal{
			{CategoryID: "food", Amount: 100},
			{CategoryID: "", Amount: 50},
			{CategoryID: "deleted", Amount: 70},
			{CategoryID: "travel", Amount: 180},
		},
		ByDate: []models.DailyAmount{
			{Date: "2024-03-03", Amount: 200},
			{Date: "2024-03-01", Amount: 150},
			{Date: "2024-03-02", Amount: 50},
		},
	}
	categories := CategoryIndex([]models.Category{
		{ID: "food", Name: "Food & Dining", Color: "#ef4444"},
		{ID: "travel", Name: "Transportation", Color: "#3b82f6"},
	})

	stats := BuildStats(summary, categories)

	require.Len(t, stats.CategoryBreakdown, 3)
	assert.Equal(t, "Transportation", stats.CategoryBreakdown[0].CategoryName)
	assert.Equal(t, models.UncategorizedName, stats.CategoryBreakdown[1].CategoryName)
	assert.InDelta(t, 120, stats.CategoryBreakdown[1].Amount, 1e-9)
	assert.Equal(t, models.UncategorizedColor, stats.CategoryBreakdown[1].Color)
	assert.Equal(t, "Food & Dining", stats.CategoryBreakdown[2].CategoryName)

	var sum float64
	for _, c := range stats.CategoryBreakdown {
		sum += c.Amount
	}
	assert.InDelta(t, stats.TotalSpent, sum, 1e-9)

	require.Len(t, stats.DailyTrend, 3)
	assert.Equal(t, "2024-03-01", stats.DailyTrend[0].Date)
	assert.Equal(t, "2024-03-03", stats.DailyTrend[2].Date)
}

func TestBuildStats_Empty(t *testing.T) {
	stats := BuildStats(ExpenseSummary{}, nil)

	assert.Zero(t, stats.TotalSpent)
	assert.NotNil(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.CategoryBreakdown)
	assert.NotNil(t, stats.DailyTrend)
	assert.Empty(t, stats.DailyTrend)
}

func TestDefaultCategories(t *testing.T) {
	defaults := DefaultCategories()
	require.Len(t, defaults, 8)

	names := make(map[string]bool)
	for _, c := range defaults {
		assert.Regexp(t, `^#[0-9a-fA-F]{6}$`, c.Color)
		names[c.Name] = true
	}
	assert.True(t, names["Transportation"])
	assert.True(t, names["Other"])
}
