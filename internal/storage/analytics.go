package storage

import (
	"sort"

	"finsight/internal/models"
)

// CategoryTotal is the summed spend for one category id; an empty id means no category.
type CategoryTotal struct {
	CategoryID string
	Amount     float64
}

// ExpenseSummary holds raw per-category and per-date totals before names and
// colors are resolved.
type ExpenseSummary struct {
	Total      float64
	ByCategory []CategoryTotal
	ByDate     []models.DailyAmount
}

// SummarizeExpenses totals the user's expenses with start <= date <= end by
// linear scan.
func SummarizeExpenses(expenses []models.Expense, userID, start, end string) ExpenseSummary {
	var summary ExpenseSummary
	byCategory := make(map[string]float64)
	byDate := make(map[string]float64)

	for _, e := range expenses {
		if e.UserID != userID || e.Date < start || e.Date > end {
			continue
		}
		summary.Total += e.Amount
		key := ""
		if e.CategoryID != nil {
			key = *e.CategoryID
		}
		byCategory[key] += e.Amount
		byDate[e.Date] += e.Amount
	}

	for id, amount := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{CategoryID: id, Amount: amount})
	}
	for date, amount := range byDate {
		summary.ByDate = append(summary.ByDate, models.DailyAmount{Date: date, Amount: amount})
	}
	return summary
}

// BuildStats resolves category names and colors for a summary and orders the
// result: breakdown by amount descending, trend by date ascending. Totals whose
// category is missing or no longer exists are merged into one Uncategorized row.
func BuildStats(summary ExpenseSummary, categories map[string]models.Category) *models.ExpenseStats {
	stats := models.EmptyStats()
	stats.TotalSpent = summary.Total

	var uncategorized float64
	hasUncategorized := false
	for _, ct := range summary.ByCategory {
		cat, ok := categories[ct.CategoryID]
		if ct.CategoryID == "" || !ok {
			uncategorized += ct.Amount
			hasUncategorized = true
			continue
		}
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, models.CategoryAmount{
			CategoryName: cat.Name,
			Amount:       ct.Amount,
			Color:        cat.Color,
		})
	}
	if hasUncategorized {
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, models.CategoryAmount{
			CategoryName: models.UncategorizedName,
			Amount:       uncategorized,
			Color:        models.UncategorizedColor,
		})
	}
	sort.SliceStable(stats.CategoryBreakdown, func(i, j int) bool {
		a, b := stats.CategoryBreakdown[i], stats.CategoryBreakdown[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.CategoryName < b.CategoryName
	})

	stats.DailyTrend = append(stats.DailyTrend, summary.ByDate...)
	sort.Slice(stats.DailyTrend, func(i, j int) bool {
		return stats.DailyTrend[i].Date < stats.DailyTrend[j].Date
	})
	return &stats
}

// CategoryIndex maps categories by id.
func CategoryIndex(categories []models.Category) map[string]models.Category {
	index := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}
