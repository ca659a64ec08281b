package models

// CategoryAmount is one row of a per-category spend breakdown.
type CategoryAmount struct {
	CategoryName string  `json:"categoryName"`
	Amount       float64 `json:"amount"`
	Color        string  `json:"color"`
}

// DailyAmount is the total spend on one date.
type DailyAmount struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// ExpenseStats summarizes a user's spend over a date range.
type ExpenseStats struct {
	TotalSpent        float64          `json:"totalSpent"`
	CategoryBreakdown []CategoryAmount `json:"categoryBreakdown"`
	DailyTrend        []DailyAmount    `json:"dailyTrend"`
}

// EmptyStats returns stats for an empty selection, with non-nil slices so the
// JSON form carries [] rather than null.
func EmptyStats() ExpenseStats {
	return ExpenseStats{
		CategoryBreakdown: []CategoryAmount{},
		DailyTrend:        []DailyAmount{},
	}
}
