package models

import "time"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// IsValid reports whether p is a supported period.
func (p BudgetPeriod) IsValid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget caps spend for a category, or for all categories when CategoryID is nil.
type Budget struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	CategoryID *string      `json:"categoryId"`
	Amount     float64      `json:"amount"`
	Period     BudgetPeriod `json:"period"`
	StartDate  string       `json:"startDate"`
	EndDate    string       `json:"endDate"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// ActiveAt reports whether the budget covers date (YYYY-MM-DD) for the given period.
func (b Budget) ActiveAt(date string, period BudgetPeriod) bool {
	return b.Period == period && b.StartDate <= date && date <= b.EndDate
}

// BudgetWithCategory is the read shape of a budget with its category resolved.
type BudgetWithCategory struct {
	Budget
	Category     *Category `json:"category"`
	CategoryName string    `json:"categoryName"`
}

// WithCategory resolves the soft category reference: no category id renders as
// All Categories, a dangling id as Uncategorized.
func (b Budget) WithCategory(category *Category) BudgetWithCategory {
	out := BudgetWithCategory{Budget: b}
	switch {
	case b.CategoryID == nil:
		out.CategoryName = AllCategoriesName
	case category == nil:
		out.CategoryName = UncategorizedName
	default:
		out.Category = category
		out.CategoryName = category.Name
	}
	return out
}

// BudgetUpdate is a partial update; nil fields are left unchanged.
// A CategoryID pointing at an empty string makes the budget apply to all categories.
type BudgetUpdate struct {
	CategoryID *string
	Amount     *float64
	Period     *BudgetPeriod
	StartDate  *string
	EndDate    *string
}

// ApplyTo copies the set fields onto b.
func (upd BudgetUpdate) ApplyTo(b *Budget) {
	if upd.CategoryID != nil {
		if *upd.CategoryID == "" {
			b.CategoryID = nil
		} else {
			id := *upd.CategoryID
			b.CategoryID = &id
		}
	}
	if upd.Amount != nil {
		b.Amount = *upd.Amount
	}
	if upd.Period != nil {
		b.Period = *upd.Period
	}
	if upd.StartDate != nil {
		b.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		b.EndDate = *upd.EndDate
	}
}
