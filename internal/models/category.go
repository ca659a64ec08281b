package models

import "time"

const (
	// UncategorizedName is shown for expenses whose category is missing or deleted.
	UncategorizedName = "Uncategorized"
	// UncategorizedColor is the breakdown color for uncategorized spend.
	UncategorizedColor = "#6b7280"
	// AllCategoriesName is shown for budgets that apply to every category.
	AllCategoriesName = "All Categories"
)

// Category groups expenses. Categories are shared by all users.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryUpdate is a partial update; nil fields are left unchanged.
type CategoryUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// ApplyTo copies the set fields onto c.
func (upd CategoryUpdate) ApplyTo(c *Category) {
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Color != nil {
		c.Color = *upd.Color
	}
	if upd.Icon != nil {
		c.Icon = *upd.Icon
	}
}
