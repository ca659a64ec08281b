package storage

import "finsight/internal/models"

// DefaultCategories are seeded into an empty category collection.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Name: "Food & Dining", Color: "#ef4444", Icon: "🍽️"},
		{Name: "Transportation", Color: "#3b82f6", Icon: "🚗"},
		{Name: "Shopping", Color: "#8b5cf6", Icon: "🛍️"},
		{Name: "Entertainment", Color: "#f59e0b", Icon: "🎬"},
		{Name: "Bills & Utilities", Color: "#10b981", Icon: "💡"},
		{Name: "Healthcare", Color: "#ec4899", Icon: "🏥"},
		{Name: "Education", Color: "#06b6d4", Icon: "📚"},
		{Name: "Other", Color: "#6b7280", Icon: "📦"},
	}
}
