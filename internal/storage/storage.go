// Package storage defines the persistence contract shared by the in-memory and
// MongoDB backends, and the Manager that decides which one is live.
package storage

import (
	"context"
	"errors"

	"finsight/internal/models"
)

var (
	// ErrNotFound is returned when an id does not exist or belongs to another user.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicate is returned when a unique field (username) is already taken.
	ErrDuplicate = errors.New("storage: duplicate")
)

// Storage is every persistence operation the application performs. Reads scoped
// by user id never return another user's rows. Creates return the stored entity
// with its generated id and timestamps. Updates and deletes of a missing id
// return ErrNotFound.
type Storage interface {
	// Name identifies the backend ("memory" or "mongodb").
	Name() string

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)

	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// GetExpenses returns the user's expenses newest first; limit <= 0 means all.
	GetExpenses(ctx context.Context, userID string, limit int) ([]models.ExpenseWithCategory, error)
	// GetExpensesByDateRange returns expenses with start <= date <= end, newest first.
	GetExpensesByDateRange(ctx context.Context, userID, start, end string) ([]models.ExpenseWithCategory, error)
	GetExpense(ctx context.Context, userID, id string) (*models.ExpenseWithCategory, error)
	CreateExpense(ctx context.Context, expense models.Expense) (*models.Expense, error)
	UpdateExpense(ctx context.Context, userID, id string, upd models.ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id string) error

	GetBudgets(ctx context.Context, userID string) ([]models.BudgetWithCategory, error)
	// GetBudget returns ErrNotFound when the budget is missing or owned by
	// another user. Backend failures are returned, never swallowed.
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
	// GetActiveBudgets returns budgets of the given period whose range covers date.
	GetActiveBudgets(ctx context.Context, userID string, period models.BudgetPeriod, date string) ([]models.BudgetWithCategory, error)
	CreateBudget(ctx context.Context, budget models.Budget) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, id string, upd models.BudgetUpdate) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error

	// GetInsights returns the user's insights newest first; limit <= 0 means all.
	GetInsights(ctx context.Context, userID string, limit int) ([]models.Insight, error)
	CreateInsight(ctx context.Context, insight models.Insight) (*models.Insight, error)
	MarkInsightRead(ctx context.Context, userID, id string) (*models.Insight, error)
	ClearInsights(ctx context.Context, userID string) error

	// GetUserProfile returns the stored profile or the defaults.
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertUserProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error)

	// GetExpenseStats summarizes spend with start <= date <= end.
	GetExpenseStats(ctx context.Context, userID, start, end string) (*models.ExpenseStats, error)
}

// Provider hands out the backend that is live right now. Callers should call
// Current once per operation and keep using that reference until they finish.
type Provider interface {
	Current() Storage
}
