package services

import (
	"context"

	"finsight/internal/ai"
	"finsight/internal/models"
	"finsight/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(ctx context.Context, username, password, firstName, lastName string, email *string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, color, icon string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ExpenseFilter bounds an expense listing. A date range takes precedence over Limit.
type ExpenseFilter struct {
	Limit     int
	StartDate string
	EndDate   string
}

// ExpenseInput is a new expense. A nil CategoryID asks the AI client to pick one.
type ExpenseInput struct {
	CategoryID    *string
	Amount        float64
	Description   string
	Date          string
	PaymentMethod models.PaymentMethod
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]models.ExpenseWithCategory, error)
	GetExpense(ctx context.Context, userID, id string) (*models.ExpenseWithCategory, error)
	CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.ExpenseWithCategory, error)
	UpdateExpense(ctx context.Context, userID, id string, upd models.ExpenseUpdate) (*models.ExpenseWithCategory, error)
	DeleteExpense(ctx context.Context, userID, id string) error
}

// BudgetInput is a new budget. A nil CategoryID applies it to all categories.
type BudgetInput struct {
	CategoryID *string
	Amount     float64
	Period     models.BudgetPeriod
	StartDate  string
	EndDate    string
}

// Budget status labels.
const (
	BudgetOnTrack   = "On Track"
	BudgetNearLimit = "Near Limit"
	BudgetOver      = "Over Budget"
)

// BudgetStatus compares a budget with what was spent in its current period.
type BudgetStatus struct {
	Budget       models.BudgetWithCategory `json:"budget"`
	CategoryName string                    `json:"categoryName"`
	PeriodStart  string                    `json:"periodStart"`
	PeriodEnd    string                    `json:"periodEnd"`
	Spent        float64                   `json:"spent"`
	Remaining    float64                   `json:"remaining"`
	Percentage   float64                   `json:"percentage"`
	Status       string                    `json:"status"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	GetBudgets(ctx context.Context, userID string) ([]models.BudgetWithCategory, error)
	CreateBudget(ctx context.Context, userID string, in BudgetInput) (*models.BudgetWithCategory, error)
	UpdateBudget(ctx context.Context, userID, id string, upd models.BudgetUpdate) (*models.BudgetWithCategory, error)
	DeleteBudget(ctx context.Context, userID, id string) error
	GetBudgetStatus(ctx context.Context, userID string, period models.BudgetPeriod) ([]BudgetStatus, error)
}

// InsightServicer defines the contract for AI insight business logic.
type InsightServicer interface {
	GetInsights(ctx context.Context, userID string, limit int) ([]models.Insight, error)
	MarkRead(ctx context.Context, userID, id string) (*models.Insight, error)
	Generate(ctx context.Context, userID string) ([]models.Insight, error)
}

// AnalyticsServicer defines the contract for spend analytics.
type AnalyticsServicer interface {
	GetStats(ctx context.Context, userID, startDate, endDate string) (*models.ExpenseStats, error)
}

// ProfileServicer defines the contract for per-user financial settings.
type ProfileServicer interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error)
}

// RecommendationServicer defines the contract for AI budget recommendations.
type RecommendationServicer interface {
	Categorize(ctx context.Context, description string, amount float64) (*CategorySuggestion, error)
	RecommendBudgets(ctx context.Context, userID string) ([]ai.BudgetRecommendation, error)
}

// CategorySuggestion is a categorization resolved against the stored categories.
type CategorySuggestion struct {
	ai.Categorization
	CategoryID *string `json:"categoryId"`
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	List(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

// AIClient is the model client the services call. Every method returns a
// usable result and never an error.
type AIClient interface {
	CategorizeExpense(ctx context.Context, description string, amount float64, categories []string) ai.Categorization
	GenerateInsights(ctx context.Context, in ai.InsightInput) []ai.InsightDraft
	RecommendBudgets(ctx context.Context, expenses []models.ExpenseWithCategory, profile models.UserProfile) []ai.BudgetRecommendation
}

// Notifier delivers real-time events to a user's open connections.
type Notifier interface {
	Publish(userID, eventType string, data any)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string, any) {}
