package services

import (
	"context"
	"strings"
	"time"

	"finsight/internal/ai"
	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/storage"
)

// recommendationLookback is how much recent spend budget recommendations consider.
const recommendationLookback = 30 * 24 * time.Hour

// recommendationService exposes the AI client's categorization and budget
// suggestions directly.
type recommendationService struct {
	store storage.Provider
	ai    AIClient
	now   func() time.Time
}

// NewRecommendationService creates a new RecommendationServicer.
func NewRecommendationService(store storage.Provider, aiClient AIClient) RecommendationServicer {
	return &recommendationService{store: store, ai: aiClient, now: time.Now}
}

// Categorize suggests a category for a description without storing anything.
func (s *recommendationService) Categorize(ctx context.Context, description string, amount float64) (*CategorySuggestion, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, invalid("description is required")
	}

	categories, err := s.store.Current().GetCategories(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	suggestion := &CategorySuggestion{
		Categorization: s.ai.CategorizeExpense(ctx, description, amount, categoryNames(categories)),
	}
	if c := findCategoryByName(categories, suggestion.Category); c != nil {
		id := c.ID
		suggestion.CategoryID = &id
		suggestion.Category = c.Name
	}
	return suggestion, nil
}

// RecommendBudgets suggests monthly budgets from the last 30 days of spend and
// the user's income.
func (s *recommendationService) RecommendBudgets(ctx context.Context, userID string) ([]ai.BudgetRecommendation, error) {
	backend := s.store.Current()

	now := s.now()
	expenses, err := backend.GetExpensesByDateRange(ctx, userID,
		models.FormatDate(now.Add(-recommendationLookback)), models.FormatDate(now))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profile, err := backend.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.ai.RecommendBudgets(ctx, expenses, *profile), nil
}
