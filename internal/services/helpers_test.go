package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"finsight/internal/ai"
	"finsight/internal/models"
)

// fallbackAI returns a client with no model, so every call uses the fallbacks.
func fallbackAI(t *testing.T) *ai.Client {
	t.Helper()
	client, err := ai.New(ai.Config{})
	if err != nil {
		t.Fatalf("failed to build AI client: %v", err)
	}
	return client
}

type published struct {
	userID    string
	eventType string
	data      any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *recordingNotifier) Publish(userID, eventType string, data any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{userID: userID, eventType: eventType, data: data})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.eventType
	}
	return out
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(12 * time.Hour) }
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// stubAI answers categorization with a fixed result and defers the rest to the fallbacks.
type stubAI struct {
	category ai.Categorization
}

func (s *stubAI) CategorizeExpense(context.Context, string, float64, []string) ai.Categorization {
	return s.category
}

func (s *stubAI) GenerateInsights(context.Context, ai.InsightInput) []ai.InsightDraft {
	return ai.FallbackInsights()
}

func (s *stubAI) RecommendBudgets(_ context.Context, _ []models.ExpenseWithCategory, profile models.UserProfile) []ai.BudgetRecommendation {
	return ai.FallbackRecommendations(profile.MonthlyIncome)
}
