package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"finsight/internal/models"
)

// fakeModel returns a canned completion or error.
type fakeModel struct {
	response string
	err      error
	delay    time.Duration
	calls    atomic.Int32
	prompt   string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls.Add(1)
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			f.prompt = text.Text
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.response}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

var testCategories = []string{"Food & Dining", "Transportation", "Other"}

func TestCategorizeExpense_ModelResponse(t *testing.T) {
	model := &fakeModel{response: "```json\n{\"category\": \"Food & Dining\", \"confidence\": 1.7, \"reasoning\": \"meal\"}\n```"}
	c := NewWithModel(model, Config{})

	got := c.CategorizeExpense(context.Background(), "Team lunch", 820, testCategories)

	assert.Equal(t, "Food & Dining", got.Category)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, "meal", got.Reasoning)
	assert.Contains(t, model.prompt, "Team lunch")
	assert.Contains(t, model.prompt, "Transportation")
}

func TestCategorizeExpense_FallbackOnError(t *testing.T) {
	c := NewWithModel(&fakeModel{err: errors.New("connection reset")}, Config{})

	got := c.CategorizeExpense(context.Background(), "Uber ride", 250.50, testCategories)

	assert.Equal(t, CategoryTransport, got.Category)
	assert.Equal(t, keywordConfidence, got.Confidence)
}

func TestCategorizeExpense_FallbackOnMalformedJSON(t *testing.T) {
	c := NewWithModel(&fakeModel{response: "I think it's food"}, Config{})

	got := c.CategorizeExpense(context.Background(), "Something odd", 10, testCategories)

	assert.Equal(t, CategoryOther, got.Category)
	assert.Equal(t, otherConfidence, got.Confidence)
}

func TestCategorizeExpense_FallbackOnTimeout(t *testing.T) {
	model := &fakeModel{response: `{"category":"Food & Dining","confidence":0.9}`, delay: time.Second}
	c := NewWithModel(model, Config{Timeout: 20 * time.Millisecond})

	start := time.Now()
	got := c.CategorizeExpense(context.Background(), "metro card", 100, testCategories)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, CategoryTransport, got.Category)
}

func TestCategorizeExpense_NoAPIKey(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	got := c.CategorizeExpense(context.Background(), "Uber ride", 250.50, testCategories)
	assert.Equal(t, CategoryTransport, got.Category)
}

func TestCategorizeExpense_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	require.True(t, c.Enabled())

	got := c.CategorizeExpense(context.Background(), "Uber ride", 250.50, testCategories)
	assert.Equal(t, CategoryTransport, got.Category)

	insights := c.GenerateInsights(context.Background(), InsightInput{})
	assert.Equal(t, FallbackInsights(), insights)
}

func TestGenerateInsights_PadsToThree(t *testing.T) {
	model := &fakeModel{response: `{"insights": [{"type": "alert", "title": "Dining is up", "description": "40% more than last month", "priority": "urgent"}]}`}
	c := NewWithModel(model, Config{})

	got := c.GenerateInsights(context.Background(), InsightInput{
		Current: []models.ExpenseWithCategory{{Expense: models.Expense{Amount: 500}, CategoryName: "Food & Dining"}},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "Dining is up", got[0].Title)
	assert.Equal(t, models.InsightAlert, got[0].Type)
	assert.Equal(t, models.PriorityMedium, got[0].Priority)
	assert.Equal(t, FallbackInsights()[0].Title, got[1].Title)
	assert.Contains(t, model.prompt, "Food & Dining: 500.00")
}

func TestGenerateInsights_TruncatesToThree(t *testing.T) {
	model := &fakeModel{response: `[
		{"type": "goal", "title": "a", "priority": "low"},
		{"type": "goal", "title": "b", "priority": "low"},
		{"type": "bogus", "title": "c", "priority": "high"},
		{"type": "goal", "title": "d", "priority": "low"}
	]`}
	c := NewWithModel(model, Config{})

	got := c.GenerateInsights(context.Background(), InsightInput{})

	require.Len(t, got, 3)
	assert.Equal(t, "c", got[2].Title)
	assert.Equal(t, models.InsightRecommendation, got[2].Type)
}

func TestGenerateInsights_FallbackShape(t *testing.T) {
	c := NewWithModel(&fakeModel{err: errors.New("boom")}, Config{})

	got := c.GenerateInsights(context.Background(), InsightInput{})

	require.Len(t, got, 3)
	for _, in := range got {
		assert.True(t, in.Type.IsValid())
		assert.True(t, in.Priority.IsValid())
		assert.NotEmpty(t, in.Title)
		assert.NotEmpty(t, in.Description)
	}
}

func TestRecommendBudgets(t *testing.T) {
	model := &fakeModel{response: `{"recommendations": [{"category": "Food & Dining", "suggestedAmount": 8000, "reasoning": "r"}, {"category": "", "suggestedAmount": 1}]}`}
	c := NewWithModel(model, Config{})

	got := c.RecommendBudgets(context.Background(), nil, models.DefaultProfile("u1"))

	require.Len(t, got, 1)
	assert.Equal(t, 8000.0, got[0].SuggestedAmount)
	assert.Contains(t, model.prompt, "50000.00 INR")
}

func TestRecommendBudgets_Fallback(t *testing.T) {
	c := NewWithModel(nil, Config{})

	got := c.RecommendBudgets(context.Background(), nil, models.UserProfile{MonthlyIncome: 80000})

	require.Len(t, got, 3)
	assert.Equal(t, 40000.0, got[0].SuggestedAmount)
	assert.Equal(t, 24000.0, got[1].SuggestedAmount)
	assert.Equal(t, 16000.0, got[2].SuggestedAmount)
}

func TestRateLimiterCancelledContext(t *testing.T) {
	model := &fakeModel{response: `{"category":"Other","confidence":0.5}`}
	c := NewWithModel(model, Config{RateLimit: 0.001})
	// Drain the burst so the next call has to wait.
	for i := 0; i < defaultBurst; i++ {
		require.True(t, c.limiter.Allow())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := c.CategorizeExpense(ctx, "train ticket", 90, testCategories)

	assert.Equal(t, CategoryTransport, got.Category)
	assert.Zero(t, model.calls.Load())
}
