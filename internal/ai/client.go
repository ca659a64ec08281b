// Package ai wraps a hosted language model for expense categorization, spending
// insights and budget recommendations. Every call returns a usable result: if
// the model call fails for any reason a deterministic fallback is substituted
// and the failure is only logged.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"finsight/internal/logger"
	"finsight/internal/metrics"
	"finsight/internal/models"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 20 * time.Second
	defaultRate    = 2.0
	defaultBurst   = 4
)

const (
	opCategorize = "categorize"
	opInsights   = "insights"
	opRecommend  = "recommend"
)

var errNotConfigured = errors.New("ai: no API key configured")

// Config configures the model client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// RateLimit is the sustained number of model calls per second.
	RateLimit float64
}

// Categorization is the model's guess for an expense's category.
type Categorization struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// InsightDraft is an insight before it is stored for a user.
type InsightDraft struct {
	Type        models.InsightType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    models.Priority    `json:"priority"`
}

// BudgetRecommendation suggests a monthly amount for a category.
type BudgetRecommendation struct {
	Category        string  `json:"category"`
	SuggestedAmount float64 `json:"suggestedAmount"`
	Reasoning       string  `json:"reasoning"`
}

// InsightInput is the data an insight pass looks at.
type InsightInput struct {
	Current  []models.ExpenseWithCategory
	Previous []models.ExpenseWithCategory
	Budgets  []models.BudgetWithCategory
}

// Client calls the model. A Client with no model only ever returns fallbacks.
type Client struct {
	llm     llms.Model
	limiter *rate.Limiter
	timeout time.Duration
	log     *zap.SugaredLogger
}

// New builds a Client backed by the OpenAI chat API. An empty API key is not
// an error; the client then serves fallbacks only.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		c := NewWithModel(nil, cfg)
		c.log.Infow("no OpenAI API key configured, AI features will use fallbacks")
		return c, nil
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	return NewWithModel(llm, cfg), nil
}

// NewWithModel builds a Client around any langchaingo model.
func NewWithModel(llm llms.Model, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRate
	}
	return &Client{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(limit), defaultBurst),
		timeout: timeout,
		log:     logger.Named("ai"),
	}
}

// Enabled reports whether a model is configured.
func (c *Client) Enabled() bool { return c.llm != nil }

// CategorizeExpense picks one of categories for the expense.
func (c *Client) CategorizeExpense(ctx context.Context, description string, amount float64, categories []string) Categorization {
	raw, err := c.generate(ctx, opCategorize, categorizePrompt(description, amount, categories))
	if err == nil {
		var result Categorization
		result, err = parseCategorization(raw)
		if err == nil {
			return result
		}
	}
	c.fallback(opCategorize, err)
	return FallbackCategorization(description)
}

// GenerateInsights returns exactly three insights.
func (c *Client) GenerateInsights(ctx context.Context, in InsightInput) []InsightDraft {
	raw, err := c.generate(ctx, opInsights, insightsPrompt(in))
	if err == nil {
		var drafts []InsightDraft
		drafts, err = parseInsights(raw)
		if err == nil {
			return drafts
		}
	}
	c.fallback(opInsights, err)
	return FallbackInsights()
}

// RecommendBudgets suggests monthly budgets from recent spending.
func (c *Client) RecommendBudgets(ctx context.Context, expenses []models.ExpenseWithCategory, profile models.UserProfile) []BudgetRecommendation {
	raw, err := c.generate(ctx, opRecommend, recommendPrompt(expenses, profile))
	if err == nil {
		var recs []BudgetRecommendation
		recs, err = parseRecommendations(raw)
		if err == nil {
			return recs
		}
	}
	c.fallback(opRecommend, err)
	return FallbackRecommendations(profile.MonthlyIncome)
}

// generate runs one throttled, time-bounded completion in JSON mode.
func (c *Client) generate(ctx context.Context, op, prompt string) (string, error) {
	if c.llm == nil {
		return "", errNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.AIRequestsTotal.WithLabelValues(op, "throttled").Inc()
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithJSONMode(),
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(800),
	)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("%s completion: %w", op, err)
	}
	metrics.AIRequestsTotal.WithLabelValues(op, "ok").Inc()
	c.log.Debugw("model call completed", "op", op, "duration", time.Since(start))
	return out, nil
}

func (c *Client) fallback(op string, err error) {
	metrics.AIFallbacksTotal.WithLabelValues(op).Inc()
	if errors.Is(err, errNotConfigured) {
		return
	}
	c.log.Warnw("model call failed, using fallback", "op", op, "error", err)
}
