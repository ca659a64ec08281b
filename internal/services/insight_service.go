package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finsight/internal/ai"
	apperrors "finsight/internal/errors"
	"finsight/internal/logger"
	"finsight/internal/models"
	"finsight/internal/notify"
	"finsight/internal/storage"
)

// insightService handles AI insight business logic.
type insightService struct {
	store    storage.Provider
	ai       AIClient
	notifier Notifier
	now      func() time.Time
	log      *zap.SugaredLogger
}

// NewInsightService creates a new InsightServicer. notifier may be nil.
func NewInsightService(store storage.Provider, aiClient AIClient, notifier Notifier) InsightServicer {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &insightService{
		store:    store,
		ai:       aiClient,
		notifier: notifier,
		now:      time.Now,
		log:      logger.Named("insights"),
	}
}

// GetInsights returns the user's insights newest first.
func (s *insightService) GetInsights(ctx context.Context, userID string, limit int) ([]models.Insight, error) {
	if limit < 0 {
		return nil, invalid("limit must not be negative")
	}
	insights, err := s.store.Current().GetInsights(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return insights, nil
}

// MarkRead flags one of the user's insights as read.
func (s *insightService) MarkRead(ctx context.Context, userID, id string) (*models.Insight, error) {
	insight, err := s.store.Current().MarkInsightRead(ctx, userID, id)
	if err != nil {
		return nil, mapStorageErr(err, apperrors.ErrInsightNotFound)
	}
	return insight, nil
}

// Generate replaces the user's insights with a fresh set of three built from
// this month's and last month's spend and the active monthly budgets.
func (s *insightService) Generate(ctx context.Context, userID string) ([]models.Insight, error) {
	backend := s.store.Current()

	if err := backend.ClearInsights(ctx, userID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	curStart, curEnd := models.MonthRange(now)
	prevStart, prevEnd := models.PreviousMonthRange(now)

	var in ai.InsightInput
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Current, err = backend.GetExpensesByDateRange(gctx, userID, curStart, curEnd)
		return err
	})
	g.Go(func() error {
		var err error
		in.Previous, err = backend.GetExpensesByDateRange(gctx, userID, prevStart, prevEnd)
		return err
	})
	g.Go(func() error {
		var err error
		in.Budgets, err = backend.GetActiveBudgets(gctx, userID, models.BudgetPeriodMonthly, models.FormatDate(now))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	drafts := s.ai.GenerateInsights(ctx, in)

	insights := make([]models.Insight, 0, len(drafts))
	for _, d := range drafts {
		created, err := backend.CreateInsight(ctx, models.Insight{
			UserID:      userID,
			Type:        d.Type,
			Title:       d.Title,
			Description: d.Description,
			Priority:    d.Priority,
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		insights = append(insights, *created)
	}

	s.log.Infow("generated insights", "user_id", userID, "count", len(insights), "backend", backend.Name())
	s.notifier.Publish(userID, notify.TypeInsightsUpdate, insights)
	return insights, nil
}
