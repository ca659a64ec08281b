package services

import (
	"context"
	"time"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/storage"
)

// analyticsService computes spend summaries.
type analyticsService struct {
	store storage.Provider
	now   func() time.Time
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(store storage.Provider) AnalyticsServicer {
	return &analyticsService{store: store, now: time.Now}
}

// GetStats summarizes the user's spend between startDate and endDate
// inclusive. Omitted bounds default to the current month.
func (s *analyticsService) GetStats(ctx context.Context, userID, startDate, endDate string) (*models.ExpenseStats, error) {
	monthStart, monthEnd := models.MonthRange(s.now())
	if startDate == "" {
		startDate = monthStart
	}
	if endDate == "" {
		endDate = monthEnd
	}
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}

	stats, err := s.store.Current().GetExpenseStats(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return stats, nil
}
