package services

import (
	"context"
	"math"
	"time"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/storage"
)

// nearLimitRatio is the share of a budget at which its status turns to Near Limit.
const nearLimitRatio = 0.8

// budgetService handles budget-related business logic.
type budgetService struct {
	store storage.Provider
	now   func() time.Time
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(store storage.Provider) BudgetServicer {
	return &budgetService{store: store, now: time.Now}
}

// GetBudgets returns all of the user's budgets.
func (s *budgetService) GetBudgets(ctx context.Context, userID string) ([]models.BudgetWithCategory, error) {
	budgets, err := s.store.Current().GetBudgets(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// CreateBudget creates a budget for a category, or for all categories.
func (s *budgetService) CreateBudget(ctx context.Context, userID string, in BudgetInput) (*models.BudgetWithCategory, error) {
	if err := validateAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if !in.Period.IsValid() {
		return nil, invalid("period must be weekly, monthly or yearly")
	}
	if err := validateBudgetDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	backend := s.store.Current()

	var category *models.Category
	if in.CategoryID != nil && *in.CategoryID == "" {
		in.CategoryID = nil
	}
	if in.CategoryID != nil {
		c, err := backend.GetCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, mapStorageErr(err, apperrors.ErrCategoryNotFound)
		}
		category = c
	}

	budget, err := backend.CreateBudget(ctx, models.Budget{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Period:     in.Period,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := budget.WithCategory(category)
	return &result, nil
}

// UpdateBudget applies a partial update. A CategoryID of "" makes the budget
// apply to all categories.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, id string, upd models.BudgetUpdate) (*models.BudgetWithCategory, error) {
	if upd.Amount != nil {
		if err := validateAmount("amount", *upd.Amount); err != nil {
			return nil, err
		}
	}
	if upd.Period != nil && !upd.Period.IsValid() {
		return nil, invalid("period must be weekly, monthly or yearly")
	}
	if upd.StartDate != nil {
		if err := validateDate("startDate", *upd.StartDate); err != nil {
			return nil, err
		}
	}
	if upd.EndDate != nil {
		if err := validateDate("endDate", *upd.EndDate); err != nil {
			return nil, err
		}
	}

	backend := s.store.Current()
	if upd.CategoryID != nil && *upd.CategoryID != "" {
		if _, err := backend.GetCategory(ctx, *upd.CategoryID); err != nil {
			return nil, mapStorageErr(err, apperrors.ErrCategoryNotFound)
		}
	}

	// The merged range has to stay ordered, so check it against the stored budget.
	if upd.StartDate != nil || upd.EndDate != nil {
		current, err := backend.GetBudget(ctx, userID, id)
		if err != nil {
			return nil, mapStorageErr(err, apperrors.ErrBudgetNotFound)
		}
		merged := *current
		upd.ApplyTo(&merged)
		if merged.StartDate > merged.EndDate {
			return nil, apperrors.ErrInvalidBudgetRange
		}
	}

	updated, err := backend.UpdateBudget(ctx, userID, id, upd)
	if err != nil {
		return nil, mapStorageErr(err, apperrors.ErrBudgetNotFound)
	}

	var category *models.Category
	if updated.CategoryID != nil {
		category, _ = backend.GetCategory(ctx, *updated.CategoryID)
	}
	result := updated.WithCategory(category)
	return &result, nil
}

// DeleteBudget removes one of the user's budgets.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, id string) error {
	return mapStorageErr(s.store.Current().DeleteBudget(ctx, userID, id), apperrors.ErrBudgetNotFound)
}

// GetBudgetStatus reports spend against every budget of the given period that
// is active today. Spend is counted over the current calendar period, clipped
// to the budget's own date range.
func (s *budgetService) GetBudgetStatus(ctx context.Context, userID string, period models.BudgetPeriod) ([]BudgetStatus, error) {
	if !period.IsValid() {
		return nil, invalid("period must be weekly, monthly or yearly")
	}

	now := s.now()
	today := models.FormatDate(now)
	backend := s.store.Current()

	budgets, err := backend.GetActiveBudgets(ctx, userID, period, today)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	start, end := models.PeriodRange(period, now)
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		from, to := start, end
		if b.StartDate > from {
			from = b.StartDate
		}
		if b.EndDate < to {
			to = b.EndDate
		}

		expenses, err := backend.GetExpensesByDateRange(ctx, userID, from, to)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var spent float64
		for _, e := range expenses {
			if b.CategoryID == nil || (e.CategoryID != nil && *e.CategoryID == *b.CategoryID) {
				spent += e.Amount
			}
		}

		statuses = append(statuses, newBudgetStatus(b, from, to, spent))
	}
	return statuses, nil
}

func newBudgetStatus(b models.BudgetWithCategory, from, to string, spent float64) BudgetStatus {
	status := BudgetStatus{
		Budget:       b,
		CategoryName: b.CategoryName,
		PeriodStart:  from,
		PeriodEnd:    to,
		Spent:        spent,
		Remaining:    b.Amount - spent,
	}

	if b.Amount > 0 {
		status.Percentage = math.Round(spent/b.Amount*10000) / 100
	} else if spent > 0 {
		status.Percentage = 100
	}

	switch {
	case spent > b.Amount:
		status.Status = BudgetOver
	case b.Amount > 0 && spent >= b.Amount*nearLimitRatio:
		status.Status = BudgetNearLimit
	default:
		status.Status = BudgetOnTrack
	}
	return status
}

func validateBudgetDates(start, end string) error {
	if err := validateDate("startDate", start); err != nil {
		return err
	}
	if err := validateDate("endDate", end); err != nil {
		return err
	}
	if start > end {
		return apperrors.ErrInvalidBudgetRange
	}
	return nil
}
