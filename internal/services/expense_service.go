package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"finsight/internal/ai"
	apperrors "finsight/internal/errors"
	"finsight/internal/logger"
	"finsight/internal/models"
	"finsight/internal/notify"
	"finsight/internal/storage"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	store    storage.Provider
	ai       AIClient
	notifier Notifier
	log      *zap.SugaredLogger
}

// NewExpenseService creates a new ExpenseServicer. notifier may be nil.
func NewExpenseService(store storage.Provider, aiClient AIClient, notifier Notifier) ExpenseServicer {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &expenseService{
		store:    store,
		ai:       aiClient,
		notifier: notifier,
		log:      logger.Named("expenses"),
	}
}

// GetExpenses lists the user's expenses newest first, either within a date
// range or bounded by a count.
func (s *expenseService) GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]models.ExpenseWithCategory, error) {
	backend := s.store.Current()

	var (
		expenses []models.ExpenseWithCategory
		err      error
	)
	if filter.StartDate != "" || filter.EndDate != "" {
		if filter.StartDate == "" || filter.EndDate == "" {
			return nil, invalid("startDate and endDate must be given together")
		}
		if err := validateRange(filter.StartDate, filter.EndDate); err != nil {
			return nil, err
		}
		expenses, err = backend.GetExpensesByDateRange(ctx, userID, filter.StartDate, filter.EndDate)
	} else {
		if filter.Limit < 0 {
			return nil, invalid("limit must not be negative")
		}
		expenses, err = backend.GetExpenses(ctx, userID, filter.Limit)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetExpense returns one of the user's expenses.
func (s *expenseService) GetExpense(ctx context.Context, userID, id string) (*models.ExpenseWithCategory, error) {
	expense, err := s.store.Current().GetExpense(ctx, userID, id)
	if err != nil {
		return nil, mapStorageErr(err, apperrors.ErrExpenseNotFound)
	}
	return expense, nil
}

// CreateExpense stores a new expense. When no category is given the AI client
// suggests one by name; a suggestion that matches no stored category leaves the
// expense uncategorized.
func (s *expenseService) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.ExpenseWithCategory, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := validateExpense(in.Amount, in.Description, in.Date, in.PaymentMethod); err != nil {
		return nil, err
	}

	backend := s.store.Current()

	var category *models.Category
	if in.CategoryID != nil && *in.CategoryID != "" {
		c, err := backend.GetCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, mapStorageErr(err, apperrors.ErrCategoryNotFound)
		}
		category = c
	} else {
		category = s.categorize(ctx, backend, in.Description, in.Amount)
	}

	expense := models.Expense{
		UserID:        userID,
		Amount:        in.Amount,
		Description:   in.Description,
		Date:          in.Date,
		PaymentMethod: in.PaymentMethod,
	}
	if category != nil {
		id := category.ID
		expense.CategoryID = &id
	}

	created, err := backend.CreateExpense(ctx, expense)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := created.WithCategory(category)
	s.publish(userID, "created", result)
	return &result, nil
}

// UpdateExpense applies a partial update. A CategoryID of "" clears the category.
func (s *expenseService) UpdateExpense(ctx context.Context, userID, id string, upd models.ExpenseUpdate) (*models.ExpenseWithCategory, error) {
	if upd.Amount != nil {
		if err := validateAmount("amount", *upd.Amount); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		trimmed := strings.TrimSpace(*upd.Description)
		if trimmed == "" {
			return nil, invalid("description must not be empty")
		}
		upd.Description = &trimmed
	}
	if upd.Date != nil {
		if err := validateDate("date", *upd.Date); err != nil {
			return nil, err
		}
	}
	if upd.PaymentMethod != nil && !upd.PaymentMethod.IsValid() {
		return nil, invalid("unsupported payment method")
	}

	backend := s.store.Current()

	var category *models.Category
	if upd.CategoryID != nil && *upd.CategoryID != "" {
		c, err := backend.GetCategory(ctx, *upd.CategoryID)
		if err != nil {
			return nil, mapStorageErr(err, apperrors.ErrCategoryNotFound)
		}
		category = c
	}

	updated, err := backend.UpdateExpense(ctx, userID, id, upd)
	if err != nil {
		return nil, mapStorageErr(err, apperrors.ErrExpenseNotFound)
	}

	if category == nil && updated.CategoryID != nil {
		c, err := backend.GetCategory(ctx, *updated.CategoryID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.Warnw("failed to resolve expense category", "expense_id", id, "error", err)
		}
		category = c
	}

	result := updated.WithCategory(category)
	s.publish(userID, "updated", result)
	return &result, nil
}

// DeleteExpense removes one of the user's expenses.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, id string) error {
	if err := s.store.Current().DeleteExpense(ctx, userID, id); err != nil {
		return mapStorageErr(err, apperrors.ErrExpenseNotFound)
	}
	s.publish(userID, "deleted", map[string]string{"id": id})
	return nil
}

// categorize asks the AI client for a category name and resolves it. A name
// that matches no stored category falls back to the keyword rules; only when
// those miss too is the expense left uncategorized.
func (s *expenseService) categorize(ctx context.Context, backend storage.Storage, description string, amount float64) *models.Category {
	categories, err := backend.GetCategories(ctx)
	if err != nil {
		s.log.Warnw("failed to load categories for categorization", "error", err)
		return nil
	}
	if len(categories) == 0 || s.ai == nil {
		return nil
	}

	suggestion := s.ai.CategorizeExpense(ctx, description, amount, categoryNames(categories))
	if category := findCategoryByName(categories, suggestion.Category); category != nil {
		return category
	}

	// The model may answer with a name outside the list; keyword rules get a second try.
	fallback := ai.FallbackCategorization(description)
	category := findCategoryByName(categories, fallback.Category)
	if category == nil {
		s.log.Infow("suggested category does not exist",
			"category", suggestion.Category,
			"fallback", fallback.Category,
		)
	}
	return category
}

func (s *expenseService) publish(userID, action string, payload any) {
	s.notifier.Publish(userID, notify.TypeExpenseUpdate, map[string]any{"action": action, "expense": payload})
	s.notifier.Publish(userID, notify.TypeAnalyticsUpdate, nil)
}

func validateExpense(amount float64, description, date string, method models.PaymentMethod) error {
	if err := validateAmount("amount", amount); err != nil {
		return err
	}
	if description == "" {
		return invalid("description is required")
	}
	if err := validateDate("date", date); err != nil {
		return err
	}
	if !method.IsValid() {
		return invalid("unsupported payment method")
	}
	return nil
}

func validateRange(start, end string) error {
	if err := validateDate("startDate", start); err != nil {
		return err
	}
	if err := validateDate("endDate", end); err != nil {
		return err
	}
	if start > end {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}
