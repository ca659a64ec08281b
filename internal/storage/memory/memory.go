// Package memory is a process-local storage backend. Collections are maps keyed
// by id and filtered by linear scan; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"finsight/internal/models"
	"finsight/internal/storage"
	"finsight/internal/uuid"
)

// Name is the backend identifier reported by Storage.Name.
const Name = "memory"

// Store implements storage.Storage in memory.
type Store struct {
	mu         sync.RWMutex
	users      map[string]models.User
	categories map[string]models.Category
	expenses   map[string]models.Expense
	budgets    map[string]models.Budget
	insights   map[string]models.Insight
	profiles   map[string]models.UserProfile

	now func() time.Time
}

var _ storage.Storage = (*Store)(nil)

// New returns an empty store seeded with the default categories.
func New() *Store {
	s := &Store{
		users:      make(map[string]models.User),
		categories: make(map[string]models.Category),
		expenses:   make(map[string]models.Expense),
		budgets:    make(map[string]models.Budget),
		insights:   make(map[string]models.Insight),
		profiles:   make(map[string]models.UserProfile),
		now:        time.Now,
	}
	for _, c := range storage.DefaultCategories() {
		c.ID = uuid.New()
		c.CreatedAt = s.now()
		s.categories[c.ID] = c
	}
	return s
}

// NewStorage is New typed for storage.NewManager.
func NewStorage() storage.Storage {
	return New()
}

// Name implements storage.Storage.
func (s *Store) Name() string { return Name }

// Users

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, storage.ErrDuplicate
		}
	}
	now := s.now()
	user.ID = uuid.New()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return &user, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	upd.ApplyTo(&u)
	u.UpdatedAt = s.now()
	s.users[id] = u
	return &u, nil
}

// Categories

func (s *Store) GetCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CreateCategory(_ context.Context, category models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category.ID = uuid.New()
	category.CreatedAt = s.now()
	s.categories[category.ID] = category
	return &category, nil
}

func (s *Store) UpdateCategory(_ context.Context, id string, upd models.CategoryUpdate) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	upd.ApplyTo(&c)
	s.categories[id] = c
	return &c, nil
}

// DeleteCategory removes the category only; expenses and budgets keep the
// dangling reference.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// Expenses

func (s *Store) GetExpenses(_ context.Context, userID string, limit int) ([]models.ExpenseWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expensesLocked(userID, limit, func(models.Expense) bool { return true }), nil
}

func (s *Store) GetExpensesByDateRange(_ context.Context, userID, start, end string) ([]models.ExpenseWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expensesLocked(userID, 0, func(e models.Expense) bool {
		return e.Date >= start && e.Date <= end
	}), nil
}

func (s *Store) expensesLocked(userID string, limit int, keep func(models.Expense) bool) []models.ExpenseWithCategory {
	var matched []models.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && keep(e) {
			matched = append(matched, e)
		}
	}
	sortExpensesNewestFirst(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]models.ExpenseWithCategory, 0, len(matched))
	for _, e := range matched {
		out = append(out, e.WithCategory(s.categoryLocked(e.CategoryID)))
	}
	return out
}

func (s *Store) GetExpense(_ context.Context, userID, id string) (*models.ExpenseWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}
	out := e.WithCategory(s.categoryLocked(e.CategoryID))
	return &out, nil
}

func (s *Store) CreateExpense(_ context.Context, expense models.Expense) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	expense.ID = uuid.New()
	expense.CreatedAt, expense.UpdatedAt = now, now
	s.expenses[expense.ID] = expense
	return &expense, nil
}

func (s *Store) UpdateExpense(_ context.Context, userID, id string, upd models.ExpenseUpdate) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}
	upd.ApplyTo(&e)
	e.UpdatedAt = s.now()
	s.expenses[id] = e
	return &e, nil
}

func (s *Store) DeleteExpense(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

// Budgets

func (s *Store) GetBudgets(_ context.Context, userID string) ([]models.BudgetWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budgetsLocked(userID, func(models.Budget) bool { return true }), nil
}

func (s *Store) GetBudget(_ context.Context, userID, id string) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &b, nil
}

func (s *Store) GetActiveBudgets(_ context.Context, userID string, period models.BudgetPeriod, date string) ([]models.BudgetWithCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budgetsLocked(userID, func(b models.Budget) bool { return b.ActiveAt(date, period) }), nil
}

func (s *Store) budgetsLocked(userID string, keep func(models.Budget) bool) []models.BudgetWithCategory {
	var matched []models.Budget
	for _, b := range s.budgets {
		if b.UserID == userID && keep(b) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	out := make([]models.BudgetWithCategory, 0, len(matched))
	for _, b := range matched {
		out = append(out, b.WithCategory(s.categoryLocked(b.CategoryID)))
	}
	return out
}

func (s *Store) CreateBudget(_ context.Context, budget models.Budget) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	budget.ID = uuid.New()
	budget.CreatedAt, budget.UpdatedAt = now, now
	s.budgets[budget.ID] = budget
	return &budget, nil
}

func (s *Store) UpdateBudget(_ context.Context, userID, id string, upd models.BudgetUpdate) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return nil, storage.ErrNotFound
	}
	upd.ApplyTo(&b)
	b.UpdatedAt = s.now()
	s.budgets[id] = b
	return &b, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

// Insights

func (s *Store) GetInsights(_ context.Context, userID string, limit int) ([]models.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Insight{}
	for _, in := range s.insights {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateInsight(_ context.Context, insight models.Insight) (*models.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	insight.ID = uuid.New()
	insight.CreatedAt = s.now()
	s.insights[insight.ID] = insight
	return &insight, nil
}

func (s *Store) MarkInsightRead(_ context.Context, userID, id string) (*models.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.insights[id]
	if !ok || in.UserID != userID {
		return nil, storage.ErrNotFound
	}
	in.IsRead = true
	s.insights[id] = in
	return &in, nil
}

func (s *Store) ClearInsights(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, in := range s.insights {
		if in.UserID == userID {
			delete(s.insights, id)
		}
	}
	return nil
}

// Profiles

func (s *Store) GetUserProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = models.DefaultProfile(userID)
	}
	return &p, nil
}

func (s *Store) UpsertUserProfile(_ context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = models.DefaultProfile(userID)
	}
	upd.ApplyTo(&p)
	p.UpdatedAt = s.now()
	s.profiles[userID] = p
	return &p, nil
}

// Analytics

func (s *Store) GetExpenseStats(_ context.Context, userID, start, end string) (*models.ExpenseStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		all = append(all, e)
	}
	summary := storage.SummarizeExpenses(all, userID, start, end)
	return storage.BuildStats(summary, s.categories), nil
}

func (s *Store) categoryLocked(id *string) *models.Category {
	if id == nil {
		return nil
	}
	c, ok := s.categories[*id]
	if !ok {
		return nil
	}
	return &c
}

func sortExpensesNewestFirst(expenses []models.Expense) {
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
}
