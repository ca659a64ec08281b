package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"finsight/internal/models"
	"finsight/internal/storage"
)

// TestPassword is the plain-text password of users created by CreateTestUser.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, s storage.Storage) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, s, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, s storage.Storage, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user, err := s.CreateUser(context.Background(), models.User{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  string(hash),
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, s storage.Storage) *models.Category {
	t.Helper()

	category, err := s.CreateCategory(context.Background(), models.Category{
		Name:  fmt.Sprintf("Test Category %d", nextID()),
		Color: "#123456",
	})
	if err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// FindCategory returns the category with the given name.
func FindCategory(t *testing.T, s storage.Storage, name string) *models.Category {
	t.Helper()

	categories, err := s.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	for _, c := range categories {
		if c.Name == name {
			return &c
		}
	}
	t.Fatalf("category %q not found", name)
	return nil
}

// CreateTestExpense creates an expense paid by UPI.
func CreateTestExpense(t *testing.T, s storage.Storage, userID string, amount float64, date string, categoryID *string) *models.Expense {
	t.Helper()

	expense, err := s.CreateExpense(context.Background(), models.Expense{
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        amount,
		Description:   fmt.Sprintf("Test Expense %d", nextID()),
		Date:          date,
		PaymentMethod: models.PaymentUPI,
	})
	if err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a budget covering [start, end].
func CreateTestBudget(t *testing.T, s storage.Storage, userID string, categoryID *string, amount float64, period models.BudgetPeriod, start, end string) *models.Budget {
	t.Helper()

	budget, err := s.CreateBudget(context.Background(), models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
