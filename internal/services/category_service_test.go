package services

import (
	"context"
	"testing"

	"finsight/internal/models"
	"finsight/internal/testutil"
)

func TestGetCategories_Defaults(t *testing.T) {
	_, provider := testutil.SetupTestStore()
	svc := NewCategoryService(provider)

	categories, err := svc.GetCategories(context.Background())
	testutil.AssertNoError(t, err)
	if len(categories) != 8 {
		t.Errorf("expected 8 default categories, got %d", len(categories))
	}
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		_, provider := testutil.SetupTestStore()
		svc := NewCategoryService(provider)

		cat, err := svc.CreateCategory(ctx, "  Groceries ", "#22c55e", "🛒")
		testutil.AssertNoError(t, err)
		if cat.ID == "" {
			t.Fatal("expected generated category ID")
		}
		if cat.Name != "Groceries" {
			t.Errorf("expected trimmed name Groceries, got %q", cat.Name)
		}
	})

	t.Run("duplicate_name_ignores_case", func(t *testing.T) {
		_, provider := testutil.SetupTestStore()
		svc := NewCategoryService(provider)

		_, err := svc.CreateCategory(ctx, "food & dining", "#22c55e", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_color", func(t *testing.T) {
		_, provider := testutil.SetupTestStore()
		svc := NewCategoryService(provider)

		_, err := svc.CreateCategory(ctx, "Pets", "red", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_name", func(t *testing.T) {
		_, provider := testutil.SetupTestStore()
		svc := NewCategoryService(provider)

		_, err := svc.CreateCategory(ctx, "", "#22c55e", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	store, provider := testutil.SetupTestStore()
	svc := NewCategoryService(provider)
	cat := testutil.CreateTestCategory(t, store)

	updated, err := svc.UpdateCategory(ctx, cat.ID, models.CategoryUpdate{Color: strPtr("#000000")})
	testutil.AssertNoError(t, err)
	if updated.Color != "#000000" || updated.Name != cat.Name {
		t.Errorf("unexpected category after update: %+v", updated)
	}

	_, err = svc.UpdateCategory(ctx, cat.ID, models.CategoryUpdate{Color: strPtr("#00")})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.UpdateCategory(ctx, "missing", models.CategoryUpdate{Name: strPtr("X")})
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestDeleteCategory_DoesNotCascade(t *testing.T) {
	ctx := context.Background()
	store, provider := testutil.SetupTestStore()
	svc := NewCategoryService(provider)
	user := testutil.CreateTestUser(t, store)
	cat := testutil.CreateTestCategory(t, store)
	expense := testutil.CreateTestExpense(t, store, user.ID, 100, "2024-03-10", &cat.ID)

	testutil.AssertNoError(t, svc.DeleteCategory(ctx, cat.ID))

	got, err := store.GetExpense(ctx, user.ID, expense.ID)
	testutil.AssertNoError(t, err)
	if got.CategoryName != models.UncategorizedName {
		t.Errorf("expected %q after category deletion, got %q", models.UncategorizedName, got.CategoryName)
	}

	err = svc.DeleteCategory(ctx, cat.ID)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}
