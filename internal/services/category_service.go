package services

import (
	"context"
	"strings"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/storage"
	"finsight/internal/validator"
)

// categoryService handles category-related business logic. Categories are
// shared by all users.
type categoryService struct {
	store storage.Provider
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store storage.Provider) CategoryServicer {
	return &categoryService{store: store}
}

// GetCategories returns every category.
func (s *categoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Current().GetCategories(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// CreateCategory creates a category. Names are unique ignoring case.
func (s *categoryService) CreateCategory(ctx context.Context, name, color, icon string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("category name is required")
	}
	if !validator.IsHexColor(color) {
		return nil, invalid("color must be a #rrggbb hex value")
	}

	backend := s.store.Current()
	existing, err := backend.GetCategories(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if findCategoryByName(existing, name) != nil {
		return nil, invalid("a category with this name already exists")
	}

	category, err := backend.CreateCategory(ctx, models.Category{Name: name, Color: color, Icon: icon})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategory applies a partial update.
func (s *categoryService) UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return nil, invalid("category name must not be empty")
		}
		upd.Name = &trimmed
	}
	if upd.Color != nil && !validator.IsHexColor(*upd.Color) {
		return nil, invalid("color must be a #rrggbb hex value")
	}

	category, err := s.store.Current().UpdateCategory(ctx, id, upd)
	if err != nil {
		return nil, mapStorageErr(err, apperrors.ErrCategoryNotFound)
	}
	return category, nil
}

// DeleteCategory removes a category. Expenses and budgets that reference it are
// left alone and render as Uncategorized afterwards.
func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	return mapStorageErr(s.store.Current().DeleteCategory(ctx, id), apperrors.ErrCategoryNotFound)
}
