package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/storage"
)

// mapStorageErr turns a backend error into an AppError, using notFound for
// missing ids.
func mapStorageErr(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func invalid(message string) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, message)
}

func validateAmount(field string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return invalid(field + " must be a finite number")
	case v < 0:
		return invalid(field + " must not be negative")
	case v > models.MaxAmount:
		return invalid(fmt.Sprintf("%s must not exceed %.0f", field, models.MaxAmount))
	}
	return nil
}

func validateDate(field, value string) error {
	if !models.ValidDate(value) {
		return invalid(field + " must be a YYYY-MM-DD date")
	}
	return nil
}

// findCategoryByName matches name against the stored categories, ignoring case.
func findCategoryByName(categories []models.Category, name string) *models.Category {
	name = strings.TrimSpace(name)
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return &categories[i]
		}
	}
	return nil
}

func categoryNames(categories []models.Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}
