package services

import (
	"context"
	"strings"
	"time"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/storage"
)

// profileService handles per-user financial settings.
type profileService struct {
	store storage.Provider
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(store storage.Provider) ProfileServicer {
	return &profileService{store: store}
}

// GetProfile returns the user's profile, or the defaults if none is stored.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.store.Current().GetUserProfile(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}

// UpdateProfile applies a partial update, creating the profile if needed.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if upd.MonthlyIncome != nil {
		if err := validateAmount("monthlyIncome", *upd.MonthlyIncome); err != nil {
			return nil, err
		}
	}
	if upd.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*upd.Currency))
		if len(currency) != 3 {
			return nil, invalid("currency must be a three-letter code")
		}
		upd.Currency = &currency
	}
	if upd.Timezone != nil {
		if _, err := time.LoadLocation(*upd.Timezone); err != nil {
			return nil, invalid("unknown timezone")
		}
	}

	profile, err := s.store.Current().UpsertUserProfile(ctx, userID, upd)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}
