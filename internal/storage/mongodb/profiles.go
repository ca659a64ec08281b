package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"finsight/internal/models"
)

// GetUserProfile returns the stored profile, or the defaults when none is
// stored or the read fails.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var doc profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.readFailed("GetUserProfile", err, "user_id", userID)
		}
		p := models.DefaultProfile(userID)
		return &p, nil
	}
	return doc.model(), nil
}

func (s *Store) UpsertUserProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	var current profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"userId": userID}).Decode(&current)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	profile := models.DefaultProfile(userID)
	if err == nil {
		profile = *current.model()
	}
	upd.ApplyTo(&profile)
	profile.UpdatedAt = s.now()

	doc := profileDoc{
		UserID:        userID,
		MonthlyIncome: profile.MonthlyIncome,
		Currency:      profile.Currency,
		Timezone:      profile.Timezone,
		UpdatedAt:     profile.UpdatedAt,
	}
	if _, err := s.profiles.ReplaceOne(ctx, bson.M{"userId": userID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return nil, err
	}
	return &profile, nil
}
