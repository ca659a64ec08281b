package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"finsight/internal/models"
	"finsight/internal/storage"
)

func (s *Store) GetInsights(ctx context.Context, userID string, limit int) ([]models.Insight, error) {
	out := []models.Insight{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.insights.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		s.readFailed("GetInsights", err, "user_id", userID)
		return out, nil
	}
	var docs []insightDoc
	if err := cur.All(ctx, &docs); err != nil {
		s.readFailed("GetInsights", err, "user_id", userID)
		return out, nil
	}
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) CreateInsight(ctx context.Context, insight models.Insight) (*models.Insight, error) {
	doc := insightDoc{
		UserID:      insight.UserID,
		Type:        insight.Type,
		Title:       insight.Title,
		Description: insight.Description,
		Priority:    insight.Priority,
		IsRead:      flexBool(insight.IsRead),
		CreatedAt:   s.now(),
	}
	res, err := s.insights.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	in := doc.model()
	return &in, nil
}

func (s *Store) MarkInsightRead(ctx context.Context, userID, id string) (*models.Insight, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	var doc insightDoc
	filter := bson.M{"_id": oid, "userId": userID}
	if err := s.insights.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"isRead": true}}, afterUpdate()).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	in := doc.model()
	return &in, nil
}

func (s *Store) ClearInsights(ctx context.Context, userID string) error {
	_, err := s.insights.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}
