package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"finsight/internal/models"
	"finsight/internal/storage"
)

func (s *Store) GetBudgets(ctx context.Context, userID string) ([]models.BudgetWithCategory, error) {
	return s.findBudgets(ctx, "GetBudgets", bson.M{"userId": userID}), nil
}

func (s *Store) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	var doc budgetDoc
	if err := s.budgets.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	b := doc.model()
	return &b, nil
}

func (s *Store) GetActiveBudgets(ctx context.Context, userID string, period models.BudgetPeriod, date string) ([]models.BudgetWithCategory, error) {
	filter := bson.M{
		"userId":    userID,
		"period":    period,
		"startDate": bson.M{"$lte": date},
		"endDate":   bson.M{"$gte": date},
	}
	return s.findBudgets(ctx, "GetActiveBudgets", filter), nil
}

func (s *Store) findBudgets(ctx context.Context, op string, filter bson.M) []models.BudgetWithCategory {
	out := []models.BudgetWithCategory{}
	cur, err := s.budgets.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		s.readFailed(op, err, "user_id", filter["userId"])
		return out
	}
	var docs []budgetDoc
	if err := cur.All(ctx, &docs); err != nil {
		s.readFailed(op, err, "user_id", filter["userId"])
		return out
	}
	for _, d := range docs {
		b := d.model()
		out = append(out, b.WithCategory(s.lookupCategory(ctx, b.CategoryID)))
	}
	return out
}

func (s *Store) CreateBudget(ctx context.Context, budget models.Budget) (*models.Budget, error) {
	now := s.now()
	doc := budgetDoc{
		UserID:     budget.UserID,
		CategoryID: budget.CategoryID,
		Amount:     budget.Amount,
		Period:     budget.Period,
		StartDate:  budget.StartDate,
		EndDate:    budget.EndDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res, err := s.budgets.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	b := doc.model()
	return &b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, userID, id string, upd models.BudgetUpdate) (*models.Budget, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	set := bson.M{"updatedAt": s.now()}
	if upd.CategoryID != nil {
		set["categoryId"] = nullableID(*upd.CategoryID)
	}
	if upd.Amount != nil {
		set["amount"] = *upd.Amount
	}
	if upd.Period != nil {
		set["period"] = *upd.Period
	}
	if upd.StartDate != nil {
		set["startDate"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["endDate"] = *upd.EndDate
	}

	var doc budgetDoc
	filter := bson.M{"_id": oid, "userId": userID}
	if err := s.budgets.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, afterUpdate()).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	b := doc.model()
	return &b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return storage.ErrNotFound
	}
	res, err := s.budgets.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
