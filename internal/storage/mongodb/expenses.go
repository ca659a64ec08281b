package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"finsight/internal/models"
	"finsight/internal/storage"
)

var newestFirst = bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}

func (s *Store) GetExpenses(ctx context.Context, userID string, limit int) ([]models.ExpenseWithCategory, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.findExpenses(ctx, "GetExpenses", bson.M{"userId": userID}, opts), nil
}

func (s *Store) GetExpensesByDateRange(ctx context.Context, userID, start, end string) ([]models.ExpenseWithCategory, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": start, "$lte": end},
	}
	return s.findExpenses(ctx, "GetExpensesByDateRange", filter, options.Find().SetSort(newestFirst)), nil
}

// findExpenses runs the query and resolves each row's category with its own lookup.
func (s *Store) findExpenses(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) []models.ExpenseWithCategory {
	out := []models.ExpenseWithCategory{}
	cur, err := s.expenses.Find(ctx, filter, opts)
	if err != nil {
		s.readFailed(op, err, "user_id", filter["userId"])
		return out
	}
	var docs []expenseDoc
	if err := cur.All(ctx, &docs); err != nil {
		s.readFailed(op, err, "user_id", filter["userId"])
		return out
	}
	for _, d := range docs {
		e := d.model()
		out = append(out, e.WithCategory(s.lookupCategory(ctx, e.CategoryID)))
	}
	return out
}

func (s *Store) GetExpense(ctx context.Context, userID, id string) (*models.ExpenseWithCategory, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	var doc expenseDoc
	if err := s.expenses.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	e := doc.model()
	out := e.WithCategory(s.lookupCategory(ctx, e.CategoryID))
	return &out, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense models.Expense) (*models.Expense, error) {
	now := s.now()
	doc := expenseDoc{
		UserID:        expense.UserID,
		CategoryID:    expense.CategoryID,
		Amount:        expense.Amount,
		Description:   expense.Description,
		Date:          expense.Date,
		PaymentMethod: expense.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	res, err := s.expenses.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	e := doc.model()
	return &e, nil
}

func (s *Store) UpdateExpense(ctx context.Context, userID, id string, upd models.ExpenseUpdate) (*models.Expense, error) {
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
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.PaymentMethod != nil {
		set["paymentMethod"] = *upd.PaymentMethod
	}

	var doc expenseDoc
	filter := bson.M{"_id": oid, "userId": userID}
	if err := s.expenses.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, afterUpdate()).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	e := doc.model()
	return &e, nil
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return storage.ErrNotFound
	}
	res, err := s.expenses.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// nullableID stores an empty category id as null.
func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}
