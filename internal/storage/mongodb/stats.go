package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"finsight/internal/models"
	"finsight/internal/storage"
)

type groupRow struct {
	Key    *string `bson:"_id"`
	Amount float64 `bson:"amount"`
}

// GetExpenseStats aggregates in the database: one pipeline for the total, one
// grouped by category id and one grouped by date.
func (s *Store) GetExpenseStats(ctx context.Context, userID, start, end string) (*models.ExpenseStats, error) {
	match := bson.D{{Key: "$match", Value: bson.D{
		{Key: "userId", Value: userID},
		{Key: "date", Value: bson.D{{Key: "$gte", Value: start}, {Key: "$lte", Value: end}}},
	}}}
	sum := bson.D{{Key: "$sum", Value: "$amount"}}

	totalRows, err := s.aggregate(ctx, mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: nil}, {Key: "amount", Value: sum}}}},
	})
	if err != nil {
		return s.emptyStats("total", err, userID)
	}
	categoryRows, err := s.aggregate(ctx, mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$categoryId"}, {Key: "amount", Value: sum}}}},
		{{Key: "$sort", Value: bson.D{{Key: "amount", Value: -1}}}},
	})
	if err != nil {
		return s.emptyStats("category", err, userID)
	}
	dateRows, err := s.aggregate(ctx, mongo.Pipeline{
		match,
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$date"}, {Key: "amount", Value: sum}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return s.emptyStats("date", err, userID)
	}

	var summary storage.ExpenseSummary
	if len(totalRows) > 0 {
		summary.Total = totalRows[0].Amount
	}
	for _, r := range categoryRows {
		ct := storage.CategoryTotal{Amount: r.Amount}
		if r.Key != nil {
			ct.CategoryID = *r.Key
		}
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	for _, r := range dateRows {
		if r.Key == nil {
			continue
		}
		summary.ByDate = append(summary.ByDate, models.DailyAmount{Date: *r.Key, Amount: r.Amount})
	}

	categories, _ := s.GetCategories(ctx)
	return storage.BuildStats(summary, storage.CategoryIndex(categories)), nil
}

func (s *Store) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]groupRow, error) {
	cur, err := s.expenses.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []groupRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) emptyStats(stage string, err error, userID string) (*models.ExpenseStats, error) {
	s.readFailed("GetExpenseStats", err, "stage", stage, "user_id", userID)
	stats := models.EmptyStats()
	return &stats, nil
}
