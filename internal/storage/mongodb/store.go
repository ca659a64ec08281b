// Package mongodb is the durable storage backend. Ids are ObjectIDs in the
// database and hex strings everywhere else; an id that is not valid hex is
// treated as not found.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"finsight/internal/logger"
	"finsight/internal/models"
	"finsight/internal/storage"
)

// Name is the backend identifier reported by Storage.Name.
const Name = "mongodb"

// Collection names.
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	ExpensesCollection   = "expenses"
	BudgetsCollection    = "budgets"
	InsightsCollection   = "insights"
	ProfilesCollection   = "profiles"
)

// Store implements storage.Storage against a MongoDB database. Listing and
// analytics reads degrade to empty results on failure; writes return the error.
type Store struct {
	users      *mongo.Collection
	categories *mongo.Collection
	expenses   *mongo.Collection
	budgets    *mongo.Collection
	insights   *mongo.Collection
	profiles   *mongo.Collection

	log *zap.SugaredLogger
	now func() time.Time
}

var _ storage.Storage = (*Store)(nil)

// New returns a Store bound to db.
func New(db *mongo.Database) *Store {
	return &Store{
		users:      db.Collection(UsersCollection),
		categories: db.Collection(CategoriesCollection),
		expenses:   db.Collection(ExpensesCollection),
		budgets:    db.Collection(BudgetsCollection),
		insights:   db.Collection(InsightsCollection),
		profiles:   db.Collection(ProfilesCollection),
		log:        logger.Named("mongodb"),
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Name implements storage.Storage.
func (s *Store) Name() string { return Name }

// SeedDefaultCategories inserts the default categories if the collection is empty.
func (s *Store) SeedDefaultCategories(ctx context.Context) error {
	n, err := s.categories.CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	now := s.now()
	docs := make([]interface{}, 0, 8)
	for _, c := range storage.DefaultCategories() {
		docs = append(docs, categoryDoc{Name: c.Name, Color: c.Color, Icon: c.Icon, CreatedAt: now})
	}
	if _, err := s.categories.InsertMany(ctx, docs); err != nil {
		return err
	}
	s.log.Infow("seeded default categories", "count", len(docs))
	return nil
}

// readFailed logs a degraded read.
func (s *Store) readFailed(op string, err error, kv ...interface{}) {
	s.log.Warnw("read failed, returning empty result", append([]interface{}{"op", op, "error", err}, kv...)...)
}

func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// findOneErr maps the driver's no-documents error to storage.ErrNotFound.
func findOneErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return err
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// Users

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	return doc.model(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	return doc.model(), nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if _, err := s.GetUserByUsername(ctx, user.Username); err == nil {
		return nil, storage.ErrDuplicate
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	doc := userDoc{
		Username:         user.Username,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Password:         user.Password,
		Avatar:           user.Avatar,
		RefreshTokenHash: user.RefreshTokenHash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, storage.ErrDuplicate
		}
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.model(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	set := bson.M{"updatedAt": s.now()}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}
	if upd.Password != nil {
		set["password"] = *upd.Password
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	if upd.RefreshTokenHash != nil {
		set["refreshTokenHash"] = *upd.RefreshTokenHash
	}

	var doc userDoc
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(&doc)
	if err != nil {
		return nil, findOneErr(err)
	}
	return doc.model(), nil
}

// Categories

func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetCollation(&options.Collation{Locale: "en", Strength: 2})
	cur, err := s.categories.Find(ctx, bson.D{}, opts)
	if err != nil {
		s.readFailed("GetCategories", err)
		return out, nil
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		s.readFailed("GetCategories", err)
		return out, nil
	}
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	var doc categoryDoc
	if err := s.categories.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, findOneErr(err)
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	doc := categoryDoc{Name: category.Name, Color: category.Color, Icon: category.Icon, CreatedAt: s.now()}
	res, err := s.categories.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	c := doc.model()
	return &c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Color != nil {
		set["color"] = *upd.Color
	}
	if upd.Icon != nil {
		set["icon"] = *upd.Icon
	}
	if len(set) == 0 {
		return s.GetCategory(ctx, id)
	}

	var doc categoryDoc
	err := s.categories.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(&doc)
	if err != nil {
		return nil, findOneErr(err)
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return storage.ErrNotFound
	}
	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// lookupCategory resolves a soft category reference with one query. Missing,
// malformed, and unreadable references all resolve to nil.
func (s *Store) lookupCategory(ctx context.Context, id *string) *models.Category {
	if id == nil {
		return nil
	}
	c, err := s.GetCategory(ctx, *id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warnw("category lookup failed", "category_id", *id, "error", err)
		}
		return nil
	}
	return c
}
