package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"finsight/internal/models"
)

// Documents mirror the models with ObjectID keys. Foreign references (userId,
// categoryId) are stored as hex strings so a dangling id is just a string.

type userDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Username         string             `bson:"username"`
	Email            *string            `bson:"email,omitempty"`
	FirstName        string             `bson:"firstName"`
	LastName         string             `bson:"lastName"`
	Password         string             `bson:"password"`
	Avatar           *string            `bson:"avatar,omitempty"`
	RefreshTokenHash string             `bson:"refreshTokenHash,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:               d.ID.Hex(),
		Username:         d.Username,
		Email:            d.Email,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Password:         d.Password,
		Avatar:           d.Avatar,
		RefreshTokenHash: d.RefreshTokenHash,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type categoryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Color     string             `bson:"color"`
	Icon      string             `bson:"icon,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d categoryDoc) model() models.Category {
	return models.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Color:     d.Color,
		Icon:      d.Icon,
		CreatedAt: d.CreatedAt,
	}
}

type expenseDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	UserID        string               `bson:"userId"`
	CategoryID    *string              `bson:"categoryId"`
	Amount        float64              `bson:"amount"`
	Description   string               `bson:"description"`
	Date          string               `bson:"date"`
	PaymentMethod models.PaymentMethod `bson:"paymentMethod"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d expenseDoc) model() models.Expense {
	return models.Expense{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		CategoryID:    d.CategoryID,
		Amount:        d.Amount,
		Description:   d.Description,
		Date:          d.Date,
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type budgetDoc struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	UserID     string              `bson:"userId"`
	CategoryID *string             `bson:"categoryId"`
	Amount     float64             `bson:"amount"`
	Period     models.BudgetPeriod `bson:"period"`
	StartDate  string              `bson:"startDate"`
	EndDate    string              `bson:"endDate"`
	CreatedAt  time.Time           `bson:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt"`
}

func (d budgetDoc) model() models.Budget {
	return models.Budget{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		CategoryID: d.CategoryID,
		Amount:     d.Amount,
		Period:     d.Period,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type insightDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Type        models.InsightType `bson:"type"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Priority    models.Priority    `bson:"priority"`
	IsRead      flexBool           `bson:"isRead"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d insightDoc) model() models.Insight {
	return models.Insight{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		IsRead:      bool(d.IsRead),
		CreatedAt:   d.CreatedAt,
	}
}

type profileDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"userId"`
	MonthlyIncome float64            `bson:"monthlyIncome"`
	Currency      string             `bson:"currency"`
	Timezone      string             `bson:"timezone"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d profileDoc) model() *models.UserProfile {
	return &models.UserProfile{
		UserID:        d.UserID,
		MonthlyIncome: d.MonthlyIncome,
		Currency:      d.Currency,
		Timezone:      d.Timezone,
		UpdatedAt:     d.UpdatedAt,
	}
}

// flexBool is stored as a boolean but also decodes the legacy "true"/"false"
// strings written by earlier versions of the insights collection.
type flexBool bool

func (b flexBool) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(bool(b))
}

func (b *flexBool) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	if v, ok := raw.BooleanOK(); ok {
		*b = flexBool(v)
		return nil
	}
	if s, ok := raw.StringValueOK(); ok {
		*b = flexBool(s == "true")
		return nil
	}
	if t == bsontype.Null || t == bsontype.Undefined {
		*b = false
		return nil
	}
	return fmt.Errorf("isRead: unsupported bson type %s", t)
}
