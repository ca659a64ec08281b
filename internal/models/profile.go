package models

import "time"

// Profile defaults applied when a user has not saved a profile yet.
const (
	DefaultMonthlyIncome = 50000
	DefaultCurrency      = "INR"
	DefaultTimezone      = "Asia/Kolkata"
)

// UserProfile holds per-user financial settings.
type UserProfile struct {
	UserID        string    `json:"userId"`
	MonthlyIncome float64   `json:"monthlyIncome"`
	Currency      string    `json:"currency"`
	Timezone      string    `json:"timezone"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DefaultProfile returns the profile used for users without a stored one.
func DefaultProfile(userID string) UserProfile {
	return UserProfile{
		UserID:        userID,
		MonthlyIncome: DefaultMonthlyIncome,
		Currency:      DefaultCurrency,
		Timezone:      DefaultTimezone,
	}
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	MonthlyIncome *float64
	Currency      *string
	Timezone      *string
}

// ApplyTo copies the set fields onto p.
func (upd ProfileUpdate) ApplyTo(p *UserProfile) {
	if upd.MonthlyIncome != nil {
		p.MonthlyIncome = *upd.MonthlyIncome
	}
	if upd.Currency != nil {
		p.Currency = *upd.Currency
	}
	if upd.Timezone != nil {
		p.Timezone = *upd.Timezone
	}
}
