package models

import "time"

// User is a registered account holder. Password holds a bcrypt hash.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            *string   `json:"email,omitempty"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Password         string    `json:"-"`
	Avatar           *string   `json:"avatar,omitempty"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	Email            *string
	FirstName        *string
	LastName         *string
	Password         *string
	Avatar           *string
	RefreshTokenHash *string
}

// ApplyTo copies the set fields onto u.
func (upd UserUpdate) ApplyTo(u *User) {
	if upd.Email != nil {
		u.Email = upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Avatar != nil {
		u.Avatar = upd.Avatar
	}
	if upd.RefreshTokenHash != nil {
		u.RefreshTokenHash = *upd.RefreshTokenHash
	}
}
