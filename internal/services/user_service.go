package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "finsight/internal/errors"
	"finsight/internal/models"
	"finsight/internal/storage"
)

// userService handles user-related business logic.
type userService struct {
	store storage.Provider
}

// NewUserService creates a new UserServicer.
func NewUserService(store storage.Provider) UserServicer {
	return &userService{store: store}
}

// Register creates a user with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, username, password, firstName, lastName string, email *string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}

	backend := s.store.Current()

	if _, err := backend.GetUserByUsername(ctx, username); err == nil {
		return nil, apperrors.ErrDuplicateUsername
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user, err := backend.CreateUser(ctx, models.User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  string(hashedPassword),
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, apperrors.ErrDuplicateUsername
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// Authenticate checks the credentials and returns the user. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Current().GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.Current().GetUser(ctx, id)
	if err != nil {
		return nil, mapStorageErr(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// UpdateUser applies a partial update. A new password is hashed before storing.
func (s *userService) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, invalid("password must not be empty")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		h := string(hashed)
		upd.Password = &h
	}
	// Token hashes are only written through StoreRefreshTokenHash.
	upd.RefreshTokenHash = nil

	user, err := s.store.Current().UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, mapStorageErr(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// StoreRefreshTokenHash saves the SHA-256 hash of the user's current refresh
// token. An empty hash revokes it.
func (s *userService) StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error {
	_, err := s.store.Current().UpdateUser(ctx, userID, models.UserUpdate{RefreshTokenHash: &tokenHash})
	return mapStorageErr(err, apperrors.ErrUserNotFound)
}

// GetRefreshTokenHash returns the stored refresh token hash for a user.
func (s *userService) GetRefreshTokenHash(ctx context.Context, userID string) (string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}
