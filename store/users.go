package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clearwater/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schema.User{}, ErrUserNotFound
		}
		slog.Error("error retrieving user", "error", err)
		return schema.User{}, ErrStoreFailed
	}
	return user, nil
}

// Upsert creates a user keyed on email. An existing account is left
// unchanged so re-running the seed never rotates a password.
func (s *UserStore) Upsert(ctx context.Context, email, name string, passwordHash []byte, isAdmin bool) (schema.User, error) {
	user := schema.User{
		Id:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&user).Error
	if err != nil {
		slog.Error("error upserting user", "error", err)
		return schema.User{}, ErrStoreFailed
	}

	return s.GetByEmail(ctx, email)
}
