package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"innoshop/internal/database"
	"innoshop/internal/user/model"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is the persistence contract the user service depends on.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetPaged(ctx context.Context, pageNumber, pageSize int) ([]*model.User, error)
	UpdateStatus(ctx context.Context, id uint, isActive bool) error
	SetEmailConfirmed(ctx context.Context, id uint, confirmed bool) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateRefreshToken(ctx context.Context, id uint, token *string, expiry *time.Time) error
}

type userRepository struct {
	db *database.Database
}

func NewUserRepository(db *database.Database) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()

	if err := r.db.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).First(&user, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetPaged(ctx context.Context, pageNumber, pageSize int) ([]*model.User, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var users []*model.User
	err := r.db.DB.WithContext(ctx).
		Order("id").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uint, isActive bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"is_active": isActive})
}

func (r *userRepository) SetEmailConfirmed(ctx context.Context, id uint, confirmed bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"email_confirmed": confirmed})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, id uint, token *string, expiry *time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"refresh_token":        token,
		"refresh_token_expiry": expiry,
	})
}

func (r *userRepository) updateColumns(ctx context.Context, id uint, columns map[string]interface{}) error {
	result := r.db.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(columns)

	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
