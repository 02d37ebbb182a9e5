package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chirper/internal/cache"
	"chirper/internal/database"
	"chirper/internal/middleware"
	"chirper/internal/models"
	"chirper/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users", middleware.Logger)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("Username or email already taken")
		}
		r.log.LogError(ctx, "create", err)
		return models.NewInternalError(fmt.Errorf("create user: %w", err))
	}
	r.log.LogWrite(ctx, "create", slog.Uint64("user_id", uint64(user.ID)))
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, models.NewUserNotFoundError(id)
	}

	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewUserNotFoundError(id)
			}
			return models.NewInternalError(fmt.Errorf("get user %d: %w", id, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
