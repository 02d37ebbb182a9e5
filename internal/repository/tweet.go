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

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	List(ctx context.Context, limit, offset int) ([]models.Tweet, int64, error)
}

type tweetRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewTweetRepository returns a new TweetRepository implementation.
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db, log: observability.NewRepoLogger("tweets", middleware.Logger)}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.NewUserNotFoundError(tweet.UserID)
		}
		r.log.LogError(ctx, "create", err)
		return models.NewInternalError(fmt.Errorf("create tweet: %w", err))
	}
	r.log.LogWrite(ctx, "create",
		slog.Uint64("tweet_id", uint64(tweet.ID)),
		slog.Uint64("user_id", uint64(tweet.UserID)),
	)
	return nil
}

// GetByID reads through the tweet cache.
func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	if id == 0 {
		return nil, models.NewTweetNotFoundError(id)
	}

	var tweet models.Tweet
	err := cache.Aside(ctx, cache.TweetKey(id), &tweet, cache.TweetTTL, func() error {
		if err := r.db.WithContext(ctx).First(&tweet, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewTweetNotFoundError(id)
			}
			return models.NewInternalError(fmt.Errorf("get tweet %d: %w", id, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

// List returns one page of tweets, newest first, and the total tweet count.
func (r *tweetRepository) List(ctx context.Context, limit, offset int) ([]models.Tweet, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Tweet{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(fmt.Errorf("count tweets: %w", err))
	}

	tweets := make([]models.Tweet, 0, limit)
	err := r.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, models.NewInternalError(fmt.Errorf("list tweets: %w", err))
	}
	return tweets, total, nil
}
