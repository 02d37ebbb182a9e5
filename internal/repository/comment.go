// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chirper/internal/database"
	"chirper/internal/middleware"
	"chirper/internal/models"
	"chirper/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByTweet(ctx context.Context, tweetID uint, limit, offset int) ([]models.Comment, int64, error)
	UpdateLikeCounter(ctx context.Context, comment *models.Comment, likeCounter int) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments", middleware.Logger)}
}

// Create inserts the comment. A comment pointing at a missing tweet yields
// a TweetNotFound error.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.NewTweetNotFoundError(comment.TweetID)
		}
		r.log.LogError(ctx, "create", err)
		return models.NewInternalError(fmt.Errorf("create comment: %w", err))
	}
	r.log.LogWrite(ctx, "create",
		slog.Uint64("comment_id", uint64(comment.ID)),
		slog.Uint64("tweet_id", uint64(comment.TweetID)),
	)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if id == 0 {
		return nil, models.NewCommentNotFoundError(id)
	}

	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewCommentNotFoundError(id)
		}
		return nil, models.NewInternalError(fmt.Errorf("get comment %d: %w", id, err))
	}
	return &comment, nil
}

// ListByTweet returns one page of a tweet's comments, oldest first, along
// with the total number of comments on the tweet.
func (r *commentRepository) ListByTweet(
	ctx context.Context,
	tweetID uint,
	limit, offset int,
) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("tweet_id = ?", tweetID).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(fmt.Errorf("count comments: %w", err))
	}

	comments := make([]models.Comment, 0, limit)
	err := r.db.WithContext(ctx).
		Where("tweet_id = ?", tweetID).
		Order("created_at asc, id asc").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(fmt.Errorf("list comments: %w", err))
	}
	return comments, total, nil
}

// UpdateLikeCounter sets the comment's like counter with a single UPDATE and
// refreshes comment in place.
func (r *commentRepository) UpdateLikeCounter(ctx context.Context, comment *models.Comment, likeCounter int) error {
	result := r.db.WithContext(ctx).Model(comment).Update("like_counter", likeCounter)
	if result.Error != nil {
		r.log.LogError(ctx, "update", result.Error)
		return models.NewInternalError(fmt.Errorf("update comment %d: %w", comment.ID, result.Error))
	}
	if result.RowsAffected == 0 {
		return models.NewCommentNotFoundError(comment.ID)
	}
	comment.LikeCounter = likeCounter
	r.log.LogWrite(ctx, "update",
		slog.Uint64("comment_id", uint64(comment.ID)),
		slog.Int("like_counter", likeCounter),
	)
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		r.log.LogError(ctx, "delete", result.Error)
		return models.NewInternalError(fmt.Errorf("delete comment %d: %w", id, result.Error))
	}
	if result.RowsAffected == 0 {
		return models.NewCommentNotFoundError(id)
	}
	r.log.LogWrite(ctx, "delete", slog.Uint64("comment_id", uint64(id)))
	return nil
}
