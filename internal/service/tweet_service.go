// Package service holds the application's business logic between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"chirper/internal/models"
	"chirper/internal/repository"
)

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
}

type CreateTweetInput struct {
	Text        string
	LikeCounter int
	UserID      uint
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, userRepo: userRepo}
}

func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	tweet := &models.Tweet{
		Text:        in.Text,
		LikeCounter: in.LikeCounter,
		UserID:      in.UserID,
	}
	if err := tweet.Validate(); err != nil {
		return nil, models.NewValidationError(err)
	}

	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) GetTweet(ctx context.Context, id uint) (*models.Tweet, error) {
	return s.tweetRepo.GetByID(ctx, id)
}

func (s *TweetService) ListTweets(ctx context.Context, limit, offset int) ([]models.Tweet, int64, error) {
	return s.tweetRepo.List(ctx, limit, offset)
}
