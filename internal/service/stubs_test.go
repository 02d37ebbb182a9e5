package service

import (
	"context"
	"errors"
	"testing"

	"chirper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository that counts writes.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByTweetFn func(context.Context, uint, int, int) ([]models.Comment, int64, error)
	updateLikesFn func(context.Context, *models.Comment, int) error
	deleteFn      func(context.Context, uint) error

	writes int
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	s.writes++
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByTweet(ctx context.Context, tweetID uint, limit, offset int) ([]models.Comment, int64, error) {
	return s.listByTweetFn(ctx, tweetID, limit, offset)
}
func (s *commentRepoStub) UpdateLikeCounter(ctx context.Context, comment *models.Comment, likeCounter int) error {
	s.writes++
	return s.updateLikesFn(ctx, comment, likeCounter)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	s.writes++
	return s.deleteFn(ctx, id)
}

// noopCommentRepo knows a single comment with id 1 on tweet 1.
func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 2
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			if id != 1 {
				return nil, models.NewCommentNotFoundError(id)
			}
			return &models.Comment{ID: 1, Text: "Comment1", TweetID: 1}, nil
		},
		listByTweetFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, int64, error) {
			return nil, 0, nil
		},
		updateLikesFn: func(_ context.Context, c *models.Comment, likeCounter int) error {
			c.LikeCounter = likeCounter
			return nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// tweetRepoStub is a stub for repository.TweetRepository.
type tweetRepoStub struct {
	createFn  func(context.Context, *models.Tweet) error
	getByIDFn func(context.Context, uint) (*models.Tweet, error)
	listFn    func(context.Context, int, int) ([]models.Tweet, int64, error)
}

func (s *tweetRepoStub) Create(ctx context.Context, tweet *models.Tweet) error {
	return s.createFn(ctx, tweet)
}
func (s *tweetRepoStub) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tweetRepoStub) List(ctx context.Context, limit, offset int) ([]models.Tweet, int64, error) {
	return s.listFn(ctx, limit, offset)
}

// noopTweetRepo knows a single tweet with id 1.
func noopTweetRepo() *tweetRepoStub {
	return &tweetRepoStub{
		createFn: func(_ context.Context, t *models.Tweet) error {
			t.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Tweet, error) {
			if id != 1 {
				return nil, models.NewTweetNotFoundError(id)
			}
			return &models.Tweet{ID: 1, Text: "Tweet1", UserID: 1}, nil
		},
		listFn: func(_ context.Context, _, _ int) ([]models.Tweet, int64, error) { return nil, 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn  func(context.Context, *models.User) error
	getByIDFn func(context.Context, uint) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			if id != 1 {
				return nil, models.NewUserNotFoundError(id)
			}
			return &models.User{ID: 1, Username: "user1"}, nil
		},
	}
}

// assertAppError asserts that err is an AppError with the given code and HTTP status.
func assertAppError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.HTTPStatus())
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation, 400)
}

func ptr[T any](v T) *T { return &v }
