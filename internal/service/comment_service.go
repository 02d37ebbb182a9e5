package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"chirper/internal/models"
	"chirper/internal/observability"
	"chirper/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Intent is the operation a POST /comments payload asks for.
type Intent string

const (
	IntentCreate Intent = "create"
	IntentDelete Intent = "delete"
	IntentLike   Intent = "like"
)

// CommentPayload is the body of POST /comments. Fields that are absent or
// JSON null decode to nil.
type CommentPayload struct {
	Text        *string `json:"text"`
	LikeCounter *int    `json:"likeCounter"`
	TweetID     *int64  `json:"tweetId"`
	CommentID   *int64  `json:"commentId"`
	ID          *int64  `json:"id"`
	Kind        *string `json:"kind"`
}

// CommentResult is the outcome of a handled payload. Data is the response
// body; Comment is the record that was written.
type CommentResult struct {
	Intent  Intent
	Data    any
	Comment *models.Comment
}

type CommentService struct {
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
}

type CreateCommentInput struct {
	Text        string
	LikeCounter int
	TweetID     int64
}

// DeleteCommentInput identifies the comment to delete. ByLegacyID is set when
// the caller named the comment with the id field instead of commentId.
type DeleteCommentInput struct {
	CommentID  int64
	ByLegacyID bool
}

type LikeCommentInput struct {
	CommentID   int64
	LikeCounter int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// ResolveIntent picks the operation for p. An explicit kind wins; otherwise
// the intent is inferred from which keys are present.
func ResolveIntent(p CommentPayload) (Intent, error) {
	if p.Kind != nil {
		switch kind := Intent(strings.ToLower(strings.TrimSpace(*p.Kind))); kind {
		case IntentCreate, IntentDelete, IntentLike:
			return kind, nil
		default:
			return "", models.NewBadRequestError(fmt.Sprintf("unknown kind %q", *p.Kind))
		}
	}

	switch {
	case p.TweetID != nil && p.CommentID == nil:
		return IntentCreate, nil
	case p.CommentID != nil && p.LikeCounter != nil:
		return IntentLike, nil
	case p.CommentID != nil:
		return IntentDelete, nil
	case p.ID != nil:
		return IntentDelete, nil
	default:
		return "", models.NewBadRequestError("payload matches no comment operation")
	}
}

// Handle resolves the payload's intent and runs it.
func (s *CommentService) Handle(ctx context.Context, p CommentPayload) (res *CommentResult, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService.Handle")
	defer span.End()

	intent, err := ResolveIntent(p)
	defer func() {
		label := string(intent)
		if label == "" {
			label = "unknown"
		}
		outcome := "success"
		if err != nil {
			outcome = outcomeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		observability.CommentRequests.WithLabelValues(label, outcome).Inc()
	}()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("comment.intent", string(intent)))

	switch intent {
	case IntentCreate:
		comment, err := s.Create(ctx, CreateCommentInput{
			Text:        deref(p.Text),
			LikeCounter: deref(p.LikeCounter),
			TweetID:     deref(p.TweetID),
		})
		if err != nil {
			return nil, err
		}
		return &CommentResult{Intent: intent, Data: comment, Comment: comment}, nil

	case IntentLike:
		if p.LikeCounter == nil {
			return nil, models.NewBadRequestError("likeCounter is required")
		}
		comment, err := s.Like(ctx, LikeCommentInput{
			CommentID:   deref(p.CommentID),
			LikeCounter: *p.LikeCounter,
		})
		if err != nil {
			return nil, err
		}
		return &CommentResult{Intent: intent, Data: likedView(comment), Comment: comment}, nil

	default:
		in := DeleteCommentInput{}
		switch {
		case p.CommentID != nil:
			in.CommentID = *p.CommentID
		case p.ID != nil:
			in.CommentID = *p.ID
			in.ByLegacyID = true
		default:
			return nil, models.NewBadRequestError("commentId is required")
		}
		comment, err := s.Delete(ctx, in)
		if err != nil {
			return nil, err
		}
		return &CommentResult{Intent: intent, Data: deletedView(comment), Comment: comment}, nil
	}
}

// Create stores a new comment on an existing tweet.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewBadRequestError("text is required")
	}
	if in.LikeCounter < 0 {
		return nil, models.NewBadRequestError("likeCounter must not be negative")
	}

	tweet, err := s.tweetRepo.GetByID(ctx, toID(in.TweetID))
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:        in.Text,
		LikeCounter: in.LikeCounter,
		TweetID:     tweet.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment and returns it as it was before deletion.
func (s *CommentService) Delete(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, toID(in.CommentID))
	if err != nil {
		if in.ByLegacyID && models.IsCode(err, models.CodeCommentNotFound) {
			// Misses on the id field answer 400 "Tweet not found".
			return nil, &models.AppError{
				Code:    models.CodeTweetNotFound,
				Message: models.StatusTweetNotFound,
				Status:  http.StatusBadRequest,
				Err:     err,
			}
		}
		return nil, err
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

// Like sets the comment's like counter to the given value.
func (s *CommentService) Like(ctx context.Context, in LikeCommentInput) (*models.Comment, error) {
	if in.LikeCounter < 0 {
		return nil, models.NewBadRequestError("likeCounter must not be negative")
	}

	comment, err := s.commentRepo.GetByID(ctx, toID(in.CommentID))
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateLikeCounter(ctx, comment, in.LikeCounter); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment returns a single comment.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListComments returns one page of a tweet's comments and their total count.
func (s *CommentService) ListComments(ctx context.Context, tweetID uint, limit, offset int) ([]models.Comment, int64, error) {
	if _, err := s.tweetRepo.GetByID(ctx, tweetID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByTweet(ctx, tweetID, limit, offset)
}

func deletedView(c *models.Comment) *models.DeletedComment {
	return &models.DeletedComment{CommentID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func likedView(c *models.Comment) *models.LikedComment {
	return &models.LikedComment{
		CommentID:   c.ID,
		LikeCounter: c.LikeCounter,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// toID maps non-positive ids to 0, which repositories treat as not found.
func toID(v int64) uint {
	if v <= 0 || v > int64(^uint32(0)) {
		return 0
	}
	return uint(v)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func outcomeOf(err error) string {
	switch {
	case models.IsCode(err, models.CodeBadRequest), models.IsCode(err, models.CodeValidation):
		return "bad_request"
	case models.IsCode(err, models.CodeTweetNotFound),
		models.IsCode(err, models.CodeCommentNotFound),
		models.IsCode(err, models.CodeUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
