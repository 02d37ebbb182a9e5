package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeTweetNotFound   = "TWEET_NOT_FOUND"
	CodeCommentNotFound = "COMMENT_NOT_FOUND"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
)

// Status texts returned in the envelope for each error kind.
const (
	StatusBadRequest      = "Bad request"
	StatusTweetNotFound   = "Tweet not found"
	StatusCommentNotFound = "Comment not found"
	StatusUserNotFound    = "User not found"
	StatusInternal        = "Internal server error"
)

// AppError represents a custom application error. Message doubles as the
// envelope status text. Status, when non-zero, overrides the HTTP status
// derived from Code.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithStatus returns a copy of the error answering with the given HTTP status.
func (e *AppError) WithStatus(status int) *AppError {
	cp := *e
	cp.Status = status
	return &cp
}

// HTTPStatus maps the error to the HTTP status the API answers with.
func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return fiber.StatusBadRequest
	case CodeTweetNotFound, CodeCommentNotFound, CodeUserNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// NewBadRequestError reports a malformed or incomplete payload.
func NewBadRequestError(reason string) *AppError {
	var err error
	if reason != "" {
		err = errors.New(reason)
	}
	return &AppError{Code: CodeBadRequest, Message: StatusBadRequest, Err: err}
}

// NewValidationError reports a payload rejected by struct validation.
func NewValidationError(err error) *AppError {
	return &AppError{Code: CodeValidation, Message: StatusBadRequest, Err: err}
}

// NewTweetNotFoundError reports a tweet id with no matching row.
func NewTweetNotFoundError(id any) *AppError {
	return &AppError{Code: CodeTweetNotFound, Message: StatusTweetNotFound, Err: fmt.Errorf("tweet %v", id)}
}

// NewCommentNotFoundError reports a comment id with no matching row.
func NewCommentNotFoundError(id any) *AppError {
	return &AppError{Code: CodeCommentNotFound, Message: StatusCommentNotFound, Err: fmt.Errorf("comment %v", id)}
}

// NewUserNotFoundError reports a user id with no matching row.
func NewUserNotFoundError(id any) *AppError {
	return &AppError{Code: CodeUserNotFound, Message: StatusUserNotFound, Err: fmt.Errorf("user %v", id)}
}

// NewConflictError reports a uniqueness clash.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: StatusInternal, Err: err}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// RespondWithError writes err as an envelope. Errors that are not AppErrors
// are reported as internal errors without leaking their text.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}
	return c.Status(appErr.HTTPStatus()).JSON(Envelope{Status: appErr.Message})
}
