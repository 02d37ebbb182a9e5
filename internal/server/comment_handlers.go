package server

import (
	"chirper/internal/models"
	"chirper/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HandleComments creates, deletes or likes a comment depending on which
// fields the body carries.
// @Summary Create, delete or like a comment
// @Description Body with tweetId and text creates a comment. commentId with likeCounter sets the like counter. commentId alone, or the legacy id field, deletes the comment. An explicit kind field (create, delete, like) overrides the inference.
// @Tags comments
// @Accept json
// @Produce json
// @Param request body service.CommentPayload true "Comment operation"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 429 {object} models.Envelope
// @Router /comments [post]
func (s *Server) HandleComments(c *fiber.Ctx) error {
	var payload service.CommentPayload
	if err := c.BodyParser(&payload); err != nil {
		return s.respondWithError(c, models.NewBadRequestError("malformed body"))
	}

	result, err := s.commentService.Handle(c.UserContext(), payload)
	if err != nil {
		return s.respondWithError(c, err)
	}

	s.publishCommentEvent(c, result)
	return models.RespondWithData(c, result.Data)
}

// GetComment returns a single comment.
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.Envelope{data=models.Comment}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /comments/{commentId} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return models.RespondWithData(c, comment)
}

// GetTweetComments lists a tweet's comments, oldest first.
// @Summary List comments of a tweet
// @Tags comments
// @Produce json
// @Param id path int true "Tweet ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.Envelope{data=[]models.Comment}
// @Failure 404 {object} models.Envelope
// @Router /tweets/{id}/comments [get]
func (s *Server) GetTweetComments(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPaginationLimit)

	comments, total, err := s.commentService.ListComments(c.UserContext(), tweetID, page.Limit, page.Offset)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return models.RespondWithPage(c, comments, page.info(total))
}
