package server

import (
	"chirper/internal/models"
	"chirper/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createTweetRequest struct {
	Text        string `json:"text"`
	LikeCounter int    `json:"likeCounter"`
	UserID      uint   `json:"userId"`
}

// CreateTweet stores a tweet. The author is taken from the body, or from the
// bearer token when the body names none.
// @Summary Create a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Param request body createTweetRequest true "Tweet"
// @Success 200 {object} models.Envelope{data=models.Tweet}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /tweets [post]
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	var req createTweetRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondWithError(c, models.NewBadRequestError("malformed body"))
	}
	if req.UserID == 0 {
		if uid, ok := c.Locals("userID").(uint); ok {
			req.UserID = uid
		}
	}

	tweet, err := s.tweetService.CreateTweet(c.UserContext(), service.CreateTweetInput{
		Text:        req.Text,
		LikeCounter: req.LikeCounter,
		UserID:      req.UserID,
	})
	if err != nil {
		return s.respondWithError(c, err)
	}
	return models.RespondWithData(c, tweet)
}

// GetTweets lists tweets, newest first.
// @Summary List tweets
// @Tags tweets
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.Envelope{data=[]models.Tweet}
// @Router /tweets [get]
func (s *Server) GetTweets(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)

	tweets, total, err := s.tweetService.ListTweets(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return models.RespondWithPage(c, tweets, page.info(total))
}

// GetTweet returns a single tweet.
// @Summary Get a tweet
// @Tags tweets
// @Produce json
// @Param id path int true "Tweet ID"
// @Success 200 {object} models.Envelope{data=models.Tweet}
// @Failure 404 {object} models.Envelope
// @Router /tweets/{id} [get]
func (s *Server) GetTweet(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tweet, err := s.tweetService.GetTweet(c.UserContext(), id)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return models.RespondWithData(c, tweet)
}
