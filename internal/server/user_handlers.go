package server

import (
	"chirper/internal/models"
	"chirper/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type createUserResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// CreateUser handles user registration
// @Summary Create a user
// @Description Register a user account and return an access token for it
// @Tags users
// @Accept json
// @Produce json
// @Param request body createUserRequest true "User"
// @Success 200 {object} models.Envelope{data=createUserResponse}
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondWithError(c, models.NewBadRequestError("malformed body"))
	}

	user, token, err := s.userService.CreateUser(c.UserContext(), service.CreateUserInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return s.respondWithError(c, err)
	}
	return models.RespondWithData(c, createUserResponse{User: user, AccessToken: token})
}

// GetUser returns a user profile.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 404 {object} models.Envelope
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return s.respondWithError(c, err)
	}
	return models.RespondWithData(c, user)
}
