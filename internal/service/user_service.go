package service

import (
	"context"
	"fmt"
	"strings"

	"chirper/internal/auth"
	"chirper/internal/models"
	"chirper/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
	cost     int
}

type CreateUserInput struct {
	Username string
	Name     string
	Email    string
	Password string
	Role     string
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, cost: bcrypt.DefaultCost}
}

// CreateUser registers a user and issues an access token for it.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, string, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username: strings.TrimSpace(in.Username),
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
		Role:     role,
	}
	if err := user.Validate(); err != nil {
		return nil, "", models.NewValidationError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, "", models.NewInternalError(fmt.Errorf("issue token: %w", err))
	}
	return user, token, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
