package services

import (
	"context"
	"errors"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/config"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"github.com/gamework/recognition-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login attempt. The message
// never reveals whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService verifies credentials and issues JWTs.
type AuthService struct {
	users repositories.UserRepository
	cfg   *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
	}
}

// Login checks the email/password pair and returns a signed token plus the
// authenticated profile.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user, s.cfg)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}
