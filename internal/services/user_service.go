package services

import (
	"context"
	"fmt"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles roster management. Accounts are provisioned by admins;
// there is no self-registration.
type UserService struct {
	users repositories.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// GetAllUsers returns the roster (admin view).
func (s *UserService) GetAllUsers(ctx context.Context, actorID primitive.ObjectID) ([]*models.User, error) {
	if err := requireAdmin(ctx, s.users, actorID, "listUsers"); err != nil {
		return nil, err
	}
	return s.users.FindAll(ctx)
}

// CreateUser provisions a roster entry with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, actorID primitive.ObjectID, req *models.CreateUserRequest) (*models.User, error) {
	if err := requireAdmin(ctx, s.users, actorID, "createUser"); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: user with email %q already exists", apperr.ErrConflict, req.Email)
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Department:   req.Department,
		AvatarURL:    req.AvatarURL,
		IsAdmin:      req.IsAdmin,
		PasswordHash: string(hash),
		Points:       0,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser rewrites a user's profile fields. The materialized points field
// is owned by the ledger and is deliberately not touched here.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	if err := requireAdmin(ctx, s.users, actorID, "updateUser"); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = req.Name
	user.Department = req.Department
	user.AvatarURL = req.AvatarURL
	user.IsAdmin = req.IsAdmin
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a roster entry.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id primitive.ObjectID) error {
	if err := requireAdmin(ctx, s.users, actorID, "deleteUser"); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// GetUserCount gets the total number of users
func (s *UserService) GetUserCount(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
