package services

import (
	"context"
	"testing"

	"github.com/gamework/recognition-backend/internal/config"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return cfg
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cfg := testAuthConfig()
	auth := NewAuthService(env.store.Users(), cfg)

	_, err := env.users.CreateUser(ctx, env.admin.ID, &models.CreateUserRequest{
		Name:     "Demo User",
		Email:    "demo@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	resp, err := auth.Login(ctx, &models.LoginRequest{Email: "demo@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "demo@example.com", resp.User.Email)

	claims, err := utils.ValidateJWT(resp.Token, cfg)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.Hex(), claims["sub"])
	assert.Equal(t, false, claims["admin"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := NewAuthService(env.store.Users(), testAuthConfig())

	_, err := env.users.CreateUser(ctx, env.admin.ID, &models.CreateUserRequest{
		Name:     "Demo User",
		Email:    "demo@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &models.LoginRequest{Email: "demo@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.store.Users(), testAuthConfig())

	_, err := auth.Login(context.Background(), &models.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
