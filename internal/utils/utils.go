package utils

import (
	"errors"
	"time"

	"github.com/gamework/recognition-backend/internal/config"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT issues an HS256 token for the user. The admin claim is only a
// routing hint for the presentation layer; services re-check the admin flag
// from the store on every admin operation.
func GenerateJWT(user *models.User, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"admin": user.IsAdmin,
		"exp":   time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT parses and validates a token string.
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
