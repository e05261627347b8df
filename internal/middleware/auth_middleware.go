package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gamework/recognition-backend/internal/config"
	"github.com/gamework/recognition-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Context keys set by JWTAuthMiddleware for downstream handlers.
const (
	ContextUserID  = "userID"
	ContextEmail   = "userEmail"
	ContextIsAdmin = "isAdmin"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
func JWTAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	if cfg.JWT.Secret == "" {
		log.Fatal("JWTAuthMiddleware: JWT secret is not configured")
	}

	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := utils.ValidateJWT(authHeader[len(bearerSchema):], cfg)
		if err != nil {
			log.WithError(err).Warn("token validation failed")
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		c.Set(ContextUserID, sub)
		c.Set(ContextEmail, claims["email"])
		if admin, ok := claims["admin"].(bool); ok {
			c.Set(ContextIsAdmin, admin)
		}
		c.Next()
	}
}
