package handlers

import (
	"errors"
	"net/http"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/middleware"
	"github.com/gamework/recognition-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError maps core error kinds to HTTP statuses. The core returns
// kinds, not prose; the presentation layer owns user-facing wording.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsInvalidArgument(err):
		status = http.StatusBadRequest
	case apperr.IsUnauthorized(err):
		status = http.StatusForbidden
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsOutOfStock(err), apperr.IsConflict(err):
		status = http.StatusConflict
	case apperr.IsInsufficientPoints(err):
		status = http.StatusUnprocessableEntity
	case apperr.IsRateLimited(err):
		status = http.StatusTooManyRequests
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// principalID extracts the authenticated user's ID set by the JWT middleware.
// It aborts with 401 when the context carries no parsable principal.
func principalID(c *gin.Context) (primitive.ObjectID, bool) {
	sub := c.GetString(middleware.ContextUserID)
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid principal in token"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses an ObjectID path parameter.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}
