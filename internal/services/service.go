package services

import (
	"context"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requireAdmin loads the acting principal from the store and verifies the
// admin flag. The check happens here, on every call, rather than trusting a
// role claim supplied by the client.
func requireAdmin(ctx context.Context, users repositories.UserRepository, actorID primitive.ObjectID, operation string) error {
	actor, err := users.FindByID(ctx, actorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthorized(operation)
		}
		return err
	}
	if !actor.IsAdmin {
		return apperr.Unauthorized(operation)
	}
	return nil
}
