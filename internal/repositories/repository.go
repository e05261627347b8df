package repositories

import (
	"context"
	"time"

	"github.com/gamework/recognition-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Implementations report missing records by wrapping apperr.ErrNotFound so
// services can distinguish them from infrastructure failures.

// UserRepository defines the interface for roster data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	// FindAllRanked returns users ordered by points descending, with ties
	// broken by creation time then id so the ordering is deterministic.
	FindAllRanked(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncrementPoints adjusts the materialized balance. Callers must invoke
	// it inside the same store transaction as the matching ledger append.
	IncrementPoints(ctx context.Context, id primitive.ObjectID, delta int) error
	Count(ctx context.Context) (int64, error)
}

// EventTypeRepository defines the interface for event type data operations.
type EventTypeRepository interface {
	Create(ctx context.Context, eventType *models.EventType) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.EventType, error)
	FindByKey(ctx context.Context, key string) (*models.EventType, error)
	FindAll(ctx context.Context) ([]*models.EventType, error)
	FindActive(ctx context.Context) ([]*models.EventType, error)
	Update(ctx context.Context, eventType *models.EventType) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PointTransactionRepository defines the interface for ledger operations.
// The ledger is append-only: there are intentionally no update or delete
// methods.
type PointTransactionRepository interface {
	Create(ctx context.Context, transaction *models.PointTransaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.PointTransaction, error)
	// SumByUserID computes the user's authoritative balance.
	SumByUserID(ctx context.Context, userID primitive.ObjectID) (int, error)
	// CountByUserAndTypeSince counts transactions of one event type for one
	// user created at or after the given instant (daily-cap enforcement).
	CountByUserAndTypeSince(ctx context.Context, userID, eventTypeID primitive.ObjectID, since time.Time) (int64, error)
}

// PrizeRepository defines the interface for catalog data operations.
type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Prize, error)
	FindAll(ctx context.Context) ([]*models.Prize, error)
	Update(ctx context.Context, prize *models.Prize) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementQuantity atomically takes one unit from an active prize with
	// stock remaining. It fails with apperr.ErrOutOfStock when no such row
	// matches, which is what makes the last-unit race safe.
	DecrementQuantity(ctx context.Context, id primitive.ObjectID) error
}

// RedemptionRepository defines the interface for redemption data operations.
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *models.Redemption) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Redemption, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Redemption, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Redemption, error)
}

// TxRunner executes fn within one store transaction. Either every write fn
// performs is visible afterwards or none are.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
