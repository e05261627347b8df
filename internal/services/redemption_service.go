package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// redeemRetries bounds how often a redemption is re-attempted after a
// transient transaction conflict before surfacing Conflict to the caller.
const redeemRetries = 3

// RedemptionService performs the atomic exchange of points for prize
// inventory. It is the sole writer of redemptions and the only component
// allowed to decrement prize quantities.
type RedemptionService struct {
	users        repositories.UserRepository
	prizes       repositories.PrizeRepository
	transactions repositories.PointTransactionRepository
	redemptions  repositories.RedemptionRepository
	tx           repositories.TxRunner
}

// NewRedemptionService creates a new RedemptionService
func NewRedemptionService(
	users repositories.UserRepository,
	prizes repositories.PrizeRepository,
	transactions repositories.PointTransactionRepository,
	redemptions repositories.RedemptionRepository,
	tx repositories.TxRunner,
) *RedemptionService {
	return &RedemptionService{
		users:        users,
		prizes:       prizes,
		transactions: transactions,
		redemptions:  redemptions,
		tx:           tx,
	}
}

// Redeem debits the prize's cost from the user's ledger, takes one unit of
// inventory and records the redemption, all in one store transaction.
//
// idempotencyKey is optional. When a caller retries with the same key the
// original redemption is returned and nothing is debited twice.
func (s *RedemptionService) Redeem(ctx context.Context, userID, prizeID primitive.ObjectID, idempotencyKey string) (*models.Redemption, error) {
	if idempotencyKey != "" {
		existing, err := s.redemptions.FindByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, err
		}
	}

	var redemption *models.Redemption
	for attempt := 0; attempt < redeemRetries; attempt++ {
		err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			var txErr error
			redemption, txErr = s.redeemOnce(ctx, userID, prizeID, idempotencyKey)
			return txErr
		})
		if err == nil {
			return redemption, nil
		}
		// A concurrent request with the same key committed first: its
		// insert won the unique index, ours aborted. Return the original.
		if idempotencyKey != "" && apperr.IsConflict(err) {
			existing, findErr := s.redemptions.FindByIdempotencyKey(ctx, idempotencyKey)
			if findErr == nil {
				return existing, nil
			}
			return nil, err
		}
		if !isTransient(err) {
			return nil, err
		}
	}
	return nil, apperr.Conflict("redemption")
}

// redeemOnce runs the check-debit-decrement-record sequence. It must be
// called inside a store transaction.
func (s *RedemptionService) redeemOnce(ctx context.Context, userID, prizeID primitive.ObjectID, idempotencyKey string) (*models.Redemption, error) {
	// Re-check the key inside the transaction. The pre-transaction lookup is
	// only a fast path; a duplicate that slipped past it is caught here or,
	// across sessions that cannot see each other's writes, by the unique
	// index when the redemption row is inserted.
	if idempotencyKey != "" {
		existing, err := s.redemptions.FindByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, err
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	prize, err := s.prizes.FindByID(ctx, prizeID)
	if err != nil {
		return nil, err
	}
	if !prize.Active || prize.QuantityAvailable <= 0 {
		return nil, fmt.Errorf("prize %q: %w", prize.Name, apperr.ErrOutOfStock)
	}

	balance, err := s.transactions.SumByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < prize.PointsCost {
		return nil, fmt.Errorf("%w: balance %d, prize %q costs %d",
			apperr.ErrInsufficientPoints, balance, prize.Name, prize.PointsCost)
	}

	// The guard inside DecrementQuantity settles the last-unit race: if a
	// concurrent redemption got there first this fails with ErrOutOfStock
	// and the transaction rolls back with no partial effects.
	if err := s.prizes.DecrementQuantity(ctx, prizeID); err != nil {
		return nil, err
	}

	debit := &models.PointTransaction{
		UserID:      userID,
		Points:      -prize.PointsCost,
		Description: "Redeemed prize: " + prize.Name,
		CreatedBy:   user.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.transactions.Create(ctx, debit); err != nil {
		return nil, err
	}
	if err := s.users.IncrementPoints(ctx, userID, -prize.PointsCost); err != nil {
		return nil, err
	}

	redemption := &models.Redemption{
		UserID:         userID,
		PrizeID:        prizeID,
		PointsCost:     prize.PointsCost,
		Status:         models.RedemptionStatusCompleted,
		IdempotencyKey: idempotencyKey,
		TransactionID:  debit.ID,
		CreatedAt:      time.Now(),
	}
	if err := s.redemptions.Create(ctx, redemption); err != nil {
		return nil, err
	}
	return redemption, nil
}

// ListByUser returns a user's redemption history, newest first.
func (s *RedemptionService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Redemption, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.redemptions.FindByUserID(ctx, userID)
}

// isTransient reports whether the error is a retryable transaction conflict.
// Business-rule failures (OutOfStock, InsufficientPoints, ...) are final.
func isTransient(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorLabel("TransientTransactionError")
	}
	return false
}
