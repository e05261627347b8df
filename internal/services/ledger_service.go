package services

import (
	"context"
	"strings"
	"time"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerService is the sole writer of point transactions. Balances are
// derived from the ledger; the users.points field is only a materialized
// copy maintained inside the same store transaction as each append.
type LedgerService struct {
	users        repositories.UserRepository
	eventTypes   repositories.EventTypeRepository
	transactions repositories.PointTransactionRepository
	tx           repositories.TxRunner
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	users repositories.UserRepository,
	eventTypes repositories.EventTypeRepository,
	transactions repositories.PointTransactionRepository,
	tx repositories.TxRunner,
) *LedgerService {
	return &LedgerService{
		users:        users,
		eventTypes:   eventTypes,
		transactions: transactions,
		tx:           tx,
	}
}

// AddTransactionInput describes a points award. EventTypeID is optional; when
// set, the award takes that event type's configured value and is subject to
// its daily cap.
type AddTransactionInput struct {
	UserID      primitive.ObjectID
	EventTypeID *primitive.ObjectID
	Points      int
	Description string
}

// AddTransaction appends one immutable ledger entry on behalf of an admin
// actor and returns it together with the user's new balance. Daily caps
// (EventType.MaxPerDay) count transactions since midnight UTC.
func (s *LedgerService) AddTransaction(ctx context.Context, actorID primitive.ObjectID, in AddTransactionInput) (*models.PointTransaction, int, error) {
	if err := requireAdmin(ctx, s.users, actorID, "addPoints"); err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, 0, apperr.Invalid("description", "must not be empty")
	}
	if in.EventTypeID == nil && in.Points == 0 {
		return nil, 0, apperr.Invalid("points", "must be non-zero")
	}
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, 0, err
	}

	var (
		transaction *models.PointTransaction
		balance     int
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		points := in.Points
		if in.EventTypeID != nil {
			eventType, err := s.eventTypes.FindByID(ctx, *in.EventTypeID)
			if err != nil {
				return err
			}
			if !eventType.Active {
				return apperr.Invalid("eventTypeId", "event type is disabled")
			}
			points = eventType.Points
			if eventType.MaxPerDay > 0 {
				count, err := s.transactions.CountByUserAndTypeSince(ctx, in.UserID, eventType.ID, startOfDayUTC(time.Now()))
				if err != nil {
					return err
				}
				if count >= int64(eventType.MaxPerDay) {
					return apperr.RateLimited(eventType.Key, eventType.MaxPerDay)
				}
			}
		}

		transaction = &models.PointTransaction{
			UserID:      in.UserID,
			EventTypeID: in.EventTypeID,
			Points:      points,
			Description: strings.TrimSpace(in.Description),
			CreatedBy:   actorID,
			CreatedAt:   time.Now(),
		}
		if err := s.transactions.Create(ctx, transaction); err != nil {
			return err
		}
		if err := s.users.IncrementPoints(ctx, in.UserID, points); err != nil {
			return err
		}

		var err error
		balance, err = s.transactions.SumByUserID(ctx, in.UserID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return transaction, balance, nil
}

// GetBalance returns the authoritative balance: the sum of the user's ledger
// entries, not the materialized users.points field.
func (s *LedgerService) GetBalance(ctx context.Context, userID primitive.ObjectID) (int, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.transactions.SumByUserID(ctx, userID)
}

// ListTransactions returns a user's ledger entries, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, userID primitive.ObjectID) ([]*models.PointTransaction, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.transactions.FindByUserID(ctx, userID)
}

// startOfDayUTC is the daily-cap window boundary: caps reset at midnight UTC.
func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
