package services

import (
	"context"
	"sync"
	"testing"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRedeem_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 600, "Starting balance")
	prize := env.addPrize(t, "Gift Card", 500, 1)

	redemption, err := env.redemption.Redeem(ctx, env.user.ID, prize.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusCompleted, redemption.Status)
	assert.Equal(t, 500, redemption.PointsCost)
	assert.False(t, redemption.TransactionID.IsZero(), "redemption must reference its debit transaction")

	balance, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	got, err := env.store.Prizes().FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Zero(t, got.QuantityAvailable)
	env.requireBalanceInvariant(t, env.user.ID)

	// Inventory is gone now, even with points to spare.
	_, err = env.redemption.Redeem(ctx, env.user.ID, prize.ID, "")
	require.Error(t, err)
	assert.True(t, apperr.IsOutOfStock(err))
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 300, "Starting balance")
	prize := env.addPrize(t, "Headphones", 500, 2)

	_, err := env.redemption.Redeem(ctx, env.user.ID, prize.ID, "")
	require.Error(t, err)
	assert.True(t, apperr.IsInsufficientPoints(err))

	// A failed redemption must leave no trace anywhere.
	balance, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, balance)

	got, err := env.store.Prizes().FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.QuantityAvailable)

	redemptions, err := env.redemption.ListByUser(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, redemptions)
	env.requireBalanceInvariant(t, env.user.ID)
}

func TestRedeem_InactivePrize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 1000, "Starting balance")
	prize := env.addPrize(t, "Retired Prize", 100, 5)
	prize.Active = false
	require.NoError(t, env.store.Prizes().Update(ctx, prize))

	_, err := env.redemption.Redeem(ctx, env.user.ID, prize.ID, "")
	require.Error(t, err)
	assert.True(t, apperr.IsOutOfStock(err))
}

func TestRedeem_LastUnitRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := env.addUser(t, "Carlos Santos", "carlos@example.com")
	env.award(t, env.user.ID, 500, "Starting balance")
	env.award(t, other.ID, 500, "Starting balance")
	prize := env.addPrize(t, "Spa Day", 500, 1)

	racers := []primitive.ObjectID{env.user.ID, other.ID}
	errs := make([]error, len(racers))
	var wg sync.WaitGroup
	for i, userID := range racers {
		wg.Add(1)
		i, userID := i, userID
		go func() {
			defer wg.Done()
			_, errs[i] = env.redemption.Redeem(ctx, userID, prize.ID, "")
		}()
	}
	wg.Wait()

	var successes, outOfStock int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperr.IsOutOfStock(err):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one racer may take the last unit")
	assert.Equal(t, 1, outOfStock)

	got, err := env.store.Prizes().FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Zero(t, got.QuantityAvailable)
	env.requireBalanceInvariant(t, env.user.ID)
	env.requireBalanceInvariant(t, other.ID)
}

func TestRedeem_IdempotencyKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 1000, "Starting balance")
	prize := env.addPrize(t, "Gaming Mouse", 300, 10)

	first, err := env.redemption.Redeem(ctx, env.user.ID, prize.ID, "req-42")
	require.NoError(t, err)

	second, err := env.redemption.Redeem(ctx, env.user.ID, prize.ID, "req-42")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a retried key returns the original redemption")

	balance, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 700, balance, "the retry must not debit twice")

	got, err := env.store.Prizes().FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.QuantityAvailable)
}

func TestRedeem_IdempotencyKeyRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 1000, "Starting balance")
	prize := env.addPrize(t, "Gift Card", 300, 10)

	// Concurrent retries of one logical request share a key. Both must get
	// the same redemption and the debit must happen exactly once.
	const racers = 2
	results := make([]*models.Redemption, racers)
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			results[i], errs[i] = env.redemption.Redeem(ctx, env.user.ID, prize.ID, "req-77")
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].ID, results[1].ID)

	balance, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 700, balance, "one logical request must debit once")

	got, err := env.store.Prizes().FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.QuantityAvailable)

	redemptions, err := env.redemption.ListByUser(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Len(t, redemptions, 1)
	env.requireBalanceInvariant(t, env.user.ID)
}

func TestRedeem_UnknownPrize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 1000, "Starting balance")

	_, err := env.redemption.Redeem(ctx, env.user.ID, env.user.ID, "")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestListByUser_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 1000, "Starting balance")
	mouse := env.addPrize(t, "Gaming Mouse", 300, 10)
	card := env.addPrize(t, "Gift Card", 500, 10)

	_, err := env.redemption.Redeem(ctx, env.user.ID, mouse.ID, "")
	require.NoError(t, err)
	_, err = env.redemption.Redeem(ctx, env.user.ID, card.ID, "")
	require.NoError(t, err)

	redemptions, err := env.redemption.ListByUser(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, redemptions, 2)
	assert.Equal(t, card.ID, redemptions[0].PrizeID)
	assert.Equal(t, mouse.ID, redemptions[1].PrizeID)
}
