package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))
	prize := &models.Prize{Name: "Gift Card", PointsCost: 500, QuantityAvailable: 1, Active: true}
	require.NoError(t, store.Prizes().Create(ctx, prize))

	boom := errors.New("boom")
	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := store.Prizes().DecrementQuantity(ctx, prize.ID); err != nil {
			return err
		}
		if err := store.Transactions().Create(ctx, &models.PointTransaction{
			UserID:      user.ID,
			Points:      -500,
			Description: "should vanish",
		}); err != nil {
			return err
		}
		if err := store.Users().IncrementPoints(ctx, user.ID, -500); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Prizes().FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.QuantityAvailable)

	sum, err := store.Transactions().SumByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)

	reloaded, err := store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.Points)
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		return store.Users().IncrementPoints(ctx, user.ID, 100)
	})
	require.NoError(t, err)

	reloaded, err := store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, reloaded.Points)
}

func TestWithTransaction_NestedReusesOuter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))

	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		return store.WithTransaction(ctx, func(ctx context.Context) error {
			return store.Users().IncrementPoints(ctx, user.ID, 50)
		})
	})
	require.NoError(t, err)

	reloaded, err := store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.Points)
}

func TestDecrementQuantity_Guard(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	prize := &models.Prize{Name: "Last One", PointsCost: 100, QuantityAvailable: 1, Active: true}
	require.NoError(t, store.Prizes().Create(ctx, prize))

	require.NoError(t, store.Prizes().DecrementQuantity(ctx, prize.ID))

	err := store.Prizes().DecrementQuantity(ctx, prize.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsOutOfStock(err))

	got, err := store.Prizes().FindByID(ctx, prize.ID)
	require.NoError(t, err)
	assert.Zero(t, got.QuantityAvailable, "quantity never goes negative")
}

func TestDecrementQuantity_InactivePrize(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	prize := &models.Prize{Name: "Retired", PointsCost: 100, QuantityAvailable: 5, Active: false}
	require.NoError(t, store.Prizes().Create(ctx, prize))

	err := store.Prizes().DecrementQuantity(ctx, prize.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsOutOfStock(err))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{Name: "Ana", Email: "ana@example.com"}))

	err := store.Users().Create(ctx, &models.User{Name: "Ana Clone", Email: "ana@example.com"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateRedemption_DuplicateKey(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := &models.Redemption{IdempotencyKey: "req-1"}
	require.NoError(t, store.Redemptions().Create(ctx, first))

	err := store.Redemptions().Create(ctx, &models.Redemption{IdempotencyKey: "req-1"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	// Redemptions without a key never collide.
	require.NoError(t, store.Redemptions().Create(ctx, &models.Redemption{}))
	require.NoError(t, store.Redemptions().Create(ctx, &models.Redemption{}))
}

func TestFindAllRanked_Order(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, u := range []models.User{
		{Name: "Low", Email: "low@example.com", Points: 10},
		{Name: "High", Email: "high@example.com", Points: 100},
		{Name: "Mid", Email: "mid@example.com", Points: 50},
	} {
		u := u
		require.NoError(t, store.Users().Create(ctx, &u))
	}

	ranked, err := store.Users().FindAllRanked(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "High", ranked[0].Name)
	assert.Equal(t, "Mid", ranked[1].Name)
	assert.Equal(t, "Low", ranked[2].Name)
}
