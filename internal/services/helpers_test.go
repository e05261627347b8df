package services

import (
	"context"
	"testing"

	"github.com/gamework/recognition-backend/internal/models"
	"github.com/gamework/recognition-backend/internal/repositories/memory"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testEnv wires every service against one in-memory store with a seeded
// admin and one regular user.
type testEnv struct {
	store      *memory.Store
	admin      *models.User
	user       *models.User
	ledger     *LedgerService
	redemption *RedemptionService
	catalog    *CatalogService
	ranking    *RankingService
	users      *UserService
	eventTypes *EventTypeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	admin := &models.User{Name: "Admin", Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, store.Users().Create(ctx, admin))
	user := &models.User{Name: "Ana Silva", Email: "ana@example.com", Department: "Sales"}
	require.NoError(t, store.Users().Create(ctx, user))

	return &testEnv{
		store:      store,
		admin:      admin,
		user:       user,
		ledger:     NewLedgerService(store.Users(), store.EventTypes(), store.Transactions(), store),
		redemption: NewRedemptionService(store.Users(), store.Prizes(), store.Transactions(), store.Redemptions(), store),
		catalog:    NewCatalogService(store.Users(), store.Prizes()),
		ranking:    NewRankingService(store.Users()),
		users:      NewUserService(store.Users()),
		eventTypes: NewEventTypeService(store.Users(), store.EventTypes()),
	}
}

// addUser creates an extra regular roster entry directly in the store.
func (e *testEnv) addUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

// award grants points to a user through the ledger as the seeded admin.
func (e *testEnv) award(t *testing.T, userID primitive.ObjectID, points int, description string) {
	t.Helper()
	_, _, err := e.ledger.AddTransaction(context.Background(), e.admin.ID, AddTransactionInput{
		UserID:      userID,
		Points:      points,
		Description: description,
	})
	require.NoError(t, err)
}

// addPrize inserts a catalog entry directly in the store.
func (e *testEnv) addPrize(t *testing.T, name string, cost, quantity int) *models.Prize {
	t.Helper()
	prize := &models.Prize{Name: name, PointsCost: cost, QuantityAvailable: quantity, Active: true}
	require.NoError(t, e.store.Prizes().Create(context.Background(), prize))
	return prize
}

// requireBalanceInvariant asserts that the ledger sum and the materialized
// points field agree for the given user.
func (e *testEnv) requireBalanceInvariant(t *testing.T, userID primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()
	sum, err := e.store.Transactions().SumByUserID(ctx, userID)
	require.NoError(t, err)
	user, err := e.store.Users().FindByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, sum, user.Points, "materialized points diverged from ledger sum")
}
