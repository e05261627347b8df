package services

import (
	"context"
	"testing"

	"github.com/gamework/recognition-backend/internal/apperr"
	"github.com/gamework/recognition-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddTransaction_AdminAward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	transaction, balance, err := env.ledger.AddTransaction(ctx, env.admin.ID, AddTransactionInput{
		UserID:      env.user.ID,
		Points:      250,
		Description: "Monthly goal",
	})
	require.NoError(t, err)

	assert.Equal(t, 250, transaction.Points)
	assert.Equal(t, "Monthly goal", transaction.Description)
	assert.Equal(t, env.admin.ID, transaction.CreatedBy)
	assert.Equal(t, 250, balance)

	got, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, got)
	env.requireBalanceInvariant(t, env.user.ID)
}

func TestAddTransaction_NonAdminRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.ledger.AddTransaction(ctx, env.user.ID, AddTransactionInput{
		UserID:      env.user.ID,
		Points:      500,
		Description: "self award",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsUnauthorized(err))

	transactions, err := env.ledger.ListTransactions(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, transactions, "no transaction may be appended on an unauthorized call")
}

func TestAddTransaction_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddTransactionInput
		check func(error) bool
	}{
		{
			name:  "zero points",
			input: AddTransactionInput{UserID: env.user.ID, Points: 0, Description: "nothing"},
			check: apperr.IsInvalidArgument,
		},
		{
			name:  "empty description",
			input: AddTransactionInput{UserID: env.user.ID, Points: 10, Description: "   "},
			check: apperr.IsInvalidArgument,
		},
		{
			name:  "unknown user",
			input: AddTransactionInput{UserID: primitive.NewObjectID(), Points: 10, Description: "ghost"},
			check: apperr.IsNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.ledger.AddTransaction(ctx, env.admin.ID, tc.input)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestAddTransaction_EventTypeControlsPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	eventType := &models.EventType{Key: "sale", Title: "Closed sale", Points: 100, Active: true}
	require.NoError(t, env.store.EventTypes().Create(ctx, eventType))

	// The configured value wins over whatever the caller sent.
	transaction, balance, err := env.ledger.AddTransaction(ctx, env.admin.ID, AddTransactionInput{
		UserID:      env.user.ID,
		EventTypeID: &eventType.ID,
		Points:      9999,
		Description: "Closed the Acme deal",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, transaction.Points)
	assert.Equal(t, 100, balance)
	env.requireBalanceInvariant(t, env.user.ID)
}

func TestAddTransaction_DisabledEventType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	eventType := &models.EventType{Key: "legacy", Title: "Legacy", Points: 40, Active: false}
	require.NoError(t, env.store.EventTypes().Create(ctx, eventType))

	_, _, err := env.ledger.AddTransaction(ctx, env.admin.ID, AddTransactionInput{
		UserID:      env.user.ID,
		EventTypeID: &eventType.ID,
		Description: "should not pass",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))

	balance, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestAddTransaction_DailyCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	eventType := &models.EventType{Key: "check-in", Title: "Daily check-in", Points: 10, Active: true, MaxPerDay: 2}
	require.NoError(t, env.store.EventTypes().Create(ctx, eventType))

	for i := 0; i < 2; i++ {
		_, _, err := env.ledger.AddTransaction(ctx, env.admin.ID, AddTransactionInput{
			UserID:      env.user.ID,
			EventTypeID: &eventType.ID,
			Description: "check-in",
		})
		require.NoError(t, err)
	}

	_, _, err := env.ledger.AddTransaction(ctx, env.admin.ID, AddTransactionInput{
		UserID:      env.user.ID,
		EventTypeID: &eventType.ID,
		Description: "one too many",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsRateLimited(err))

	balance, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, balance, "the capped attempt must leave no trace")
	env.requireBalanceInvariant(t, env.user.ID)
}

func TestGetBalance_SumsAllTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 100, "first")
	env.award(t, env.user.ID, 50, "second")
	env.award(t, env.user.ID, -30, "correction")

	balance, err := env.ledger.GetBalance(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, balance)
	env.requireBalanceInvariant(t, env.user.ID)
}

func TestListTransactions_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.award(t, env.user.ID, 100, "first")
	env.award(t, env.user.ID, 50, "second")

	transactions, err := env.ledger.ListTransactions(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "second", transactions[0].Description)
	assert.Equal(t, "first", transactions[1].Description)
}
