package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRanked_DescendingByPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	carlos := env.addUser(t, "Carlos Santos", "carlos@example.com")
	maria := env.addUser(t, "Maria Costa", "maria@example.com")
	env.award(t, env.user.ID, 1250, "Starting balance")
	env.award(t, carlos.ID, 980, "Starting balance")
	env.award(t, maria.ID, 1450, "Starting balance")

	ranked, err := env.ranking.ListRanked(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "Maria Costa", ranked[0].Name)
	assert.Equal(t, 1450, ranked[0].Points)
	assert.Equal(t, "Ana Silva", ranked[1].Name)
	assert.Equal(t, "Carlos Santos", ranked[2].Name)
	assert.Equal(t, "Admin", ranked[3].Name)
	assert.Equal(t, 4, ranked[3].Rank)
}

func TestListRanked_StableAcrossReads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Three users tied on points must keep the same order on every read.
	for _, name := range []string{"B", "C"} {
		u := env.addUser(t, name, name+"@example.com")
		env.award(t, u.ID, 100, "Starting balance")
	}
	env.award(t, env.user.ID, 100, "Starting balance")

	first, err := env.ranking.ListRanked(ctx)
	require.NoError(t, err)
	second, err := env.ranking.ListRanked(ctx)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].UserID, second[i].UserID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}

func TestListRanked_ReflectsRedemptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	carlos := env.addUser(t, "Carlos Santos", "carlos@example.com")
	env.award(t, env.user.ID, 600, "Starting balance")
	env.award(t, carlos.ID, 400, "Starting balance")

	prize := env.addPrize(t, "Gift Card", 500, 1)
	_, err := env.redemption.Redeem(ctx, env.user.ID, prize.ID, "")
	require.NoError(t, err)

	ranked, err := env.ranking.ListRanked(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Carlos Santos", ranked[0].Name)
	assert.Equal(t, 400, ranked[0].Points)
	assert.Equal(t, "Ana Silva", ranked[1].Name)
	assert.Equal(t, 100, ranked[1].Points)
}
