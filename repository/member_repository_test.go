package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosethorn/repository/testutil"
	"rosethorn/service"
)

func TestMemberRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMemberRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing member returns nil", func(t *testing.T) {
		member, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Nil(t, member)
	})

	t.Run("create and retrieve", func(t *testing.T) {
		created, err := repo.Create(ctx, 100, 1, "alice", 250)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, int64(250), created.Balance)
		assert.Equal(t, 1, created.Level)
		assert.Equal(t, 0, created.CheckInStreak)
		assert.Nil(t, created.LastCheckIn)

		member, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		require.NotNil(t, member)
		assert.Equal(t, created.ID, member.ID)
		assert.Equal(t, "alice", member.Username)
	})

	t.Run("same user in another guild is a separate record", func(t *testing.T) {
		created, err := repo.Create(ctx, 200, 1, "alice", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), created.Balance)
	})

	t.Run("duplicate create fails", func(t *testing.T) {
		_, err := repo.Create(ctx, 100, 1, "alice", 0)
		assert.Error(t, err)
	})
}

func TestMemberRepository_BalanceOperations(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMemberRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 100, 1, "bob", 500)
	require.NoError(t, err)

	t.Run("add balance", func(t *testing.T) {
		err := repo.AddBalance(ctx, 100, 1, 300)
		require.NoError(t, err)

		member, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(800), member.Balance)
	})

	t.Run("deduct within balance", func(t *testing.T) {
		err := repo.DeductBalance(ctx, 100, 1, 800)
		require.NoError(t, err)

		member, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), member.Balance)
	})

	t.Run("overdraft is rejected and leaves the balance untouched", func(t *testing.T) {
		err := repo.DeductBalance(ctx, 100, 1, 1)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)

		member, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), member.Balance)
	})

	t.Run("unknown member", func(t *testing.T) {
		err := repo.AddBalance(ctx, 100, 999, 10)
		assert.ErrorIs(t, err, service.ErrMemberNotFound)
	})
}

func TestMemberRepository_CheckInState(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMemberRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 100, 1, "carol", 0)
	require.NoError(t, err)

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	err = repo.SetCheckInState(ctx, 100, 1, 7, day)
	require.NoError(t, err)

	member, err := repo.GetByUser(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, member.CheckInStreak)
	require.NotNil(t, member.LastCheckIn)
	assert.Equal(t, day.Year(), member.LastCheckIn.Year())
	assert.Equal(t, day.Month(), member.LastCheckIn.Month())
	assert.Equal(t, day.Day(), member.LastCheckIn.Day())
}

func TestMemberRepository_WarningCount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMemberRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 100, 1, "dave", 0)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		count, err := repo.IncrementWarningCount(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	_, err = repo.IncrementWarningCount(ctx, 100, 999)
	assert.ErrorIs(t, err, service.ErrMemberNotFound)
}

func TestMemberRepository_Leaderboards(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewMemberRepository(testDB.DB)
	ctx := context.Background()

	balances := map[int64]int64{1: 300, 2: 900, 3: 600}
	for userID, balance := range balances {
		_, err := repo.Create(ctx, 100, userID, "user", balance)
		require.NoError(t, err)
	}

	top, err := repo.GetTopByBalance(ctx, 100, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].UserID)
	assert.Equal(t, int64(3), top[1].UserID)

	total, err := repo.SumBalances(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), total)

	count, err := repo.CountByGuild(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
