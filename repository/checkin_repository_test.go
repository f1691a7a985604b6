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

func TestCheckInRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCheckInRepository(testDB.DB)
	ctx := context.Background()

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("first check-in of the day", func(t *testing.T) {
		checkIn := testutil.CreateTestCheckIn(100, 1, day, 1)
		err := repo.Create(ctx, checkIn)
		require.NoError(t, err)
		assert.NotZero(t, checkIn.ID)
		assert.False(t, checkIn.CreatedAt.IsZero())
	})

	t.Run("second claim on the same day is rejected", func(t *testing.T) {
		checkIn := testutil.CreateTestCheckIn(100, 1, day, 2)
		err := repo.Create(ctx, checkIn)
		assert.ErrorIs(t, err, service.ErrAlreadyClaimed)
	})

	t.Run("next day succeeds", func(t *testing.T) {
		checkIn := testutil.CreateTestCheckIn(100, 1, day.AddDate(0, 0, 1), 2)
		err := repo.Create(ctx, checkIn)
		require.NoError(t, err)
	})

	t.Run("another member is independent", func(t *testing.T) {
		checkIn := testutil.CreateTestCheckIn(100, 2, day, 1)
		err := repo.Create(ctx, checkIn)
		require.NoError(t, err)
	})
}

func TestCheckInRepository_Lookups(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCheckInRepository(testDB.DB)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestCheckIn(100, 1, day1, 1)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestCheckIn(100, 1, day2, 2)))

	t.Run("get by day", func(t *testing.T) {
		checkIn, err := repo.GetByDay(ctx, 100, 1, day1)
		require.NoError(t, err)
		require.NotNil(t, checkIn)
		assert.Equal(t, 1, checkIn.Streak)

		missing, err := repo.GetByDay(ctx, 100, 1, day1.AddDate(0, 0, -1))
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("get latest", func(t *testing.T) {
		latest, err := repo.GetLatest(ctx, 100, 1)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 2, latest.Streak)
	})

	t.Run("counts and sums", func(t *testing.T) {
		count, err := repo.CountByUser(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		daily, err := repo.CountByDay(ctx, 100, day1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), daily)

		payout, err := repo.SumRewardsByDay(ctx, 100, day1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), payout)
	})
}
