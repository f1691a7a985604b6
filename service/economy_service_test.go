package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rosethorn/models"
)

// fixedClock pins Now to a known instant
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// scriptedRand replays a fixed sequence of draws
type scriptedRand struct {
	ints     []int
	floats   []float64
	intIdx   int
	floatIdx int
}

func (r *scriptedRand) Intn(n int) int {
	v := r.ints[r.intIdx%len(r.ints)]
	r.intIdx++
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.floatIdx%len(r.floats)]
	r.floatIdx++
	return v
}

// noRandomBonus makes the check-in bonus draw land outside both bonus
// bands (draw = 51)
func noRandomBonus() *scriptedRand {
	return &scriptedRand{ints: []int{50}, floats: []float64{0}}
}

var testDay = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func checkInMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockMemberRepository, *MockCheckInRepository, *MockGuildSettingsRepository, *MockBalanceHistoryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockCheckInRepo := new(MockCheckInRepository)
	mockSettingsRepo := new(MockGuildSettingsRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockMemberRepo, mockCheckInRepo, nil, nil, nil, nil, mockHistoryRepo, nil, mockSettingsRepo)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil).Maybe()
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockMemberRepo, mockCheckInRepo, mockSettingsRepo, mockHistoryRepo
}

func defaultSettings() *models.GuildSettings {
	return &models.GuildSettings{
		GuildID:     100,
		DailyReward: 100,
	}
}

func TestEconomyService_CheckIn_FirstDay(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockMemberRepo, mockCheckInRepo, mockSettingsRepo, mockHistoryRepo := checkInMocks()

	service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

	member := &models.Member{
		GuildID: 100, UserID: 1, Username: "alice",
		Balance: 0, XP: 0, Level: 1, CheckInStreak: 0,
	}
	today := UTCDate(testDay)

	mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
	mockSettingsRepo.On("GetOrCreate", ctx, int64(100)).Return(defaultSettings(), nil)
	mockCheckInRepo.On("GetByDay", ctx, int64(100), int64(1), today).Return(nil, nil)
	mockCheckInRepo.On("GetByDay", ctx, int64(100), int64(1), today.AddDate(0, 0, -1)).Return(nil, nil)

	// Day one: base 100 + streak bonus 10, no random or milestone bonus
	mockCheckInRepo.On("Create", ctx, mock.MatchedBy(func(c *models.CheckIn) bool {
		return c.Streak == 1 && c.Reward == 110 && c.Day.Equal(today)
	})).Return(nil)
	mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(110)).Return(nil)
	mockMemberRepo.On("SetCheckInState", ctx, int64(100), int64(1), 1, today).Return(nil)
	mockMemberRepo.On("SetProgress", ctx, int64(100), int64(1), int64(25), 1).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.ChangeAmount == 110 && h.TransactionType == models.TransactionTypeCheckIn
	})).Return(nil)

	result, err := service.CheckIn(ctx, 100, 1, "alice")

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, int64(100), result.BaseReward)
	assert.Equal(t, int64(10), result.StreakBonus)
	assert.Equal(t, int64(0), result.RandomBonus)
	assert.Equal(t, int64(0), result.MilestoneBonus)
	assert.Equal(t, int64(110), result.TotalReward)
	assert.Equal(t, int64(110), result.NewBalance)
	assert.Equal(t, int64(25), result.XPGained)
	assert.False(t, result.LeveledUp)

	mockUoW.AssertExpectations(t)
	mockMemberRepo.AssertExpectations(t)
	mockCheckInRepo.AssertExpectations(t)
}

func TestEconomyService_CheckIn_AlreadyClaimed(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockMemberRepo, mockCheckInRepo, mockSettingsRepo, _ := checkInMocks()

	service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

	member := &models.Member{GuildID: 100, UserID: 1, Balance: 500}
	today := UTCDate(testDay)

	mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
	mockSettingsRepo.On("GetOrCreate", ctx, int64(100)).Return(defaultSettings(), nil)
	mockCheckInRepo.On("GetByDay", ctx, int64(100), int64(1), today).
		Return(&models.CheckIn{GuildID: 100, UserID: 1, Day: today, Streak: 3}, nil)

	result, err := service.CheckIn(ctx, 100, 1, "alice")

	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Nil(t, result)
	mockUoW.AssertNotCalled(t, "Commit")
	mockMemberRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEconomyService_CheckIn_StreakContinues(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockMemberRepo, mockCheckInRepo, mockSettingsRepo, mockHistoryRepo := checkInMocks()

	service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

	today := UTCDate(testDay)
	yesterday := today.AddDate(0, 0, -1)
	member := &models.Member{
		GuildID: 100, UserID: 1, Balance: 1000,
		XP: 50, Level: 1, CheckInStreak: 6, LastCheckIn: &yesterday,
	}

	mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
	mockSettingsRepo.On("GetOrCreate", ctx, int64(100)).Return(defaultSettings(), nil)
	mockCheckInRepo.On("GetByDay", ctx, int64(100), int64(1), today).Return(nil, nil)
	mockCheckInRepo.On("GetByDay", ctx, int64(100), int64(1), yesterday).
		Return(&models.CheckIn{Day: yesterday, Streak: 6}, nil)

	// Day seven: base 100 + streak bonus 95 + weekly milestone 600
	mockCheckInRepo.On("Create", ctx, mock.MatchedBy(func(c *models.CheckIn) bool {
		return c.Streak == 7 && c.Reward == 795
	})).Return(nil)
	mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(795)).Return(nil)
	mockMemberRepo.On("SetCheckInState", ctx, int64(100), int64(1), 7, today).Return(nil)
	mockMemberRepo.On("SetProgress", ctx, int64(100), int64(1), int64(75), 1).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

	result, err := service.CheckIn(ctx, 100, 1, "alice")

	assert.NoError(t, err)
	assert.Equal(t, 7, result.Streak)
	assert.Equal(t, int64(95), result.StreakBonus)
	assert.Equal(t, int64(600), result.MilestoneBonus)
	assert.Equal(t, int64(795), result.TotalReward)
	assert.Equal(t, int64(1795), result.NewBalance)
}

func TestEconomyService_CheckIn_GapResetsStreak(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockMemberRepo, mockCheckInRepo, mockSettingsRepo, mockHistoryRepo := checkInMocks()

	service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

	today := UTCDate(testDay)
	threeDaysAgo := today.AddDate(0, 0, -3)
	member := &models.Member{
		GuildID: 100, UserID: 1, Balance: 1000,
		CheckInStreak: 20, LastCheckIn: &threeDaysAgo, Level: 1,
	}

	mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
	mockSettingsRepo.On("GetOrCreate", ctx, int64(100)).Return(defaultSettings(), nil)
	mockCheckInRepo.On("GetByDay", ctx, int64(100), int64(1), today).Return(nil, nil)
	mockCheckInRepo.On("GetByDay", ctx, int64(100), int64(1), today.AddDate(0, 0, -1)).Return(nil, nil)

	mockCheckInRepo.On("Create", ctx, mock.MatchedBy(func(c *models.CheckIn) bool {
		return c.Streak == 1
	})).Return(nil)
	mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(110)).Return(nil)
	mockMemberRepo.On("SetCheckInState", ctx, int64(100), int64(1), 1, today).Return(nil)
	mockMemberRepo.On("SetProgress", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

	result, err := service.CheckIn(ctx, 100, 1, "alice")

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
}

func TestEconomyService_CheckIn_LevelUpBonus(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockMemberRepo, mockCheckInRepo, mockSettingsRepo, mockHistoryRepo := checkInMocks()

	service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

	member := &models.Member{
		GuildID: 100, UserID: 1, Balance: 0,
		XP: 90, Level: 1, CheckInStreak: 0,
	}

	settings := defaultSettings()
	settings.LevelUpBonusEnabled = true

	mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
	mockSettingsRepo.On("GetOrCreate", ctx, int64(100)).Return(settings, nil)
	mockCheckInRepo.On("GetByDay", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockCheckInRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockMemberRepo.On("SetCheckInState", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

	// 90 + 25 XP crosses the 100 XP threshold into level 2
	mockMemberRepo.On("SetProgress", ctx, int64(100), int64(1), int64(115), 2).Return(nil)
	mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(110)).Return(nil)
	mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(100)).Return(nil)

	result, err := service.CheckIn(ctx, 100, 1, "alice")

	assert.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.NewLevel)
	assert.Equal(t, int64(100), result.LevelUpBonus)
	assert.Equal(t, int64(210), result.NewBalance)
}

func TestEconomyService_CheckIn_RandomBonusBands(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, rng Rand) *models.CheckInResult {
		mockFactory, _, mockMemberRepo, mockCheckInRepo, mockSettingsRepo, mockHistoryRepo := checkInMocks()
		service := NewEconomyService(mockFactory, rng, fixedClock{testDay})

		member := &models.Member{GuildID: 100, UserID: 1, Level: 1}
		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
		mockSettingsRepo.On("GetOrCreate", ctx, int64(100)).Return(defaultSettings(), nil)
		mockCheckInRepo.On("GetByDay", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
		mockCheckInRepo.On("Create", ctx, mock.Anything).Return(nil)
		mockMemberRepo.On("AddBalance", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMemberRepo.On("SetCheckInState", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMemberRepo.On("SetProgress", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

		result, err := service.CheckIn(ctx, 100, 1, "alice")
		assert.NoError(t, err)
		return result
	}

	t.Run("large bonus band pays up to the subtotal", func(t *testing.T) {
		// Draw 5 lands in the large band; Float64 of 0.5 pays half the subtotal
		result := run(t, &scriptedRand{ints: []int{4}, floats: []float64{0.5}})
		assert.Equal(t, int64(55), result.RandomBonus)
		assert.Equal(t, int64(165), result.TotalReward)
	})

	t.Run("small bonus band pays 10 to 30 percent", func(t *testing.T) {
		// Draw 10 lands in the small band; Float64 of 0.5 pays 20 percent
		result := run(t, &scriptedRand{ints: []int{9}, floats: []float64{0.5}})
		assert.Equal(t, int64(22), result.RandomBonus)
	})

	t.Run("no bonus outside both bands", func(t *testing.T) {
		result := run(t, &scriptedRand{ints: []int{99}, floats: []float64{0.99}})
		assert.Equal(t, int64(0), result.RandomBonus)
	})
}

func TestEconomyService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("validations", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

		err := service.Transfer(ctx, 100, 1, 2, 0)
		assert.ErrorIs(t, err, ErrInvalidTarget)

		err = service.Transfer(ctx, 100, 1, 1, 50)
		assert.ErrorIs(t, err, ErrInvalidTarget)

		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("successful transfer", func(t *testing.T) {
		mockFactory, mockUoW, mockMemberRepo, _, _, mockHistoryRepo := checkInMocks()
		service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

		sender := &models.Member{GuildID: 100, UserID: 1, Balance: 500}
		recipient := &models.Member{GuildID: 100, UserID: 2, Balance: 100}

		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(sender, nil)
		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(2)).Return(recipient, nil)
		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(200)).Return(nil)
		mockMemberRepo.On("AddBalance", ctx, int64(100), int64(2), int64(200)).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
			return h.UserID == 1 && h.ChangeAmount == -200 && h.TransactionType == models.TransactionTypeTransferOut
		})).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
			return h.UserID == 2 && h.ChangeAmount == 200 && h.TransactionType == models.TransactionTypeTransferIn
		})).Return(nil)

		err := service.Transfer(ctx, 100, 1, 2, 200)

		assert.NoError(t, err)
		mockUoW.AssertExpectations(t)
		mockHistoryRepo.AssertExpectations(t)
	})

	t.Run("insufficient funds aborts the transfer", func(t *testing.T) {
		mockFactory, mockUoW, mockMemberRepo, _, _, _ := checkInMocks()
		service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

		sender := &models.Member{GuildID: 100, UserID: 1, Balance: 50}
		recipient := &models.Member{GuildID: 100, UserID: 2, Balance: 100}

		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(sender, nil)
		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(2)).Return(recipient, nil)
		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(200)).Return(ErrInsufficientFunds)

		err := service.Transfer(ctx, 100, 1, 2, 200)

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		mockUoW.AssertNotCalled(t, "Commit")
		mockMemberRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEconomyService_StreakStatus(t *testing.T) {
	ctx := context.Background()
	today := UTCDate(testDay)

	run := func(t *testing.T, latest *models.CheckIn, total int64) *StreakStatus {
		mockFactory, _, _, mockCheckInRepo, _, _ := checkInMocks()
		service := NewEconomyService(mockFactory, noRandomBonus(), fixedClock{testDay})

		if latest == nil {
			mockCheckInRepo.On("GetLatest", ctx, int64(100), int64(1)).Return(nil, nil)
		} else {
			mockCheckInRepo.On("GetLatest", ctx, int64(100), int64(1)).Return(latest, nil)
		}
		mockCheckInRepo.On("CountByUser", ctx, int64(100), int64(1)).Return(total, nil)

		status, err := service.StreakStatus(ctx, 100, 1)
		assert.NoError(t, err)
		return status
	}

	t.Run("never checked in", func(t *testing.T) {
		status := run(t, nil, 0)
		assert.Equal(t, 0, status.Streak)
		assert.False(t, status.ClaimedToday)
		assert.Nil(t, status.LastCheckIn)
	})

	t.Run("claimed today", func(t *testing.T) {
		status := run(t, &models.CheckIn{Day: today, Streak: 5}, 12)
		assert.Equal(t, 5, status.Streak)
		assert.True(t, status.ClaimedToday)
		assert.Equal(t, int64(12), status.TotalCheckIns)
	})

	t.Run("streak alive with one day pending", func(t *testing.T) {
		status := run(t, &models.CheckIn{Day: today.AddDate(0, 0, -1), Streak: 5}, 12)
		assert.Equal(t, 5, status.Streak)
		assert.False(t, status.ClaimedToday)
		assert.False(t, status.StreakBroken)
	})

	t.Run("streak broken after a gap", func(t *testing.T) {
		status := run(t, &models.CheckIn{Day: today.AddDate(0, 0, -2), Streak: 5}, 12)
		assert.Equal(t, 0, status.Streak)
		assert.True(t, status.StreakBroken)
	})
}
