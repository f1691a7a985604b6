package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rosethorn/models"
)

func gamblingMocks(member *models.Member) (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockMemberRepository, *MockBalanceHistoryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockMemberRepo, nil, nil, nil, nil, nil, mockHistoryRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil).Maybe()
	mockUoW.On("Rollback").Return(nil)

	if member != nil {
		mockMemberRepo.On("GetByUser", mock.Anything, member.GuildID, member.UserID).Return(member, nil)
	}

	return mockFactory, mockUoW, mockMemberRepo, mockHistoryRepo
}

func TestGamblingService_Coinflip_Win(t *testing.T) {
	ctx := context.Background()
	member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}
	mockFactory, mockUoW, mockMemberRepo, mockHistoryRepo := gamblingMocks(member)

	// Intn(2) == 0 wins the flip
	service := NewGamblingService(mockFactory, &scriptedRand{ints: []int{0}})

	mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(100)).Return(nil)
	mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(200)).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.ChangeAmount == 100 && h.TransactionType == models.TransactionTypeGambleWin
	})).Return(nil)

	result, err := service.Gamble(ctx, 100, 1, 100, models.GameCoinflip)

	assert.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, int64(200), result.Payout)
	assert.Equal(t, int64(100), result.Net())
	assert.Equal(t, int64(1100), result.NewBalance)

	mockUoW.AssertExpectations(t)
	mockMemberRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestGamblingService_Coinflip_Loss(t *testing.T) {
	ctx := context.Background()
	member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}
	mockFactory, _, mockMemberRepo, mockHistoryRepo := gamblingMocks(member)

	service := NewGamblingService(mockFactory, &scriptedRand{ints: []int{1}})

	mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(100)).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.ChangeAmount == -100 && h.TransactionType == models.TransactionTypeGambleLoss
	})).Return(nil)

	result, err := service.Gamble(ctx, 100, 1, 100, models.GameCoinflip)

	assert.NoError(t, err)
	assert.False(t, result.Won)
	assert.Equal(t, int64(0), result.Payout)
	assert.Equal(t, int64(-100), result.Net())
	assert.Equal(t, int64(900), result.NewBalance)

	// Losses never credit anything back
	mockMemberRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGamblingService_Slots(t *testing.T) {
	ctx := context.Background()

	t.Run("win pays a listed multiplier", func(t *testing.T) {
		member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}
		mockFactory, _, mockMemberRepo, mockHistoryRepo := gamblingMocks(member)

		// Float64 0.1 < 0.2 wins; Intn(4) == 2 picks the 5x multiplier
		service := NewGamblingService(mockFactory, &scriptedRand{ints: []int{2}, floats: []float64{0.1}})

		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(50)).Return(nil)
		mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(250)).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

		result, err := service.Gamble(ctx, 100, 1, 50, models.GameSlots)

		assert.NoError(t, err)
		assert.True(t, result.Won)
		assert.Contains(t, []int{2, 3, 5, 10}, result.Multiplier)
		assert.Equal(t, int64(250), result.Payout)
	})

	t.Run("loss", func(t *testing.T) {
		member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}
		mockFactory, _, mockMemberRepo, mockHistoryRepo := gamblingMocks(member)

		service := NewGamblingService(mockFactory, &scriptedRand{ints: []int{0}, floats: []float64{0.9}})

		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(50)).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

		result, err := service.Gamble(ctx, 100, 1, 50, models.GameSlots)

		assert.NoError(t, err)
		assert.False(t, result.Won)
		assert.Equal(t, 0, result.Multiplier)
	})
}

func TestGamblingService_Dice(t *testing.T) {
	ctx := context.Background()

	t.Run("roll of four or more wins 1.5x", func(t *testing.T) {
		member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}
		mockFactory, _, mockMemberRepo, mockHistoryRepo := gamblingMocks(member)

		// Intn(6) == 3 rolls a 4
		service := NewGamblingService(mockFactory, &scriptedRand{ints: []int{3}})

		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(100)).Return(nil)
		mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(150)).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

		result, err := service.Gamble(ctx, 100, 1, 100, models.GameDice)

		assert.NoError(t, err)
		assert.True(t, result.Won)
		assert.Equal(t, 4, result.DiceRoll)
		assert.Equal(t, int64(150), result.Payout)
	})

	t.Run("odd wager rounds the payout down", func(t *testing.T) {
		member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}
		mockFactory, _, mockMemberRepo, mockHistoryRepo := gamblingMocks(member)

		// Intn(6) == 5 rolls a 6
		service := NewGamblingService(mockFactory, &scriptedRand{ints: []int{5}})

		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(7)).Return(nil)
		mockMemberRepo.On("AddBalance", ctx, int64(100), int64(1), int64(10)).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

		result, err := service.Gamble(ctx, 100, 1, 7, models.GameDice)

		assert.NoError(t, err)
		assert.True(t, result.Won)
		assert.Equal(t, int64(10), result.Payout)
		assert.Equal(t, int64(3), result.Net())
		assert.Equal(t, int64(1003), result.NewBalance)
		mockMemberRepo.AssertExpectations(t)
	})

	t.Run("roll of three loses", func(t *testing.T) {
		member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}
		mockFactory, _, mockMemberRepo, mockHistoryRepo := gamblingMocks(member)

		service := NewGamblingService(mockFactory, &scriptedRand{ints: []int{2}})

		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(100)).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

		result, err := service.Gamble(ctx, 100, 1, 100, models.GameDice)

		assert.NoError(t, err)
		assert.False(t, result.Won)
		assert.Equal(t, 3, result.DiceRoll)
	})
}

func TestGamblingService_Validations(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive wager", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewGamblingService(mockFactory, NewRand(1))

		_, err := service.Gamble(ctx, 100, 1, 0, models.GameCoinflip)
		assert.ErrorIs(t, err, ErrInvalidWager)

		_, err = service.Gamble(ctx, 100, 1, -50, models.GameCoinflip)
		assert.ErrorIs(t, err, ErrInvalidWager)

		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("unknown game", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewGamblingService(mockFactory, NewRand(1))

		_, err := service.Gamble(ctx, 100, 1, 50, models.GambleGame("roulette"))
		assert.Error(t, err)
	})

	t.Run("wager above balance", func(t *testing.T) {
		member := &models.Member{GuildID: 100, UserID: 1, Balance: 40}
		mockFactory, mockUoW, _, _ := gamblingMocks(member)
		service := NewGamblingService(mockFactory, NewRand(1))

		_, err := service.Gamble(ctx, 100, 1, 50, models.GameCoinflip)
		assert.ErrorIs(t, err, ErrInvalidWager)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("unknown member", func(t *testing.T) {
		mockFactory, _, mockMemberRepo, _ := gamblingMocks(nil)
		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(nil, nil)
		service := NewGamblingService(mockFactory, NewRand(1))

		_, err := service.Gamble(ctx, 100, 1, 50, models.GameCoinflip)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestGamblingService_CoinflipDistribution(t *testing.T) {
	ctx := context.Background()
	member := &models.Member{GuildID: 100, UserID: 1, Balance: 1 << 40}

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)
	mockUoW.SetRepositories(mockMemberRepo, nil, nil, nil, nil, nil, mockHistoryRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
	mockMemberRepo.On("DeductBalance", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockMemberRepo.On("AddBalance", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

	service := NewGamblingService(mockFactory, NewRand(42))

	wins := 0
	const rounds = 10000
	for i := 0; i < rounds; i++ {
		result, err := service.Gamble(ctx, 100, 1, 100, models.GameCoinflip)
		assert.NoError(t, err)
		// Payout is exactly 0 or double the wager
		assert.Contains(t, []int64{0, 200}, result.Payout)
		if result.Won {
			wins++
		}
	}

	// A fair coin over 10k rounds stays comfortably inside 47-53%
	assert.Greater(t, wins, 4700)
	assert.Less(t, wins, 5300)
}
