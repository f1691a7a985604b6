package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rosethorn/models"
)

func shopMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockMemberRepository, *MockShopItemRepository, *MockPurchaseRepository, *MockBalanceHistoryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockItemRepo := new(MockShopItemRepository)
	mockPurchaseRepo := new(MockPurchaseRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockMemberRepo, nil, nil, nil, mockItemRepo, mockPurchaseRepo, mockHistoryRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil).Maybe()
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockMemberRepo, mockItemRepo, mockPurchaseRepo, mockHistoryRepo
}

func TestShopService_Purchase(t *testing.T) {
	ctx := context.Background()

	item := func() *models.ShopItem {
		return &models.ShopItem{
			ID: 7, GuildID: 100, Name: "Rose Crown",
			Price: 300, Stock: 5, Purchasable: true,
		}
	}

	t.Run("successful purchase", func(t *testing.T) {
		mockFactory, mockUoW, mockMemberRepo, mockItemRepo, mockPurchaseRepo, mockHistoryRepo := shopMocks()
		service := NewShopService(mockFactory)

		member := &models.Member{GuildID: 100, UserID: 1, Balance: 1000}

		mockItemRepo.On("GetByName", ctx, int64(100), "Rose Crown").Return(item(), nil)
		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(member, nil)
		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(600)).Return(nil)
		mockItemRepo.On("DecrementStock", ctx, int64(7), 2).Return(nil)
		mockPurchaseRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Purchase) bool {
			return p.ItemID == 7 && p.Quantity == 2 && p.TotalCost == 600
		})).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
			return h.ChangeAmount == -600 && h.TransactionType == models.TransactionTypePurchase
		})).Return(nil)

		result, err := service.Purchase(ctx, 100, 1, "Rose Crown", 2)

		assert.NoError(t, err)
		assert.Equal(t, int64(600), result.TotalCost)
		assert.Equal(t, int64(400), result.NewBalance)

		mockUoW.AssertExpectations(t)
		mockItemRepo.AssertExpectations(t)
		mockPurchaseRepo.AssertExpectations(t)
	})

	t.Run("unlimited stock skips the decrement", func(t *testing.T) {
		mockFactory, _, mockMemberRepo, mockItemRepo, mockPurchaseRepo, mockHistoryRepo := shopMocks()
		service := NewShopService(mockFactory)

		unlimited := item()
		unlimited.Stock = models.UnlimitedStock

		mockItemRepo.On("GetByName", ctx, int64(100), "Rose Crown").Return(unlimited, nil)
		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(&models.Member{GuildID: 100, UserID: 1, Balance: 1000}, nil)
		mockMemberRepo.On("DeductBalance", ctx, int64(100), int64(1), int64(300)).Return(nil)
		mockPurchaseRepo.On("Create", ctx, mock.Anything).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

		_, err := service.Purchase(ctx, 100, 1, "Rose Crown", 1)

		assert.NoError(t, err)
		mockItemRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		mockFactory, mockUoW, mockMemberRepo, mockItemRepo, _, _ := shopMocks()
		service := NewShopService(mockFactory)

		mockItemRepo.On("GetByName", ctx, int64(100), "Rose Crown").Return(item(), nil)
		mockMemberRepo.On("GetByUser", ctx, int64(100), int64(1)).Return(&models.Member{GuildID: 100, UserID: 1, Balance: 500}, nil)

		_, err := service.Purchase(ctx, 100, 1, "Rose Crown", 2)

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		mockUoW.AssertNotCalled(t, "Commit")
		mockMemberRepo.AssertNotCalled(t, "DeductBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of stock", func(t *testing.T) {
		mockFactory, _, _, mockItemRepo, _, _ := shopMocks()
		service := NewShopService(mockFactory)

		low := item()
		low.Stock = 1

		mockItemRepo.On("GetByName", ctx, int64(100), "Rose Crown").Return(low, nil)

		_, err := service.Purchase(ctx, 100, 1, "Rose Crown", 2)
		assert.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("unknown or disabled item", func(t *testing.T) {
		mockFactory, _, _, mockItemRepo, _, _ := shopMocks()
		service := NewShopService(mockFactory)

		mockItemRepo.On("GetByName", ctx, int64(100), "Ghost Item").Return(nil, nil)

		_, err := service.Purchase(ctx, 100, 1, "Ghost Item", 1)
		assert.ErrorIs(t, err, ErrItemUnavailable)

		disabled := item()
		disabled.Purchasable = false
		mockItemRepo.On("GetByName", ctx, int64(100), "Rose Crown").Return(disabled, nil)

		_, err = service.Purchase(ctx, 100, 1, "Rose Crown", 1)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewShopService(mockFactory)

		_, err := service.Purchase(ctx, 100, 1, "Rose Crown", 0)
		assert.ErrorIs(t, err, ErrInvalidTarget)
		mockFactory.AssertNotCalled(t, "Create")
	})
}

func TestShopService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("validations", func(t *testing.T) {
		mockFactory := new(MockUnitOfWorkFactory)
		service := NewShopService(mockFactory)

		err := service.AddItem(ctx, &models.ShopItem{GuildID: 100, Name: "Bad", Price: -1})
		assert.ErrorIs(t, err, ErrInvalidTarget)

		err = service.AddItem(ctx, &models.ShopItem{GuildID: 100, Name: "Bad", Price: 10, Stock: -2})
		assert.ErrorIs(t, err, ErrInvalidTarget)

		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("creates the item", func(t *testing.T) {
		mockFactory, _, _, mockItemRepo, _, _ := shopMocks()
		service := NewShopService(mockFactory)

		item := &models.ShopItem{GuildID: 100, Name: "Thorn Shield", Price: 200, Stock: models.UnlimitedStock, Purchasable: true}
		mockItemRepo.On("Create", ctx, item).Return(nil)

		err := service.AddItem(ctx, item)
		assert.NoError(t, err)
		mockItemRepo.AssertExpectations(t)
	})
}

func TestShopService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("disables instead of deleting", func(t *testing.T) {
		mockFactory, _, _, mockItemRepo, _, _ := shopMocks()
		service := NewShopService(mockFactory)

		mockItemRepo.On("GetByID", ctx, int64(100), int64(7)).Return(&models.ShopItem{ID: 7, GuildID: 100}, nil)
		mockItemRepo.On("SetPurchasable", ctx, int64(100), int64(7), false).Return(nil)

		err := service.RemoveItem(ctx, 100, 7)
		assert.NoError(t, err)
		mockItemRepo.AssertExpectations(t)
	})

	t.Run("unknown item", func(t *testing.T) {
		mockFactory, _, _, mockItemRepo, _, _ := shopMocks()
		service := NewShopService(mockFactory)

		mockItemRepo.On("GetByID", ctx, int64(100), int64(9)).Return(nil, nil)

		err := service.RemoveItem(ctx, 100, 9)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})
}
