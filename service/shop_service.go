package service

import (
	"context"
	"fmt"

	"rosethorn/events"
	"rosethorn/models"
)

type shopService struct {
	uowFactory UnitOfWorkFactory
}

// NewShopService creates a new shop service
func NewShopService(uowFactory UnitOfWorkFactory) ShopService {
	return &shopService{
		uowFactory: uowFactory,
	}
}

func (s *shopService) Purchase(ctx context.Context, guildID, userID int64, itemName string, quantity int) (*models.PurchaseResult, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidTarget)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.ShopItemRepository().GetByName(ctx, guildID, itemName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil || !item.Purchasable {
		return nil, ErrItemUnavailable
	}

	if item.Stock != models.UnlimitedStock && item.Stock < quantity {
		return nil, ErrOutOfStock
	}

	member, err := uow.MemberRepository().GetByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	totalCost := item.Price * int64(quantity)
	if member.Balance < totalCost {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, totalCost, member.Balance)
	}

	// Balance debit, stock decrement and the purchase row commit
	// together or not at all.
	if err := uow.MemberRepository().DeductBalance(ctx, guildID, userID, totalCost); err != nil {
		return nil, err
	}

	if item.Stock != models.UnlimitedStock {
		if err := uow.ShopItemRepository().DecrementStock(ctx, item.ID, quantity); err != nil {
			return nil, err
		}
	}

	if err := uow.PurchaseRepository().Create(ctx, &models.Purchase{
		GuildID:   guildID,
		UserID:    userID,
		ItemID:    item.ID,
		Quantity:  quantity,
		TotalCost: totalCost,
	}); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	newBalance := member.Balance - totalCost
	if err := recordBalanceChange(ctx, uow, &models.BalanceHistory{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   member.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    -totalCost,
		TransactionType: models.TransactionTypePurchase,
		TransactionMetadata: map[string]any{
			"item_id":   item.ID,
			"item_name": item.Name,
			"quantity":  quantity,
		},
	}); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.PurchaseMadeEvent{
		GuildID:  guildID,
		UserID:   userID,
		ItemID:   item.ID,
		Quantity: quantity,
		Cost:     totalCost,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PurchaseResult{
		Item:       item,
		Quantity:   quantity,
		TotalCost:  totalCost,
		NewBalance: newBalance,
	}, nil
}

func (s *shopService) ListItems(ctx context.Context, guildID int64) ([]*models.ShopItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ShopItemRepository().ListPurchasable(ctx, guildID)
}

func (s *shopService) AddItem(ctx context.Context, item *models.ShopItem) error {
	if item.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidTarget)
	}
	if item.Stock < models.UnlimitedStock {
		return fmt.Errorf("%w: stock must be -1 or non-negative", ErrInvalidTarget)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ShopItemRepository().Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *shopService) RemoveItem(ctx context.Context, guildID, itemID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.ShopItemRepository().GetByID(ctx, guildID, itemID)
	if err != nil {
		return fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil {
		return ErrItemUnavailable
	}

	if err := uow.ShopItemRepository().SetPurchasable(ctx, guildID, itemID, false); err != nil {
		return fmt.Errorf("failed to disable item: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *shopService) Inventory(ctx context.Context, guildID, userID int64) ([]*models.InventoryEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PurchaseRepository().GetInventory(ctx, guildID, userID)
}
