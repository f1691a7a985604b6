package testutil

import (
	"time"

	"rosethorn/models"
)

// CreateTestCheckIn creates a check-in row for the given day
func CreateTestCheckIn(guildID, userID int64, day time.Time, streak int) *models.CheckIn {
	return &models.CheckIn{
		GuildID: guildID,
		UserID:  userID,
		Day:     day,
		Streak:  streak,
		Reward:  100,
	}
}

// CreateTestShopItem creates a shop item with default values
func CreateTestShopItem(guildID int64, name string, price int64) *models.ShopItem {
	return &models.ShopItem{
		GuildID:     guildID,
		Name:        name,
		Description: "A test item",
		Price:       price,
		Rarity:      models.RarityCommon,
		Stock:       models.UnlimitedStock,
		Purchasable: true,
	}
}

// CreateTestShopItemWithStock creates a shop item with finite stock
func CreateTestShopItemWithStock(guildID int64, name string, price int64, stock int) *models.ShopItem {
	item := CreateTestShopItem(guildID, name, price)
	item.Stock = stock
	return item
}

// CreateTestWarning creates a warning with default values
func CreateTestWarning(guildID, userID, moderatorID int64, reason string) *models.Warning {
	return &models.Warning{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Active:      true,
	}
}

// CreateTestBalanceHistory creates a balance history entry with default values
func CreateTestBalanceHistory(guildID, userID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
