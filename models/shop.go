package models

import (
	"time"
)

// ItemRarity classifies shop items for display purposes
type ItemRarity string

const (
	RarityCommon    ItemRarity = "common"
	RarityUncommon  ItemRarity = "uncommon"
	RarityRare      ItemRarity = "rare"
	RarityEpic      ItemRarity = "epic"
	RarityLegendary ItemRarity = "legendary"
)

// UnlimitedStock marks an item that never runs out
const UnlimitedStock = -1

// ShopItem is a purchasable item in a guild's shop
type ShopItem struct {
	ID          int64      `db:"id"`
	GuildID     int64      `db:"guild_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Price       int64      `db:"price"`
	Rarity      ItemRarity `db:"rarity"`
	Stock       int        `db:"stock"` // UnlimitedStock (-1) or remaining count
	Purchasable bool       `db:"purchasable"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Purchase is an append-only purchase record
type Purchase struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	ItemID    int64     `db:"item_id"`
	Quantity  int       `db:"quantity"`
	TotalCost int64     `db:"total_cost"`
	CreatedAt time.Time `db:"created_at"`
}

// PurchaseResult is the outcome of a successful shop purchase
type PurchaseResult struct {
	Item       *ShopItem
	Quantity   int
	TotalCost  int64
	NewBalance int64
}

// InventoryEntry aggregates a member's purchases of one item
type InventoryEntry struct {
	Item     *ShopItem
	Quantity int
}
