package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rosethorn/database"
	"rosethorn/models"
	"rosethorn/service"
)

// ShopItemRepository implements the ShopItemRepository interface
type ShopItemRepository struct {
	q queryable
}

// NewShopItemRepository creates a new shop item repository
func NewShopItemRepository(db *database.DB) *ShopItemRepository {
	return &ShopItemRepository{q: db.Pool}
}

// newShopItemRepositoryWithTx creates a new shop item repository with a transaction
func newShopItemRepositoryWithTx(tx queryable) *ShopItemRepository {
	return &ShopItemRepository{q: tx}
}

const shopItemColumns = `id, guild_id, name, description, price, rarity, stock, purchasable, created_at`

func scanShopItem(row pgx.Row) (*models.ShopItem, error) {
	var item models.ShopItem
	err := row.Scan(
		&item.ID,
		&item.GuildID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Rarity,
		&item.Stock,
		&item.Purchasable,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create creates a new shop item
func (r *ShopItemRepository) Create(ctx context.Context, item *models.ShopItem) error {
	if item.Rarity == "" {
		item.Rarity = models.RarityCommon
	}

	query := `
		INSERT INTO shop_items (guild_id, name, description, price, rarity, stock, purchasable)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		item.GuildID,
		item.Name,
		item.Description,
		item.Price,
		item.Rarity,
		item.Stock,
		item.Purchasable,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create shop item %q: %w", item.Name, err)
	}

	return nil
}

// GetByID retrieves an item scoped to a guild, or nil
func (r *ShopItemRepository) GetByID(ctx context.Context, guildID, itemID int64) (*models.ShopItem, error) {
	query := `
		SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE guild_id = $1 AND id = $2
	`

	item, err := scanShopItem(r.q.QueryRow(ctx, query, guildID, itemID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %d: %w", itemID, err)
	}

	return item, nil
}

// GetByName retrieves a purchasable item by case-insensitive name, or nil
func (r *ShopItemRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.ShopItem, error) {
	query := `
		SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2)
		ORDER BY purchasable DESC, id
		LIMIT 1
	`

	item, err := scanShopItem(r.q.QueryRow(ctx, query, guildID, name))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %q: %w", name, err)
	}

	return item, nil
}

// ListPurchasable returns a guild's purchasable items ordered by price
func (r *ShopItemRepository) ListPurchasable(ctx context.Context, guildID int64) ([]*models.ShopItem, error) {
	query := `
		SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE guild_id = $1 AND purchasable
		ORDER BY price, name
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var items []*models.ShopItem
	for rows.Next() {
		item, err := scanShopItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// DecrementStock atomically reduces finite stock. The guard in the
// WHERE clause means two concurrent buyers cannot oversell the item.
func (r *ShopItemRepository) DecrementStock(ctx context.Context, itemID int64, quantity int) error {
	query := `
		UPDATE shop_items
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1
	`

	result, err := r.q.Exec(ctx, query, quantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for item %d: %w", itemID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrOutOfStock
	}

	return nil
}

// SetPurchasable enables or disables an item
func (r *ShopItemRepository) SetPurchasable(ctx context.Context, guildID, itemID int64, purchasable bool) error {
	query := `
		UPDATE shop_items
		SET purchasable = $1
		WHERE guild_id = $2 AND id = $3
	`

	result, err := r.q.Exec(ctx, query, purchasable, guildID, itemID)
	if err != nil {
		return fmt.Errorf("failed to update shop item %d: %w", itemID, err)
	}
	if result.RowsAffected() == 0 {
		return service.ErrItemUnavailable
	}

	return nil
}
