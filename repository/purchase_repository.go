package repository

import (
	"context"
	"fmt"

	"rosethorn/database"
	"rosethorn/models"
)

// PurchaseRepository implements the PurchaseRepository interface
type PurchaseRepository struct {
	q queryable
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *database.DB) *PurchaseRepository {
	return &PurchaseRepository{q: db.Pool}
}

// newPurchaseRepositoryWithTx creates a new purchase repository with a transaction
func newPurchaseRepositoryWithTx(tx queryable) *PurchaseRepository {
	return &PurchaseRepository{q: tx}
}

// Create appends a purchase row
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	query := `
		INSERT INTO purchases (guild_id, user_id, item_id, quantity, total_cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		purchase.GuildID,
		purchase.UserID,
		purchase.ItemID,
		purchase.Quantity,
		purchase.TotalCost,
	).Scan(&purchase.ID, &purchase.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create purchase for member %d: %w", purchase.UserID, err)
	}

	return nil
}

// GetInventory aggregates a member's purchases per item
func (r *PurchaseRepository) GetInventory(ctx context.Context, guildID, userID int64) ([]*models.InventoryEntry, error) {
	query := `
		SELECT i.id, i.guild_id, i.name, i.description, i.price, i.rarity, i.stock, i.purchasable, i.created_at,
		       SUM(p.quantity) AS quantity
		FROM purchases p
		JOIN shop_items i ON i.id = p.item_id
		WHERE p.guild_id = $1 AND p.user_id = $2
		GROUP BY i.id
		ORDER BY i.name
	`

	rows, err := r.q.Query(ctx, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory for member %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.InventoryEntry
	for rows.Next() {
		var item models.ShopItem
		var entry models.InventoryEntry
		err := rows.Scan(
			&item.ID,
			&item.GuildID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Rarity,
			&item.Stock,
			&item.Purchasable,
			&item.CreatedAt,
			&entry.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		entry.Item = &item
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
