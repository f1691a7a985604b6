package repository

import (
	"context"
	"fmt"

	"rosethorn/database"
	"rosethorn/models"
)

// WarningRepository implements the WarningRepository interface
type WarningRepository struct {
	q queryable
}

// NewWarningRepository creates a new warning repository
func NewWarningRepository(db *database.DB) *WarningRepository {
	return &WarningRepository{q: db.Pool}
}

// newWarningRepositoryWithTx creates a new warning repository with a transaction
func newWarningRepositoryWithTx(tx queryable) *WarningRepository {
	return &WarningRepository{q: tx}
}

// Create appends a warning row
func (r *WarningRepository) Create(ctx context.Context, warning *models.Warning) error {
	query := `
		INSERT INTO warnings (guild_id, user_id, moderator_id, reason, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		warning.GuildID,
		warning.UserID,
		warning.ModeratorID,
		warning.Reason,
		warning.Active,
	).Scan(&warning.ID, &warning.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create warning for member %d: %w", warning.UserID, err)
	}

	return nil
}

// CountActive returns the number of active warnings for a member
func (r *WarningRepository) CountActive(ctx context.Context, guildID, userID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM warnings WHERE guild_id = $1 AND user_id = $2 AND active`,
		guildID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count warnings for member %d: %w", userID, err)
	}
	return count, nil
}

// GetActiveByUser returns active warnings for a member, newest first
func (r *WarningRepository) GetActiveByUser(ctx context.Context, guildID, userID int64) ([]*models.Warning, error) {
	query := `
		SELECT id, guild_id, user_id, moderator_id, reason, active, created_at
		FROM warnings
		WHERE guild_id = $1 AND user_id = $2 AND active
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query warnings for member %d: %w", userID, err)
	}
	defer rows.Close()

	var warnings []*models.Warning
	for rows.Next() {
		var warning models.Warning
		err := rows.Scan(
			&warning.ID,
			&warning.GuildID,
			&warning.UserID,
			&warning.ModeratorID,
			&warning.Reason,
			&warning.Active,
			&warning.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, &warning)
	}

	return warnings, rows.Err()
}
